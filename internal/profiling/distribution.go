package profiling

import (
	"github.com/montanaflynn/stats"
)

// NumericSummary holds the describe-style statistics of a numeric column
type NumericSummary struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Min    float64 `json:"min" yaml:"min"`
	Q25    float64 `json:"q25" yaml:"q25"`
	Median float64 `json:"median" yaml:"median"`
	Q75    float64 `json:"q75" yaml:"q75"`
	Max    float64 `json:"max" yaml:"max"`
}

// DistributionAnalyzer computes numeric summaries
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// Summarize computes the summary of data. StdDev is the sample standard
// deviation and is zero for a single value.
func (da *DistributionAnalyzer) Summarize(data []float64) (NumericSummary, error) {
	var s NumericSummary
	var err error

	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if len(data) > 1 {
		if s.StdDev, err = stats.StandardDeviationSample(data); err != nil {
			return s, err
		}
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}
	if s.Q25, err = stats.Percentile(data, 25); err != nil {
		return s, err
	}
	if s.Q75, err = stats.Percentile(data, 75); err != nil {
		return s, err
	}
	return s, nil
}
