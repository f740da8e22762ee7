// Package profiling summarizes the columns of an uploaded dataset.
package profiling

import (
	"sort"

	"chicuadrado/adapters/datareadiness/coercer"
	"chicuadrado/domain/dataset"
)

// ColumnSummary describes one column under the dataset preview
type ColumnSummary struct {
	Name     string             `json:"name" yaml:"name"`
	Kind     dataset.ColumnKind `json:"kind" yaml:"kind"`
	Count    int                `json:"count" yaml:"count"`
	Missing  int                `json:"missing" yaml:"missing"`
	Distinct int                `json:"distinct" yaml:"distinct"`

	// Categorical and boolean columns
	Top     string `json:"top,omitempty" yaml:"top,omitempty"`
	TopFreq int    `json:"top_freq,omitempty" yaml:"top_freq,omitempty"`

	// Numeric columns with at least one value
	Numeric *NumericSummary `json:"numeric,omitempty" yaml:"numeric,omitempty"`
}

// DataProfiler computes column summaries
type DataProfiler struct {
	coercer *coercer.TypeCoercer
	numeric *DistributionAnalyzer
}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() *DataProfiler {
	return &DataProfiler{
		coercer: coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
		numeric: NewDistributionAnalyzer(),
	}
}

// Summarize profiles every column of ds in dataset order
func (dp *DataProfiler) Summarize(ds *dataset.Dataset) []ColumnSummary {
	if ds == nil {
		return nil
	}
	out := make([]ColumnSummary, 0, len(ds.Columns))
	for _, col := range ds.Columns {
		out = append(out, dp.ProfileColumn(col))
	}
	return out
}

// ProfileColumn summarizes a single column
func (dp *DataProfiler) ProfileColumn(col *dataset.Column) ColumnSummary {
	summary := ColumnSummary{Name: col.Name, Kind: col.Kind}

	counts := make(map[string]int)
	var values []float64
	for i := 0; i < col.Len(); i++ {
		v, ok := col.Value(i)
		if !ok {
			summary.Missing++
			continue
		}
		summary.Count++
		counts[v]++
		if col.Kind == dataset.KindNumeric {
			if f, ok := dp.coercer.ParseNumeric(v); ok {
				values = append(values, f)
			}
		}
	}
	summary.Distinct = len(counts)

	if col.Kind == dataset.KindNumeric {
		if n, err := dp.numeric.Summarize(values); err == nil {
			summary.Numeric = &n
		}
		return summary
	}

	summary.Top, summary.TopFreq = mostFrequent(counts)
	return summary
}

// mostFrequent returns the modal value; ties go to the smallest label
func mostFrequent(counts map[string]int) (string, int) {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	top, freq := "", 0
	for _, label := range labels {
		if counts[label] > freq {
			top, freq = label, counts[label]
		}
	}
	return top, freq
}
