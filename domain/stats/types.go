package stats

import (
	"fmt"
	"strings"
)

// TestKind selects one of the three chi-squared procedures
type TestKind string

const (
	KindIndependence  TestKind = "independencia"
	KindGoodnessOfFit TestKind = "bondad_de_ajuste"
	KindHomogeneity   TestKind = "homogeneidad"
)

// AllKinds returns the kinds in the order they are offered to the user
func AllKinds() []TestKind {
	return []TestKind{KindIndependence, KindGoodnessOfFit, KindHomogeneity}
}

// Label returns the display name used on the page and in the report
func (k TestKind) Label() string {
	switch k {
	case KindIndependence:
		return "Independencia"
	case KindGoodnessOfFit:
		return "Bondad de Ajuste"
	case KindHomogeneity:
		return "Homogeneidad"
	default:
		return string(k)
	}
}

// ParseTestKind accepts either the identifier or the display label
func ParseTestKind(s string) (TestKind, error) {
	s = strings.TrimSpace(s)
	for _, k := range AllKinds() {
		if s == string(k) || strings.EqualFold(s, k.Label()) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown test kind %q", s)
}

// ContingencyTable is the cross-tabulation of two categorical columns.
// Counts[i][j] is the number of rows with RowLabels[i] and ColLabels[j].
type ContingencyTable struct {
	RowVariable string   `json:"row_variable"`
	ColVariable string   `json:"col_variable"`
	RowLabels   []string `json:"row_labels"`
	ColLabels   []string `json:"col_labels"`
	Counts      [][]int  `json:"counts"`
}

// Total returns the sum of all cells
func (t *ContingencyTable) Total() int {
	total := 0
	for _, row := range t.Counts {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// RowTotals returns the marginal totals of each row
func (t *ContingencyTable) RowTotals() []int {
	totals := make([]int, len(t.Counts))
	for i, row := range t.Counts {
		for _, c := range row {
			totals[i] += c
		}
	}
	return totals
}

// ColTotals returns the marginal totals of each column
func (t *ContingencyTable) ColTotals() []int {
	totals := make([]int, len(t.ColLabels))
	for _, row := range t.Counts {
		for j, c := range row {
			totals[j] += c
		}
	}
	return totals
}

// FrequencyVector holds the observed counts of one column, sorted by
// category, and the user's expected counts once they have been parsed.
type FrequencyVector struct {
	Variable   string    `json:"variable"`
	Categories []string  `json:"categories"`
	Observed   []int     `json:"observed"`
	Expected   []float64 `json:"expected,omitempty"`
}

// ObservedTotal returns the number of non-missing observations
func (v *FrequencyVector) ObservedTotal() int {
	total := 0
	for _, c := range v.Observed {
		total += c
	}
	return total
}

// Frequencies is the tagged output of the frequency-building step:
// exactly one of Table or Vector is set.
type Frequencies struct {
	Table  *ContingencyTable `json:"table,omitempty"`
	Vector *FrequencyVector  `json:"vector,omitempty"`
}

// TestResult is the output of one chi-squared evaluation.
// DegreesOfFreedom and Expected are nil for goodness-of-fit.
type TestResult struct {
	Statistic        float64     `json:"statistic" yaml:"statistic"`
	PValue           float64     `json:"p_value" yaml:"p_value"`
	DegreesOfFreedom *int        `json:"degrees_of_freedom,omitempty" yaml:"degrees_of_freedom,omitempty"`
	Expected         [][]float64 `json:"expected,omitempty" yaml:"expected,omitempty"`
	YatesCorrected   bool        `json:"yates_corrected,omitempty" yaml:"yates_corrected,omitempty"`
}

// Interpretation is the conclusion reached for a p-value at a given alpha
type Interpretation struct {
	Reject bool   `json:"reject" yaml:"reject"`
	Text   string `json:"text" yaml:"text"`
}
