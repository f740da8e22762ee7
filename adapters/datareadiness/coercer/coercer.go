package coercer

import (
	"math"
	"strconv"
	"strings"

	"chicuadrado/domain/dataset"
)

// TypeCoercer classifies raw cell text the way the upload parser
// is expected to: missing tokens first, then numbers, then booleans.
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold float64             `json:"numeric_threshold"` // share of non-missing values that must parse as numbers
	BooleanThreshold float64             `json:"boolean_threshold"` // share of values that must be True/False tokens
	MissingTokens    map[string]struct{} `json:"-"`
}

// defaultMissingTokens are the strings read as a missing value
var defaultMissingTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// DefaultCoercionConfig returns strict thresholds: a single label in a numeric
// column turns the whole column categorical.
func DefaultCoercionConfig() CoercionConfig {
	tokens := make(map[string]struct{}, len(defaultMissingTokens))
	for _, t := range defaultMissingTokens {
		tokens[t] = struct{}{}
	}
	return CoercionConfig{
		NumericThreshold: 1.0,
		BooleanThreshold: 1.0,
		MissingTokens:    tokens,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if config.MissingTokens == nil {
		config.MissingTokens = DefaultCoercionConfig().MissingTokens
	}
	return &TypeCoercer{config: config}
}

// IsMissing reports whether a raw cell is a missing-value token
func (c *TypeCoercer) IsMissing(raw string) bool {
	_, ok := c.config.MissingTokens[raw]
	return ok
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int                `json:"total_count"`
	ValidCount      int                `json:"valid_count"`
	NumericCount    int                `json:"numeric_count"`
	BooleanCount    int                `json:"boolean_count"`
	NumericRatio    float64            `json:"numeric_ratio"`
	BooleanRatio    float64            `json:"boolean_ratio"`
	RecommendedKind dataset.ColumnKind `json:"recommended_kind"`
}

// AnalyzeColumn counts how many raw values coerce to each type and
// recommends a column kind. missing[i] is set for missing tokens.
func (c *TypeCoercer) AnalyzeColumn(raw []string) (TypeAnalysis, []bool) {
	analysis := TypeAnalysis{TotalCount: len(raw)}
	missing := make([]bool, len(raw))

	for i, v := range raw {
		if c.IsMissing(v) {
			missing[i] = true
			continue
		}
		analysis.ValidCount++
		if c.isNumeric(v) {
			analysis.NumericCount++
		}
		if c.isBoolean(v) {
			analysis.BooleanCount++
		}
	}

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
		analysis.BooleanRatio = float64(analysis.BooleanCount) / float64(analysis.TotalCount)
	}
	analysis.RecommendedKind = c.determineRecommendedKind(analysis)

	return analysis, missing
}

// InferKind is AnalyzeColumn without the counts
func (c *TypeCoercer) InferKind(raw []string) (dataset.ColumnKind, []bool) {
	analysis, missing := c.AnalyzeColumn(raw)
	return analysis.RecommendedKind, missing
}

// determineRecommendedKind chooses the kind from the counts.
// An all-missing column is numeric (a column of NaN).
// Boolean ratio is taken over all cells, so gaps demote it to categorical.
func (c *TypeCoercer) determineRecommendedKind(analysis TypeAnalysis) dataset.ColumnKind {
	if analysis.ValidCount == 0 {
		return dataset.KindNumeric
	}
	if analysis.NumericRatio >= c.config.NumericThreshold {
		return dataset.KindNumeric
	}
	if analysis.BooleanRatio >= c.config.BooleanThreshold {
		return dataset.KindBoolean
	}
	return dataset.KindCategorical
}

// ParseNumeric parses a decimal number. Hex literals and thousands
// separators are rejected; surrounding whitespace is allowed.
func (c *TypeCoercer) ParseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsAny(s, "xX_,") {
		return 0, false
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

func (c *TypeCoercer) isNumeric(raw string) bool {
	_, ok := c.ParseNumeric(raw)
	return ok
}

// isBoolean accepts only the literal True/False spellings
func (c *TypeCoercer) isBoolean(raw string) bool {
	switch raw {
	case "True", "TRUE", "true", "False", "FALSE", "false":
		return true
	}
	return false
}
