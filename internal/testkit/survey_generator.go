package testkit

import (
	"math/rand"
	"strconv"
)

// SurveyGeneratorConfig configures the synthetic survey
type SurveyGeneratorConfig struct {
	Respondents int     `json:"respondents"`
	Dependence  float64 `json:"dependence"`   // 0 means Preferencia ignores Sexo, 1 means it is fully determined by it
	MissingRate float64 `json:"missing_rate"` // share of Region cells left empty
	Seed        int64   `json:"seed"`
}

// DefaultSurveyConfig returns an independent survey of 200 respondents
func DefaultSurveyConfig() SurveyGeneratorConfig {
	return SurveyGeneratorConfig{
		Respondents: 200,
		Seed:        42,
	}
}

// SurveyHeaders are the columns produced by SurveyGenerator
var SurveyHeaders = []string{"Sexo", "Preferencia", "Region", "Edad"}

var (
	sexes       = []string{"F", "M"}
	preferences = []string{"A", "B", "C"}
	regions     = []string{"Norte", "Sur", "Este"}
)

// SurveyGenerator produces respondent rows with a tunable
// association between Sexo and Preferencia
type SurveyGenerator struct {
	config SurveyGeneratorConfig
	rng    *rand.Rand
}

// NewSurveyGenerator creates a seeded generator
func NewSurveyGenerator(config SurveyGeneratorConfig) *SurveyGenerator {
	return &SurveyGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Rows generates one row per respondent in SurveyHeaders order
func (g *SurveyGenerator) Rows() [][]string {
	rows := make([][]string, g.config.Respondents)
	for i := range rows {
		sex := sexes[g.rng.Intn(len(sexes))]

		pref := preferences[g.rng.Intn(len(preferences))]
		if g.rng.Float64() < g.config.Dependence {
			// F leans to A, M leans to C
			if sex == "F" {
				pref = "A"
			} else {
				pref = "C"
			}
		}

		region := regions[g.rng.Intn(len(regions))]
		if g.rng.Float64() < g.config.MissingRate {
			region = ""
		}

		age := 18 + g.rng.Intn(50)
		rows[i] = []string{sex, pref, region, strconv.Itoa(age)}
	}
	return rows
}
