package app

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"chicuadrado/adapters/stats/chisquare"
	"chicuadrado/domain/dataset"
	"chicuadrado/domain/stats"
	"chicuadrado/internal"
	"chicuadrado/internal/analysis"
	"chicuadrado/internal/errors"
	"chicuadrado/internal/report"
)

// TestRequest is one run of a chi-squared test against a dataset.
// For homogeneity Var1 is the variable of interest and Var2 the group.
type TestRequest struct {
	Kind     stats.TestKind `json:"kind"`
	Var1     string         `json:"var1"`
	Var2     string         `json:"var2,omitempty"`
	Expected string         `json:"expected,omitempty"`
	Alpha    float64        `json:"alpha"`
}

// Distribution is the data behind one pie chart
type Distribution struct {
	Variable string                   `json:"variable" yaml:"variable"`
	Counts   []analysis.CategoryCount `json:"counts" yaml:"counts"`
}

// Outcome is everything computed for a request. Fields are filled in step
// order, so after a failure it still holds what the earlier steps produced.
type Outcome struct {
	Kind           stats.TestKind        `json:"kind" yaml:"kind"`
	Var1           string                `json:"var1" yaml:"var1"`
	Var2           string                `json:"var2,omitempty" yaml:"var2,omitempty"`
	Alpha          float64               `json:"alpha" yaml:"alpha"`
	Frequencies    stats.Frequencies     `json:"frequencies" yaml:"-"`
	Result         *stats.TestResult     `json:"result,omitempty" yaml:"result,omitempty"`
	Interpretation *stats.Interpretation `json:"interpretation,omitempty" yaml:"interpretation,omitempty"`
	Charts         []Distribution        `json:"charts,omitempty" yaml:"-"`
}

// Complete reports whether every step succeeded
func (o *Outcome) Complete() bool {
	return o != nil && o.Result != nil && o.Interpretation != nil
}

// ReportData returns the report inputs once the outcome is complete
func (o *Outcome) ReportData() (report.Data, bool) {
	if !o.Complete() {
		return report.Data{}, false
	}
	return report.Data{
		Kind:           o.Kind,
		Var1:           o.Var1,
		Var2:           o.Var2,
		Result:         *o.Result,
		Alpha:          o.Alpha,
		Interpretation: o.Interpretation.Text,
	}, true
}

// TestService runs categorical tests
type TestService struct {
	tests  map[stats.TestKind]CategoricalTest
	logger *internal.Logger
}

// NewTestService creates a service backed by evaluator
func NewTestService(evaluator *chisquare.Evaluator, logger *internal.Logger) *TestService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	tests := []CategoricalTest{
		newIndependenceTest(evaluator),
		newGoodnessOfFitTest(evaluator),
		newHomogeneityTest(evaluator),
	}
	s := &TestService{tests: make(map[stats.TestKind]CategoricalTest, len(tests)), logger: logger}
	for _, t := range tests {
		s.tests[t.Kind()] = t
	}
	return s
}

// Run validates req, builds the frequencies, evaluates and interprets them.
// The returned outcome is never nil.
func (s *TestService) Run(ctx context.Context, ds *dataset.Dataset, req TestRequest) (*Outcome, error) {
	outcome := &Outcome{Kind: req.Kind, Alpha: req.Alpha}

	if err := ctx.Err(); err != nil {
		return outcome, errors.Wrap(err, "test run cancelled")
	}
	if ds == nil {
		return outcome, errors.SelectionError("Primero cargue un archivo de datos.")
	}
	if len(dataset.CategoricalColumns(ds)) == 0 {
		return outcome, errors.SelectionError("No hay columnas categóricas disponibles en los datos cargados.")
	}

	test, ok := s.tests[req.Kind]
	if !ok {
		return outcome, errors.SelectionError(fmt.Sprintf("Tipo de prueba desconocido: %q.", req.Kind))
	}
	outcome.Var1, outcome.Var2 = test.Variables(req)

	start := time.Now()
	s.logger.Debug("[TestService] Running %s on %s (%s, %s)", req.Kind, ds.Name, req.Var1, req.Var2)

	if err := test.Validate(ds, req); err != nil {
		return outcome, err
	}

	freq, err := test.BuildFrequencies(ds, req)
	outcome.Frequencies = freq
	if err != nil {
		return outcome, err
	}

	result, err := test.Evaluate(freq)
	if err != nil {
		s.logger.Debug("[TestService] %s evaluation failed: %v", req.Kind, err)
		return outcome, err
	}
	outcome.Result = &result
	s.logger.Trace("[TestService] %s expected frequencies: %v", req.Kind, result.Expected)

	for _, variable := range test.ChartVariables(req) {
		counts, err := analysis.CategoryCounts(ds, variable)
		if err != nil {
			return outcome, err
		}
		outcome.Charts = append(outcome.Charts, Distribution{Variable: variable, Counts: counts})
	}

	if err := ValidateAlpha(req.Alpha); err != nil {
		return outcome, err
	}
	interpretation := test.Interpret(result, req.Alpha)
	outcome.Interpretation = &interpretation

	s.logger.Info("[TestService] %s completed in %s: chi2=%.4f p=%.4f reject=%t",
		req.Kind, time.Since(start).Round(time.Microsecond), result.Statistic, result.PValue, interpretation.Reject)
	return outcome, nil
}

// FillDefaults selects the first usable categorical columns for any
// variable left empty or invalid, the way the selectors preselect them
func FillDefaults(ds *dataset.Dataset, req TestRequest) TestRequest {
	columns := dataset.CategoricalColumns(ds)
	if len(columns) == 0 {
		return req
	}

	if !dataset.IsCategorical(ds, req.Var1) {
		req.Var1 = columns[0]
	}
	if req.Kind == stats.KindGoodnessOfFit {
		req.Var2 = ""
		return req
	}
	if req.Var2 == req.Var1 || !dataset.IsCategorical(ds, req.Var2) {
		req.Var2 = ""
		for _, c := range columns {
			if c != req.Var1 {
				req.Var2 = c
				break
			}
		}
	}
	return req
}

// ParseAlpha reads the significance level as typed, accepting a decimal
// comma. Unreadable text yields NaN, which ValidateAlpha rejects.
func ParseAlpha(text string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ValidateAlpha requires 0 < alpha < 1
func ValidateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return errors.InputFormatError("El nivel de significancia (alpha) debe ser un número mayor que 0 y menor que 1.")
	}
	return nil
}
