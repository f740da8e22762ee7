package app

import (
	"fmt"

	"chicuadrado/adapters/stats/chisquare"
	"chicuadrado/domain/dataset"
	"chicuadrado/domain/stats"
	"chicuadrado/internal/analysis"
	"chicuadrado/internal/errors"
)

// CategoricalTest is one chi-squared procedure broken into the steps the
// service runs in order
type CategoricalTest interface {
	Kind() stats.TestKind
	Validate(ds *dataset.Dataset, req TestRequest) error
	BuildFrequencies(ds *dataset.Dataset, req TestRequest) (stats.Frequencies, error)
	Evaluate(freq stats.Frequencies) (stats.TestResult, error)
	Interpret(result stats.TestResult, alpha float64) stats.Interpretation
	ChartVariables(req TestRequest) []string
	// Variables returns the two names the report prints; the second may be empty
	Variables(req TestRequest) (string, string)
}

// twoWayTest is the contingency-table path shared by independence and homogeneity
type twoWayTest struct {
	kind       stats.TestKind
	firstRole  string
	secondRole string
	evaluator  *chisquare.Evaluator
}

func (t *twoWayTest) Kind() stats.TestKind { return t.kind }

func (t *twoWayTest) Validate(ds *dataset.Dataset, req TestRequest) error {
	if err := requireCategorical(ds, req.Var1, t.firstRole); err != nil {
		return err
	}
	if err := requireCategorical(ds, req.Var2, t.secondRole); err != nil {
		return err
	}
	// a column against itself gives a diagonal table that tests nothing
	if req.Var1 == req.Var2 {
		return errors.SelectionError(fmt.Sprintf(
			"Seleccione columnas distintas para %s y %s: una variable no puede compararse consigo misma.",
			t.firstRole, t.secondRole))
	}
	return nil
}

func (t *twoWayTest) BuildFrequencies(ds *dataset.Dataset, req TestRequest) (stats.Frequencies, error) {
	table, err := analysis.BuildContingencyTable(ds, req.Var1, req.Var2)
	if err != nil {
		return stats.Frequencies{}, err
	}
	return stats.Frequencies{Table: table}, nil
}

func (t *twoWayTest) Evaluate(freq stats.Frequencies) (stats.TestResult, error) {
	return t.evaluator.Contingency(freq.Table)
}

func (t *twoWayTest) Interpret(result stats.TestResult, alpha float64) stats.Interpretation {
	return stats.Interpret(t.kind, result.PValue, alpha)
}

func (t *twoWayTest) Variables(req TestRequest) (string, string) {
	return req.Var1, req.Var2
}

func (t *twoWayTest) ChartVariables(req TestRequest) []string { return nil }

// independenceTest additionally charts both marginal distributions
type independenceTest struct {
	twoWayTest
}

func newIndependenceTest(e *chisquare.Evaluator) *independenceTest {
	return &independenceTest{twoWayTest{
		kind:       stats.KindIndependence,
		firstRole:  "la primera variable",
		secondRole: "la segunda variable",
		evaluator:  e,
	}}
}

func (t *independenceTest) ChartVariables(req TestRequest) []string {
	return []string{req.Var1, req.Var2}
}

// homogeneityTest compares the distribution of Var1 across the groups of Var2
type homogeneityTest struct {
	twoWayTest
}

func newHomogeneityTest(e *chisquare.Evaluator) *homogeneityTest {
	return &homogeneityTest{twoWayTest{
		kind:       stats.KindHomogeneity,
		firstRole:  "la variable",
		secondRole: "el grupo",
		evaluator:  e,
	}}
}

// Variables names only the variable of interest; the report prints N/A for the group
func (t *homogeneityTest) Variables(req TestRequest) (string, string) {
	return req.Var1, ""
}

// goodnessOfFitTest compares one column's counts with user-supplied expectations
type goodnessOfFitTest struct {
	evaluator *chisquare.Evaluator
}

func newGoodnessOfFitTest(e *chisquare.Evaluator) *goodnessOfFitTest {
	return &goodnessOfFitTest{evaluator: e}
}

func (t *goodnessOfFitTest) Kind() stats.TestKind { return stats.KindGoodnessOfFit }

func (t *goodnessOfFitTest) Validate(ds *dataset.Dataset, req TestRequest) error {
	return requireCategorical(ds, req.Var1, "la variable")
}

func (t *goodnessOfFitTest) BuildFrequencies(ds *dataset.Dataset, req TestRequest) (stats.Frequencies, error) {
	vector, err := analysis.BuildFrequencyVector(ds, req.Var1)
	if err != nil {
		return stats.Frequencies{}, err
	}
	freq := stats.Frequencies{Vector: vector}

	expected, err := analysis.ParseExpectedFrequencies(req.Expected)
	if err != nil {
		return freq, err
	}
	vector.Expected = expected
	return freq, nil
}

func (t *goodnessOfFitTest) Evaluate(freq stats.Frequencies) (stats.TestResult, error) {
	return t.evaluator.GoodnessOfFit(freq.Vector)
}

func (t *goodnessOfFitTest) Interpret(result stats.TestResult, alpha float64) stats.Interpretation {
	return stats.Interpret(stats.KindGoodnessOfFit, result.PValue, alpha)
}

func (t *goodnessOfFitTest) ChartVariables(req TestRequest) []string { return nil }

func (t *goodnessOfFitTest) Variables(req TestRequest) (string, string) {
	return req.Var1, ""
}

func requireCategorical(ds *dataset.Dataset, name, role string) error {
	if name == "" {
		return errors.SelectionError(fmt.Sprintf("Seleccione %s.", role))
	}
	if !dataset.IsCategorical(ds, name) {
		return errors.SelectionError(fmt.Sprintf("La columna %q no es una variable categórica de los datos cargados.", name))
	}
	return nil
}
