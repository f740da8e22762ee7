// Package chisquare evaluates Pearson's chi-squared statistic for
// contingency tables and goodness-of-fit vectors.
package chisquare

import (
	"fmt"
	"math"
	"strings"

	"chicuadrado/domain/stats"
	"chicuadrado/internal/errors"

	"gonum.org/v1/gonum/floats"
	gstat "gonum.org/v1/gonum/stat"
)

// sumTolerance is the relative difference allowed between observed and
// expected totals in a goodness-of-fit test
const sumTolerance = 1e-8

// Evaluator computes chi-squared results
type Evaluator struct {
	// YatesCorrection applies the continuity correction to tables with one degree of freedom
	YatesCorrection bool
}

// NewEvaluator creates an evaluator
func NewEvaluator(yatesCorrection bool) *Evaluator {
	return &Evaluator{YatesCorrection: yatesCorrection}
}

// Contingency runs the test of independence on table. Expected counts are
// rowTotal*colTotal/N and dof is (r-1)(c-1).
func (e *Evaluator) Contingency(table *stats.ContingencyTable) (stats.TestResult, error) {
	if table == nil || len(table.RowLabels) == 0 || len(table.ColLabels) == 0 || table.Total() == 0 {
		return stats.TestResult{}, errors.StatisticalComputationError(
			"La tabla de contingencia está vacía: no hay filas con valores en ambas variables.")
	}

	n := float64(table.Total())
	rowTotals := table.RowTotals()
	colTotals := table.ColTotals()

	expected := make([][]float64, len(rowTotals))
	for i, rt := range rowTotals {
		expected[i] = make([]float64, len(colTotals))
		for j, ct := range colTotals {
			expected[i][j] = float64(rt) * float64(ct) / n
			if expected[i][j] == 0 {
				return stats.TestResult{}, errors.StatisticalComputationError(fmt.Sprintf(
					"La tabla de frecuencias esperadas tiene un cero en la celda (%s, %s).",
					table.RowLabels[i], table.ColLabels[j]))
			}
		}
	}

	dof := (len(rowTotals) - 1) * (len(colTotals) - 1)
	result := stats.TestResult{DegreesOfFreedom: &dof, Expected: expected}
	if dof == 0 {
		result.Statistic = 0
		result.PValue = 1.0
		return result, nil
	}

	obs := make([]float64, 0, len(rowTotals)*len(colTotals))
	exp := make([]float64, 0, cap(obs))
	for i, row := range table.Counts {
		for j, c := range row {
			obs = append(obs, float64(c))
			exp = append(exp, expected[i][j])
		}
	}

	if dof == 1 && e.YatesCorrection {
		for k := range obs {
			diff := exp[k] - obs[k]
			obs[k] += math.Copysign(math.Min(0.5, math.Abs(diff)), diff)
		}
		result.YatesCorrected = true
	}

	result.Statistic = gstat.ChiSquare(obs, exp)
	result.PValue = PValue(result.Statistic, float64(dof))
	return result, nil
}

// GoodnessOfFit compares vector.Observed against vector.Expected with k-1
// degrees of freedom. The result carries no dof or expected matrix.
func (e *Evaluator) GoodnessOfFit(vector *stats.FrequencyVector) (stats.TestResult, error) {
	if vector == nil {
		return stats.TestResult{}, errors.StatisticalComputationError("No hay frecuencias observadas.")
	}
	if len(vector.Expected) != len(vector.Observed) {
		return stats.TestResult{}, errors.InputFormatError(fmt.Sprintf(
			"Se ingresaron %d frecuencias esperadas, pero %q tiene %d categorías (%s).",
			len(vector.Expected), vector.Variable, len(vector.Observed), strings.Join(vector.Categories, ", ")))
	}
	k := len(vector.Observed)
	if k < 2 {
		return stats.TestResult{}, errors.StatisticalComputationError(
			"La prueba de bondad de ajuste necesita al menos dos categorías.")
	}

	obs := make([]float64, k)
	for i, c := range vector.Observed {
		obs[i] = float64(c)
	}
	exp := vector.Expected
	for i, v := range exp {
		if v == 0 {
			return stats.TestResult{}, errors.StatisticalComputationError(fmt.Sprintf(
				"La frecuencia esperada de la categoría %q es cero.", vector.Categories[i]))
		}
	}

	sumObs, sumExp := floats.Sum(obs), floats.Sum(exp)
	if math.Abs(sumObs-sumExp)/math.Min(sumObs, sumExp) > sumTolerance {
		return stats.TestResult{}, errors.StatisticalComputationError(fmt.Sprintf(
			"La suma de las frecuencias observadas (%g) y la de las esperadas (%g) deben coincidir.",
			sumObs, sumExp))
	}

	statistic := gstat.ChiSquare(obs, exp)
	return stats.TestResult{
		Statistic: statistic,
		PValue:    PValue(statistic, float64(k-1)),
	}, nil
}
