package chisquare

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// PValue returns the upper tail probability of statistic under a
// chi-squared distribution with dof degrees of freedom
func PValue(statistic, dof float64) float64 {
	if dof <= 0 || math.IsNaN(statistic) {
		return math.NaN()
	}
	if statistic <= 0 {
		return 1.0
	}
	dist := distuv.ChiSquared{K: dof}
	p := dist.Survival(statistic)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
