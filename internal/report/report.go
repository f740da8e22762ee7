// Package report assembles the downloadable plain-text test report.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"chicuadrado/domain/stats"
)

const (
	// FileName is the attachment name offered to the browser
	FileName = "reporte_chi_cuadrado.txt"
	// ContentType is served with the download
	ContentType = "text/plain; charset=utf-8"

	notApplicable = "N/A"
)

// Data is everything the report interpolates
type Data struct {
	Kind           stats.TestKind
	Var1           string
	Var2           string // empty prints N/A
	Result         stats.TestResult
	Alpha          float64
	Interpretation string
}

// Build renders the report text
func Build(d Data) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Resultados de la Prueba Chi-Cuadrado (%s)\n", d.Kind.Label())
	fmt.Fprintf(&b, "Variables analizadas: %s y %s\n", d.Var1, orNA(d.Var2))
	fmt.Fprintf(&b, "Chi-cuadrado: %.4f\n", d.Result.Statistic)
	fmt.Fprintf(&b, "p-valor: %.4f\n", d.Result.PValue)
	fmt.Fprintf(&b, "Grados de libertad: %s\n", degreesOfFreedom(d.Result))
	fmt.Fprintf(&b, "Nivel de significancia (alpha): %s\n", FormatAlpha(d.Alpha))
	fmt.Fprintf(&b, "Interpretación: %s\n", d.Interpretation)

	return b.String()
}

// FormatAlpha prints alpha in its shortest form: 0.05, 0.1, 1e-05
func FormatAlpha(alpha float64) string {
	return strconv.FormatFloat(alpha, 'g', -1, 64)
}

func degreesOfFreedom(r stats.TestResult) string {
	if r.DegreesOfFreedom == nil {
		return notApplicable
	}
	return strconv.Itoa(*r.DegreesOfFreedom)
}

func orNA(s string) string {
	if s == "" {
		return notApplicable
	}
	return s
}
