package report

import (
	"strings"
	"testing"

	"chicuadrado/domain/stats"

	"github.com/stretchr/testify/assert"
)

func TestBuild_Independence(t *testing.T) {
	dof := 1
	text := Build(Data{
		Kind:           stats.KindIndependence,
		Var1:           "Sexo",
		Var2:           "Aprobado",
		Result:         stats.TestResult{Statistic: 4.1234, PValue: 0.0423, DegreesOfFreedom: &dof},
		Alpha:          0.05,
		Interpretation: "Hay una relación significativa entre las variables.",
	})

	want := strings.Join([]string{
		"Resultados de la Prueba Chi-Cuadrado (Independencia)",
		"Variables analizadas: Sexo y Aprobado",
		"Chi-cuadrado: 4.1234",
		"p-valor: 0.0423",
		"Grados de libertad: 1",
		"Nivel de significancia (alpha): 0.05",
		"Interpretación: Hay una relación significativa entre las variables.",
	}, "\n") + "\n"
	assert.Equal(t, want, text)
}

func TestBuild_GoodnessOfFitPrintsNA(t *testing.T) {
	text := Build(Data{
		Kind:           stats.KindGoodnessOfFit,
		Var1:           "Color",
		Result:         stats.TestResult{Statistic: 10, PValue: 0.00156540},
		Alpha:          0.1,
		Interpretation: "x",
	})

	assert.Contains(t, text, "Resultados de la Prueba Chi-Cuadrado (Bondad de Ajuste)\n")
	assert.Contains(t, text, "Variables analizadas: Color y N/A\n")
	assert.Contains(t, text, "Chi-cuadrado: 10.0000\n")
	assert.Contains(t, text, "p-valor: 0.0016\n")
	assert.Contains(t, text, "Grados de libertad: N/A\n")
	assert.Contains(t, text, "Nivel de significancia (alpha): 0.1\n")
}

func TestFormatAlpha(t *testing.T) {
	assert.Equal(t, "0.05", FormatAlpha(0.05))
	assert.Equal(t, "0.01", FormatAlpha(0.01))
	assert.Equal(t, "0.125", FormatAlpha(0.125))
	assert.Equal(t, "1e-05", FormatAlpha(0.00001))
}
