package stats

// conclusions holds the (reject, fail to reject) sentences per kind
var conclusions = map[TestKind][2]string{
	KindIndependence: {
		"Rechazamos la hipótesis nula. Existe una relación significativa entre las variables.",
		"No podemos rechazar la hipótesis nula. No existe evidencia suficiente para afirmar una relación significativa entre las variables.",
	},
	KindGoodnessOfFit: {
		"Rechazamos la hipótesis nula. La distribución observada difiere significativamente de la esperada.",
		"No podemos rechazar la hipótesis nula. No existe evidencia suficiente para afirmar que la distribución observada difiere de la esperada.",
	},
	KindHomogeneity: {
		"Rechazamos la hipótesis nula. Las distribuciones en los grupos no son homogéneas.",
		"No podemos rechazar la hipótesis nula. No existe evidencia suficiente para afirmar que las distribuciones en los grupos son diferentes.",
	},
}

// Interpret compares pValue against alpha. The null hypothesis is rejected
// only when pValue < alpha; equality fails to reject.
func Interpret(kind TestKind, pValue, alpha float64) Interpretation {
	texts, ok := conclusions[kind]
	if !ok {
		texts = conclusions[KindIndependence]
	}
	if pValue < alpha {
		return Interpretation{Reject: true, Text: texts[0]}
	}
	return Interpretation{Reject: false, Text: texts[1]}
}
