// Package analysis builds the frequency tables the chi-squared tests run on.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"chicuadrado/domain/dataset"
	"chicuadrado/domain/stats"
	"chicuadrado/internal/errors"
)

// CategoryCount is one slice of a marginal distribution
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BuildContingencyTable cross-tabulates rowVar against colVar.
// Rows missing either value are dropped; labels are sorted ascending.
func BuildContingencyTable(ds *dataset.Dataset, rowVar, colVar string) (*stats.ContingencyTable, error) {
	rowCol, err := lookup(ds, rowVar)
	if err != nil {
		return nil, err
	}
	colCol, err := lookup(ds, colVar)
	if err != nil {
		return nil, err
	}

	type cell struct{ r, c string }
	counts := make(map[cell]int)
	rowSeen := make(map[string]struct{})
	colSeen := make(map[string]struct{})

	for i := 0; i < ds.RowCount; i++ {
		r, okR := rowCol.Value(i)
		c, okC := colCol.Value(i)
		if !okR || !okC {
			continue
		}
		counts[cell{r, c}]++
		rowSeen[r] = struct{}{}
		colSeen[c] = struct{}{}
	}

	table := &stats.ContingencyTable{
		RowVariable: rowVar,
		ColVariable: colVar,
		RowLabels:   sortedKeys(rowSeen),
		ColLabels:   sortedKeys(colSeen),
	}
	table.Counts = make([][]int, len(table.RowLabels))
	for i, r := range table.RowLabels {
		table.Counts[i] = make([]int, len(table.ColLabels))
		for j, c := range table.ColLabels {
			table.Counts[i][j] = counts[cell{r, c}]
		}
	}
	return table, nil
}

// BuildFrequencyVector counts the values of variable, sorted by label.
// Missing values are not counted. Expected is left for the caller to fill.
func BuildFrequencyVector(ds *dataset.Dataset, variable string) (*stats.FrequencyVector, error) {
	counts, err := CategoryCounts(ds, variable)
	if err != nil {
		return nil, err
	}
	vector := &stats.FrequencyVector{
		Variable:   variable,
		Categories: make([]string, len(counts)),
		Observed:   make([]int, len(counts)),
	}
	for i, c := range counts {
		vector.Categories[i] = c.Label
		vector.Observed[i] = c.Count
	}
	return vector, nil
}

// CategoryCounts returns the label/count pairs of variable in label order
func CategoryCounts(ds *dataset.Dataset, variable string) ([]CategoryCount, error) {
	col, err := lookup(ds, variable)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for i := 0; i < col.Len(); i++ {
		if v, ok := col.Value(i); ok {
			counts[v]++
		}
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]CategoryCount, len(labels))
	for i, label := range labels {
		out[i] = CategoryCount{Label: label, Count: counts[label]}
	}
	return out, nil
}

// ParseExpectedFrequencies reads a comma separated list of non-negative numbers
func ParseExpectedFrequencies(text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.InputFormatError("Ingrese las frecuencias esperadas separadas por comas.")
	}

	parts := strings.Split(text, ",")
	values := make([]float64, len(parts))
	for i, part := range parts {
		s := strings.TrimSpace(part)
		if s == "" {
			return nil, errors.InputFormatError(
				fmt.Sprintf("Error en el formato de las frecuencias esperadas: el valor %d está vacío.", i+1))
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.InputFormatError(
				fmt.Sprintf("Error en el formato de las frecuencias esperadas: %q no es un número.", s))
		}
		if v < 0 {
			return nil, errors.InputFormatError(
				fmt.Sprintf("Error en el formato de las frecuencias esperadas: %q es negativo.", s))
		}
		values[i] = v
	}
	return values, nil
}

func lookup(ds *dataset.Dataset, name string) (*dataset.Column, error) {
	if ds == nil {
		return nil, errors.SelectionError("Primero cargue un archivo de datos.")
	}
	col, ok := ds.Column(name)
	if !ok {
		return nil, errors.SelectionError(fmt.Sprintf("La columna %q no existe en los datos cargados.", name))
	}
	return col, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
