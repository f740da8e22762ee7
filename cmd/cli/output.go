package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"chicuadrado/app"
	"chicuadrado/domain/dataset"
	"chicuadrado/domain/stats"
	"chicuadrado/internal/profiling"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// columnRow is one column in the json/yaml listing
type columnRow struct {
	profiling.ColumnSummary `yaml:",inline"`
	Categorical             bool `json:"categorical" yaml:"categorical"`
}

func writeColumns(w io.Writer, format string, ds *dataset.Dataset, summaries []profiling.ColumnSummary) error {
	rows := make([]columnRow, len(summaries))
	for i, s := range summaries {
		rows[i] = columnRow{ColumnSummary: s, Categorical: dataset.IsCategorical(ds, s.Name)}
	}

	switch format {
	case "json":
		return writeJSON(w, rows)
	case "yaml":
		return writeYAML(w, rows)
	}

	color.New(color.FgCyan).Fprintf(w, "%s: %d filas, %d columnas\n", ds.Name, ds.RowCount, len(ds.Columns))
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Columna", "Tipo", "Valores", "Faltantes", "Distintos", "Categórica"})
	for _, r := range rows {
		categorical := "no"
		if r.Categorical {
			categorical = "sí"
		}
		table.Append([]string{
			r.Name,
			string(r.Kind),
			strconv.Itoa(r.Count),
			strconv.Itoa(r.Missing),
			strconv.Itoa(r.Distinct),
			categorical,
		})
	}
	table.Render()
	return nil
}

// outcomeDoc is the json/yaml shape of a finished test
type outcomeDoc struct {
	app.Outcome `yaml:",inline"`
	Report      string `json:"report" yaml:"report"`
}

func writeOutcome(w io.Writer, format string, o *app.Outcome, reportText string) error {
	switch format {
	case "json":
		return writeJSON(w, outcomeDoc{Outcome: *o, Report: reportText})
	case "yaml":
		return writeYAML(w, outcomeDoc{Outcome: *o, Report: reportText})
	}

	color.New(color.FgCyan).Fprintf(w, "Prueba de %s\n", o.Kind.Label())
	if t := o.Frequencies.Table; t != nil {
		writeContingency(w, t)
	}
	if v := o.Frequencies.Vector; v != nil {
		writeVector(w, v)
	}

	fmt.Fprintf(w, "Chi-cuadrado: %.4f\n", o.Result.Statistic)
	fmt.Fprintf(w, "p-valor: %.4f\n", o.Result.PValue)
	if o.Result.DegreesOfFreedom != nil {
		fmt.Fprintf(w, "Grados de libertad: %d\n", *o.Result.DegreesOfFreedom)
	}
	verdict := color.New(color.FgGreen)
	if o.Interpretation.Reject {
		verdict = color.New(color.FgRed, color.Bold)
	}
	verdict.Fprintln(w, o.Interpretation.Text)
	return nil
}

func writeContingency(w io.Writer, t *stats.ContingencyTable) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{t.RowVariable + " \\ " + t.ColVariable}, t.ColLabels...))
	for i, label := range t.RowLabels {
		row := []string{label}
		for _, c := range t.Counts[i] {
			row = append(row, strconv.Itoa(c))
		}
		table.Append(row)
	}
	table.Render()
}

func writeVector(w io.Writer, v *stats.FrequencyVector) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{v.Variable, "Observadas", "Esperadas"})
	for i, label := range v.Categories {
		expected := ""
		if i < len(v.Expected) {
			expected = strconv.FormatFloat(v.Expected[i], 'f', -1, 64)
		}
		table.Append([]string{label, strconv.Itoa(v.Observed[i]), expected})
	}
	table.Render()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
