// Package testkit provides dataset fixtures for tests.
package testkit

import (
	"bytes"
	"encoding/csv"
	"time"

	"chicuadrado/adapters/datareadiness/coercer"
	"chicuadrado/domain/core"
	"chicuadrado/domain/dataset"
)

// FromRows builds a dataset the way an upload would, inferring each
// column's kind and missing cells from the raw text.
func FromRows(name string, headers []string, rows [][]string) *dataset.Dataset {
	c := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())

	columns := make([]*dataset.Column, len(headers))
	for j, h := range headers {
		raw := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				raw[i] = row[j]
			}
		}
		kind, missing := c.InferKind(raw)
		for i := range raw {
			if missing[i] {
				raw[i] = ""
			}
		}
		columns[j] = &dataset.Column{Name: h, Kind: kind, Values: raw, Missing: missing}
	}

	return &dataset.Dataset{
		ID:       core.DatasetID(core.NewID()),
		Name:     name,
		Format:   dataset.FormatCSV,
		Columns:  columns,
		RowCount: len(rows),
		LoadedAt: time.Now(),
	}
}

// CSV renders headers and rows as comma separated text
func CSV(headers []string, rows [][]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(headers)
	_ = w.WriteAll(rows)
	return buf.Bytes()
}

// Repeat returns row n times; handy for building exact contingency tables
func Repeat(n int, row ...string) [][]string {
	out := make([][]string, n)
	for i := range out {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Concat joins row blocks
func Concat(blocks ...[][]string) [][]string {
	var out [][]string
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}
