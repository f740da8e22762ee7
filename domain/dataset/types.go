package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"chicuadrado/domain/core"
)

// Format is the declared format of an uploaded file
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromFilename infers the format from the file extension
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q", filepath.Ext(name))
	}
}

// ColumnKind is the inferred type of a column
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindBoolean     ColumnKind = "boolean"
	KindCategorical ColumnKind = "categorical"
)

// Column holds one column of raw cell text. Missing[i] marks cells that
// parsed as a missing-value token; Values[i] is then empty.
type Column struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	Values  []string   `json:"-"`
	Missing []bool     `json:"-"`
}

// Len returns the number of cells in the column
func (c *Column) Len() int {
	return len(c.Values)
}

// Value returns the cell at row i and whether it holds a value
func (c *Column) Value(i int) (string, bool) {
	if i < 0 || i >= len(c.Values) || c.Missing[i] {
		return "", false
	}
	return c.Values[i], true
}

// Dataset is an uploaded table held for the duration of one session.
// It is never mutated after loading.
type Dataset struct {
	ID       core.DatasetID `json:"id"`
	Name     string         `json:"name"`
	Format   Format         `json:"format"`
	Columns  []*Column      `json:"columns"`
	RowCount int            `json:"row_count"`
	LoadedAt time.Time      `json:"loaded_at"`
}

// Headers returns the column names in file order
func (d *Dataset) Headers() []string {
	headers := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		headers[i] = col.Name
	}
	return headers
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (*Column, bool) {
	for _, col := range d.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return nil, false
}

// MissingLabel is how a missing cell is shown in previews
const MissingLabel = "NaN"

// Head returns up to n rows as display strings
func (d *Dataset) Head(n int) [][]string {
	if n > d.RowCount {
		n = d.RowCount
	}
	if n < 0 {
		n = 0
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(d.Columns))
		for j, col := range d.Columns {
			if v, ok := col.Value(i); ok {
				row[j] = v
			} else {
				row[j] = MissingLabel
			}
		}
		rows[i] = row
	}
	return rows
}
