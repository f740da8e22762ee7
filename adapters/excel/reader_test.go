package excel

import (
	"bytes"
	"strings"
	"testing"

	"chicuadrado/domain/dataset"
	"chicuadrado/internal"
	"chicuadrado/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestReader() *DataReader {
	return NewDataReader(DefaultExcelConfig(), internal.NewNopLogger())
}

func TestReadCSV_InfersKindsAndMissing(t *testing.T) {
	csvText := "Sexo,Edad,Aprobado,Nota\nF,21,Si,7.5\nM,22,No,\nF,,Si,NA\n"

	ds, err := newTestReader().Read("alumnos.csv", strings.NewReader(csvText))
	require.NoError(t, err)

	assert.Equal(t, dataset.FormatCSV, ds.Format)
	assert.Equal(t, 3, ds.RowCount)
	assert.Equal(t, []string{"Sexo", "Edad", "Aprobado", "Nota"}, ds.Headers())
	assert.Equal(t, []string{"Sexo", "Aprobado"}, dataset.CategoricalColumns(ds))

	nota, ok := ds.Column("Nota")
	require.True(t, ok)
	assert.Equal(t, dataset.KindNumeric, nota.Kind)
	assert.Equal(t, []bool{false, true, true}, nota.Missing)
	assert.False(t, ds.ID.String() == "")
}

func TestReadCSV_HeaderNormalization(t *testing.T) {
	csvText := "\ufeffa,,a,a\n1,x,y,z\n"

	ds, err := newTestReader().Read("dupes.csv", strings.NewReader(csvText))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "Unnamed: 1", "a.1", "a.2"}, ds.Headers())
}

func TestReadCSV_KeepsHeaderWhitespace(t *testing.T) {
	ds, err := newTestReader().Read("espacios.csv", strings.NewReader(" Sexo ,Color\nF,Azul\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{" Sexo ", "Color"}, ds.Headers())
}

func TestReadCSV_BareQuoteIsLiteral(t *testing.T) {
	ds, err := newTestReader().Read("nombres.csv", strings.NewReader("Nombre,Sexo\nO\"Brien,M\nAna,F\n"))
	require.NoError(t, err)

	nombre, ok := ds.Column("Nombre")
	require.True(t, ok)
	assert.Equal(t, []string{`O"Brien`, "Ana"}, nombre.Values)
	assert.Equal(t, 2, ds.RowCount)
}

func TestReadCSV_ShortRowsPaddedLongRowsRejected(t *testing.T) {
	ds, err := newTestReader().Read("short.csv", strings.NewReader("a,b\nx\ny,z\n"))
	require.NoError(t, err)
	b, _ := ds.Column("b")
	assert.Equal(t, []bool{true, false}, b.Missing)

	_, err = newTestReader().Read("long.csv", strings.NewReader("a,b\nx,y,z\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeFileParse))
	assert.Contains(t, errors.UserMessage(err), "línea 2")
}

func TestRead_EmptyAndUnsupported(t *testing.T) {
	_, err := newTestReader().Read("vacio.csv", strings.NewReader(""))
	assert.True(t, errors.HasCode(err, errors.CodeFileParse))

	_, err = newTestReader().Read("datos.json", strings.NewReader("{}"))
	assert.True(t, errors.HasCode(err, errors.CodeFileParse))

	_, err = newTestReader().Read("roto.xlsx", strings.NewReader("not a zip"))
	assert.True(t, errors.HasCode(err, errors.CodeFileParse))
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	ds, err := newTestReader().Read("header.csv", strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.RowCount)
	assert.Len(t, ds.Columns, 2)
}

func TestReadExcel_FirstSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Sexo", "Edad", "Aprobado"},
		{"F", 21, "Si"},
		{"M", 30, "No"},
		{},
		{"M", 25},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	_, err := f.NewSheet("Otra")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Otra", "A1", "ignored"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := newTestReader().Read("libro.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, dataset.FormatXLSX, ds.Format)
	assert.Equal(t, 3, ds.RowCount)
	assert.Equal(t, []string{"Sexo", "Edad", "Aprobado"}, ds.Headers())
	assert.Equal(t, []string{"Sexo", "Aprobado"}, dataset.CategoricalColumns(ds))

	aprobado, _ := ds.Column("Aprobado")
	assert.Equal(t, []bool{false, false, true}, aprobado.Missing)
}

func TestReadExcel_FormattedNumbersAndDatesStayNumeric(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	require.NoError(t, err)
	shortDate, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	require.NoError(t, err)

	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Sexo", "Monto", "Fecha", "Tasa"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"F", 1234, 45306, 0.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"M", 5678, 45307, 0.25}))
	require.NoError(t, f.SetCellStyle(sheet, "B2", "B3", thousands))
	require.NoError(t, f.SetCellStyle(sheet, "C2", "C3", shortDate))
	require.NoError(t, f.SetCellStyle(sheet, "D2", "D3", percent))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := newTestReader().Read("montos.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, []string{"Sexo"}, dataset.CategoricalColumns(ds))
	for _, name := range []string{"Monto", "Fecha", "Tasa"} {
		col, ok := ds.Column(name)
		require.True(t, ok)
		assert.Equal(t, dataset.KindNumeric, col.Kind, name)
	}
	monto, _ := ds.Column("Monto")
	assert.Equal(t, []string{"1234", "5678"}, monto.Values)
}
