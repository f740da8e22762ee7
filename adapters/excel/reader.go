package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"chicuadrado/adapters/datareadiness/coercer"
	"chicuadrado/domain/core"
	"chicuadrado/domain/dataset"
	"chicuadrado/internal"
	"chicuadrado/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader parses CSV and XLSX uploads into a Dataset
type DataReader struct {
	config  ExcelConfig
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ExcelConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
		logger:  logger,
	}
}

// Read parses r according to the format implied by name
func (r *DataReader) Read(name string, src io.Reader) (*dataset.Dataset, error) {
	format, err := dataset.FormatFromFilename(name)
	if err != nil {
		return nil, errors.FileParseError("Formato no soportado: cargue un archivo CSV o Excel (.xlsx).", err)
	}

	r.logger.Debug("[DataReader] Starting to read %s file: %s", format, name)
	start := time.Now()

	var table *RawTable
	switch format {
	case dataset.FormatCSV:
		table, err = r.readCSV(src)
	case dataset.FormatXLSX:
		table, err = r.readExcel(src)
	}
	if err != nil {
		return nil, err
	}

	ds := r.buildDataset(name, format, table)
	r.logger.Info("[DataReader] %s file %s processed in %.2fms (%d columns, %d rows)",
		strings.ToUpper(string(format)), name, float64(time.Since(start).Nanoseconds())/1e6, len(ds.Columns), ds.RowCount)
	return ds, nil
}

// readCSV reads comma separated text. Blank lines are skipped, short rows
// are padded with missing cells, and long rows are a parse error.
func (r *DataReader) readCSV(src io.Reader) (*RawTable, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	// a quote inside an unquoted field is a literal character
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.FileParseError("No se pudo leer el archivo CSV.", err)
	}
	if len(records) == 0 {
		return nil, errors.FileParseError("El archivo está vacío: no hay columnas para leer.", nil)
	}

	headerRow := records[0]
	if len(headerRow) > 0 {
		headerRow[0] = strings.TrimPrefix(headerRow[0], "\ufeff")
	}
	width := len(headerRow)

	rows := make([][]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) > width {
			return nil, errors.FileParseError(
				fmt.Sprintf("Error al leer el CSV: se esperaban %d campos en la línea %d y se encontraron %d.", width, i+2, len(rec)), nil)
		}
		rows = append(rows, padRow(rec, width))
	}

	return &RawTable{Headers: normalizeHeaders(headerRow), Rows: rows}, nil
}

// readExcel reads the configured worksheet of an XLSX workbook.
// The table is as wide as its widest row.
func (r *DataReader) readExcel(src io.Reader) (*RawTable, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, errors.FileParseError("No se pudo abrir el archivo Excel.", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if r.config.SheetIndex < 0 || r.config.SheetIndex >= len(sheets) {
		return nil, errors.FileParseError("El libro de Excel no contiene la hoja solicitada.", nil)
	}
	sheet := sheets[r.config.SheetIndex]

	// raw values: number formats would turn 1234 into "1,234" and dates into text
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.FileParseError(fmt.Sprintf("No se pudo leer la hoja %q.", sheet), err)
	}

	nonEmpty := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !isBlankRow(row) {
			nonEmpty = append(nonEmpty, row)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, errors.FileParseError("La hoja de Excel está vacía: no hay columnas para leer.", nil)
	}

	width := 0
	for _, row := range nonEmpty {
		if len(row) > width {
			width = len(row)
		}
	}

	dataRows := make([][]string, 0, len(nonEmpty)-1)
	for _, row := range nonEmpty[1:] {
		dataRows = append(dataRows, padRow(row, width))
	}
	r.logger.Debug("[DataReader] Sheet %s read (%d rows)", sheet, len(dataRows))

	return &RawTable{Headers: normalizeHeaders(padRow(nonEmpty[0], width)), Rows: dataRows}, nil
}

// buildDataset transposes raw rows into typed columns
func (r *DataReader) buildDataset(name string, format dataset.Format, table *RawTable) *dataset.Dataset {
	columns := make([]*dataset.Column, len(table.Headers))
	for j, header := range table.Headers {
		raw := make([]string, len(table.Rows))
		for i, row := range table.Rows {
			raw[i] = row[j]
		}
		kind, missing := r.coercer.InferKind(raw)
		for i := range raw {
			if missing[i] {
				raw[i] = ""
			}
		}
		columns[j] = &dataset.Column{Name: header, Kind: kind, Values: raw, Missing: missing}
	}

	return &dataset.Dataset{
		ID:       core.DatasetID(core.NewID()),
		Name:     name,
		Format:   format,
		Columns:  columns,
		RowCount: len(table.Rows),
		LoadedAt: time.Now(),
	}
}

// normalizeHeaders keeps names as written, names empty headers "Unnamed: i"
// and renames duplicates to name.1, name.2, ...
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := h
		for n := 1; seen[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", h, n)
		}
		seen[candidate] = true
		headers[i] = candidate
	}
	return headers
}

func padRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
