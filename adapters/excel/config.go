package excel

import (
	"chicuadrado/adapters/datareadiness/coercer"
)

// ExcelConfig holds configuration for reading uploaded files
type ExcelConfig struct {
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
	// SheetIndex selects the worksheet read from a workbook; 0 is the first sheet
	SheetIndex int `json:"sheet_index"`
}

// DefaultExcelConfig returns sensible defaults for upload processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
		SheetIndex:     0,
	}
}
