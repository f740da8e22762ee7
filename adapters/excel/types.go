package excel

// RawTable is a sheet or CSV file as header names plus raw cell rows.
// Every row has exactly len(Headers) cells.
type RawTable struct {
	Headers []string
	Rows    [][]string
}
