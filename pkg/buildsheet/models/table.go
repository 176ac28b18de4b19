package models

// Table is an inferred header-plus-rows structure within a Grid.
// Headers are unique within the table; blank header cells are synthesized
// as positional placeholders. Rows map header name to cell text and only
// carry non-empty cells.
type Table struct {
	// HeaderRowIndex is the 0-based grid row the headers were read from.
	HeaderRowIndex int `json:"header_row_index"`
	// Headers in column order.
	Headers []string `json:"headers"`
	// Rows in detection order.
	Rows []map[string]string `json:"data"`
}

// Column returns the values of one column across all rows, skipping rows
// where the column is absent.
func (t *Table) Column(header string) []string {
	var out []string
	for _, row := range t.Rows {
		if v, ok := row[header]; ok {
			out = append(out, v)
		}
	}
	return out
}

// HasHeader reports whether the table carries the exact header name.
func (t *Table) HasHeader(header string) bool {
	for _, h := range t.Headers {
		if h == header {
			return true
		}
	}
	return false
}
