package models

// SheetData holds everything inferred from a single sheet.
type SheetData struct {
	// Grid is the raw cell view the inference ran over.
	Grid Grid `json:"-"`
	// Dimensions of the grid.
	Dimensions Dimensions `json:"dimensions"`
	// Tables detected on the sheet, in detection order. Overlapping or
	// redundant tables are kept; consumers select by keyword.
	Tables []Table `json:"tables,omitempty"`
	// KeyValues holds label/value pairs read from the first two columns.
	KeyValues *KeyValueMap `json:"key_value_pairs,omitempty"`
	// Err records a sheet-level read failure. A failed sheet carries no
	// tables or key/values but never aborts the workbook.
	Err string `json:"error,omitempty"`
}

// MacroBlob describes an embedded VBA project without decoding it.
type MacroBlob struct {
	Present   bool  `json:"present"`
	SizeBytes int64 `json:"size_bytes,omitempty"`
}

// Workbook aggregates per-sheet inference results with workbook-level
// metadata. It owns its sheets for the lifetime of one pipeline run.
type Workbook struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// SheetOrder lists sheet names in workbook order.
	SheetOrder []string `json:"sheet_order"`
	// Sheets maps sheet name to its inferred data.
	Sheets map[string]*SheetData `json:"sheets"`
	// NamedRanges maps defined-name to its formula text.
	NamedRanges map[string]string `json:"named_ranges,omitempty"`
	// Macros describes the opaque VBA blob, if any.
	Macros MacroBlob `json:"macros"`
}

// Sheet returns the named sheet, or an empty SheetData when absent so
// callers can chain lookups without nil checks.
func (w *Workbook) Sheet(name string) *SheetData {
	if s, ok := w.Sheets[name]; ok {
		return s
	}
	return &SheetData{KeyValues: NewKeyValueMap()}
}
