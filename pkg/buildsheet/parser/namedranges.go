package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExtractNamedRanges extracts workbook-level defined names as a map of
// name to formula text. Built-in print-area names are skipped; they
// describe layout, not data.
func ExtractNamedRanges(f *excelize.File) map[string]string {
	result := make(map[string]string)

	for _, dn := range f.GetDefinedName() {
		if strings.HasPrefix(dn.Name, "_xlnm.") {
			continue
		}
		result[dn.Name] = dn.RefersTo
	}

	return result
}
