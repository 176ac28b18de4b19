package parser

import (
	"fmt"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/models"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	// HeaderScanRows bounds how far down the grid header candidates are
	// sought.
	HeaderScanRows int
	// MaxTableRows bounds the scan window below a header row; the body
	// takes at most MaxTableRows-1 data rows.
	MaxTableRows int
	// MinHeaderCells is the minimum number of non-empty cells a row needs
	// to qualify as a header candidate.
	MinHeaderCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		HeaderScanRows: 20,
		MaxTableRows:   100,
		MinHeaderCells: 3,
	}
}

// DetectTables finds table-like regions in a grid without any declared
// schema. Every row with at least MinHeaderCells non-empty cells is tried
// as a header; the table body extends until the first fully-empty row.
// Candidates that yield no data rows are discarded. Overlapping tables are
// returned as-is: deduplication would need semantic knowledge the parser
// does not have, so consumers select among duplicates by keyword.
func DetectTables(grid models.Grid, params TableDetectionParams) []models.Table {
	var tables []models.Table

	limit := len(grid)
	if params.HeaderScanRows < limit {
		limit = params.HeaderScanRows
	}

	for rowIdx := 0; rowIdx < limit; rowIdx++ {
		row := grid[rowIdx]

		nonEmpty := 0
		for _, cell := range row {
			if cell != "" {
				nonEmpty++
			}
		}
		if nonEmpty < params.MinHeaderCells {
			continue
		}

		headers := buildHeaders(row)

		var dataRows []map[string]string
		for dataIdx := rowIdx + 1; dataIdx < len(grid) && dataIdx < rowIdx+params.MaxTableRows; dataIdx++ {
			rowData := make(map[string]string)
			for colIdx, header := range headers {
				if v := grid.Cell(dataIdx, colIdx); v != "" {
					rowData[header] = v
				}
			}
			if len(rowData) == 0 {
				break // first empty row ends the table
			}
			dataRows = append(dataRows, rowData)
		}

		if len(dataRows) > 0 && len(headers) >= params.MinHeaderCells {
			tables = append(tables, models.Table{
				HeaderRowIndex: rowIdx,
				Headers:        headers,
				Rows:           dataRows,
			})
		}
	}

	return tables
}

// buildHeaders turns a header row into a header list, synthesizing a
// positional placeholder for each blank cell. Repeated names get a
// positional suffix so row maps never silently collapse columns.
func buildHeaders(row []string) []string {
	headers := make([]string, len(row))
	seen := make(map[string]bool, len(row))
	for i, cell := range row {
		name := cell
		if name == "" {
			name = fmt.Sprintf("Column_%d", i)
		}
		if seen[name] {
			name = fmt.Sprintf("%s_%d", name, i)
		}
		seen[name] = true
		headers[i] = name
	}
	return headers
}
