// Package parser provides structure inference over raw sheet grids.
package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/models"
)

// ExtractGrid reads one sheet into a Grid. Cell text is trimmed; absent
// cells read as empty strings.
func ExtractGrid(f *excelize.File, sheetName string) (models.Grid, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	grid := make(models.Grid, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		grid[i] = cells
	}
	return grid, nil
}
