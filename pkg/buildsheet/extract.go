package buildsheet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/models"
	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/parser"
)

// Extract builds a Workbook model from a spreadsheet file. Every sheet is
// read into a grid and run through structure inference; a sheet that fails
// to read yields an empty result with an error marker and never aborts the
// others. Only a workbook that cannot be opened at all is fatal.
func Extract(path string, opts Options) (*models.Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidWorkbook, path, err)
	}
	defer f.Close()

	wb := &models.Workbook{
		BookName: filepath.Base(path),
		Sheets:   make(map[string]*models.SheetData),
	}

	for _, sheetName := range f.GetSheetList() {
		wb.SheetOrder = append(wb.SheetOrder, sheetName)

		grid, err := parser.ExtractGrid(f, sheetName)
		if err != nil {
			wb.Sheets[sheetName] = &models.SheetData{
				KeyValues: models.NewKeyValueMap(),
				Err:       NewSheetError(sheetName, "cells", err).Error(),
			}
			continue
		}

		wb.Sheets[sheetName] = &models.SheetData{
			Grid:       grid,
			Dimensions: grid.Dims(),
			Tables:     parser.DetectTables(grid, opts.tableParams()),
			KeyValues:  parser.ExtractKeyValues(grid),
		}
	}

	wb.NamedRanges = parser.ExtractNamedRanges(f)

	if opts.ShouldScanMacros() {
		// Macro presence needs direct container access, so the file is
		// reopened as a zip. Failure here is not fatal: the descriptor
		// just stays empty.
		if blob, err := parser.ExtractMacroBlob(path); err == nil {
			wb.Macros = blob
		}
	}

	return wb, nil
}
