package buildsheet

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidWorkbook indicates the input file could not be opened as a
// spreadsheet workbook.
var ErrInvalidWorkbook = errors.New("invalid workbook")

// SheetError represents a per-sheet extraction failure. It is recorded on
// the sheet's model and does not abort processing of other sheets.
type SheetError struct {
	SheetName string
	Component string // "cells", "tables", "key_values"
	Err       error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// NewSheetError creates a new SheetError.
func NewSheetError(sheetName, component string, err error) *SheetError {
	return &SheetError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
