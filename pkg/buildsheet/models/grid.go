// Package models defines data structures for workbook extraction.
package models

import "strings"

// Grid is the raw 2-D cell-text view of one sheet. Rows may be ragged;
// a cell outside the stored bounds reads as empty.
type Grid [][]string

// Cell returns the trimmed text at (row, col), or "" when absent.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// RowPopulated reports whether any cell in the row has non-empty text.
func (g Grid) RowPopulated(row int) bool {
	if row < 0 || row >= len(g) {
		return false
	}
	for _, cell := range g[row] {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// Dimensions describes the stored extent of a grid.
type Dimensions struct {
	Rows int `json:"rows"`
	Cols int `json:"columns"`
}

// Dims returns the row count and the widest row of the grid.
func (g Grid) Dims() Dimensions {
	d := Dimensions{Rows: len(g)}
	for _, row := range g {
		if len(row) > d.Cols {
			d.Cols = len(row)
		}
	}
	return d
}
