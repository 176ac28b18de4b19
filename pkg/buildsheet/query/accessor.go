// Package query offers keyword-based, read-only lookup over an extracted
// workbook. Lookups are fuzzy but deterministic: substring matches resolve
// to the first hit in detection order, and absence is a normal outcome
// reported through ok-booleans, never through errors.
package query

import (
	"strings"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/models"
	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/parser"
)

// RefPrefix marks a cell value as a symbolic reference to be resolved
// against another sheet's actual data rather than used literally.
const RefPrefix = "wab:"

// valueColumnIndex maps sheet names to the positional offset (within a
// row's populated cells) of the actual-value column. The convention
// varies per sheet in the source workbooks and is deliberately not
// generalized beyond what those workbooks show.
var valueColumnIndex = map[string]int{
	"Resources": 1,
	"Build_ENV": 2,
}

// Accessor is a read-only query layer over a Workbook. It never mutates
// the model.
type Accessor struct {
	wb *models.Workbook
}

// NewAccessor wraps a workbook model.
func NewAccessor(wb *models.Workbook) *Accessor {
	return &Accessor{wb: wb}
}

// Workbook returns the underlying model.
func (a *Accessor) Workbook() *models.Workbook {
	return a.wb
}

// Tables returns all tables detected on a sheet, in detection order.
func (a *Accessor) Tables(sheet string) []models.Table {
	return a.wb.Sheet(sheet).Tables
}

// TableByIndex returns one table of a sheet by position.
func (a *Accessor) TableByIndex(sheet string, index int) (*models.Table, bool) {
	tables := a.Tables(sheet)
	if index < 0 || index >= len(tables) {
		return nil, false
	}
	return &tables[index], true
}

// TableByKeywords returns the first table whose header list contains any
// keyword as a case-insensitive substring of any header. Detection order
// breaks ties, so duplicate tables resolve to whichever the inference
// produced first.
func (a *Accessor) TableByKeywords(sheet string, keywords []string) (*models.Table, bool) {
	tables := a.Tables(sheet)
	for i := range tables {
		if headersMatch(tables[i].Headers, keywords) {
			return &tables[i], true
		}
	}
	return nil, false
}

// ColumnByKeywords returns the header of the first column in one table
// matching any keyword. The caller fetches values separately.
func (a *Accessor) ColumnByKeywords(sheet string, keywords []string, tableIndex int) (string, bool) {
	table, ok := a.TableByIndex(sheet, tableIndex)
	if !ok {
		return "", false
	}
	for _, header := range table.Headers {
		if anyKeywordIn(header, keywords) {
			return header, true
		}
	}
	return "", false
}

// ColumnData returns all values of a named column in one table.
func (a *Accessor) ColumnData(sheet, column string, tableIndex int) []string {
	table, ok := a.TableByIndex(sheet, tableIndex)
	if !ok {
		return nil
	}
	return table.Column(column)
}

// KeyValue returns the value stored under an exact key on a sheet.
func (a *Accessor) KeyValue(sheet, key string) (string, bool) {
	return a.wb.Sheet(sheet).KeyValues.Get(key)
}

// KeyByKeywords returns the first key/value key matching any keyword,
// in key insertion order.
func (a *Accessor) KeyByKeywords(sheet string, keywords []string) (string, bool) {
	kv := a.wb.Sheet(sheet).KeyValues
	for _, key := range kv.Keys() {
		if anyKeywordIn(key, keywords) {
			return key, true
		}
	}
	return "", false
}

// ValueByKeywords returns the value whose key matches any keyword.
func (a *Accessor) ValueByKeywords(sheet string, keywords []string) (string, bool) {
	key, ok := a.KeyByKeywords(sheet, keywords)
	if !ok {
		return "", false
	}
	return a.KeyValue(sheet, key)
}

// ActualValues aggregates field/value pairs from every table on a sheet
// by positional rule: the field name is the first populated cell of a
// row, the value sits at the sheet's configured positional offset.
// Noise tokens and unresolved references are excluded. Entries keep
// first-seen order; later tables overwrite values for repeated fields.
func (a *Accessor) ActualValues(sheet string) *models.KeyValueMap {
	valueIdx, ok := valueColumnIndex[sheet]
	if !ok {
		valueIdx = 1
	}

	out := models.NewKeyValueMap()
	for _, table := range a.Tables(sheet) {
		for _, row := range table.Rows {
			cells := populatedCells(table.Headers, row)
			if len(cells) < valueIdx+1 {
				continue
			}
			field, value := cells[0], cells[valueIdx]
			if field == "" || value == "" {
				continue
			}
			if parser.IsNoiseToken(field) || parser.IsNoiseToken(value) {
				continue
			}
			if strings.HasPrefix(value, RefPrefix) || strings.HasPrefix(value, "vm_list") {
				continue
			}
			out.Set(field, value)
		}
	}
	return out
}

// ResolveReference resolves a RefPrefix-marked value against a sheet's
// actual values: exact case-insensitive substring match first, then
// token-overlap partial match. An unresolved reference returns the
// original value verbatim; callers must not treat that as an error.
func (a *Accessor) ResolveReference(value, sheet string) string {
	if !strings.HasPrefix(value, RefPrefix) {
		return value
	}

	actual := a.ActualValues(sheet)
	name := strings.ReplaceAll(strings.TrimPrefix(value, RefPrefix), "-", " ")
	nameLower := strings.ToLower(name)

	for _, key := range actual.Keys() {
		if strings.Contains(strings.ToLower(key), nameLower) {
			v, _ := actual.Get(key)
			return v
		}
	}

	words := strings.Fields(nameLower)
	for _, key := range actual.Keys() {
		keyLower := strings.ToLower(key)
		for _, word := range words {
			if strings.Contains(keyLower, word) {
				v, _ := actual.Get(key)
				return v
			}
		}
	}

	return value
}

// populatedCells returns a row's non-empty values in header (column)
// order, which is how positional field/value extraction addresses them.
func populatedCells(headers []string, row map[string]string) []string {
	var cells []string
	for _, header := range headers {
		if v, ok := row[header]; ok && v != "" {
			cells = append(cells, v)
		}
	}
	return cells
}

func anyKeywordIn(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func headersMatch(headers, keywords []string) bool {
	for _, header := range headers {
		if anyKeywordIn(header, keywords) {
			return true
		}
	}
	return false
}
