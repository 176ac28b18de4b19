package buildsheet

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// saveFixture writes a workbook with a Resources sheet carrying a
// key/value block and a table region.
func saveFixture(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet("Resources"); err != nil {
		t.Fatalf("Failed to add sheet: %v", err)
	}

	// Key/value block.
	f.SetCellValue("Resources", "A1", "Project Name:")
	f.SetCellValue("Resources", "B1", "Phoenix")
	f.SetCellValue("Resources", "A2", "Environment")
	f.SetCellValue("Resources", "B2", "Production")

	// Table region starting at row 4.
	f.SetCellValue("Resources", "A4", "Hostname")
	f.SetCellValue("Resources", "B4", "Size")
	f.SetCellValue("Resources", "C4", "OS")
	f.SetCellValue("Resources", "A5", "phx-01")
	f.SetCellValue("Resources", "B5", "Standard_B2s")
	f.SetCellValue("Resources", "C5", "linux")

	path := filepath.Join(t.TempDir(), "ticket.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save fixture: %v", err)
	}
	return path
}

func TestExtract(t *testing.T) {
	wb, err := Extract(saveFixture(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if wb.BookName != "ticket.xlsx" {
		t.Errorf("Expected book name 'ticket.xlsx', got %q", wb.BookName)
	}

	sheet := wb.Sheet("Resources")
	if v, _ := sheet.KeyValues.Get("Project Name"); v != "Phoenix" {
		t.Errorf("Expected 'Phoenix', got %q", v)
	}
	if len(sheet.Tables) == 0 {
		t.Fatal("Expected at least one detected table")
	}
	if sheet.Tables[0].Rows[0]["Hostname"] != "phx-01" {
		t.Errorf("Expected 'phx-01', got %q", sheet.Tables[0].Rows[0]["Hostname"])
	}

	// Plain xlsx carries no VBA project.
	if wb.Macros.Present {
		t.Error("Expected no macro blob in plain xlsx")
	}
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.xlsx"), DefaultOptions())
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestExtractMacroScanDisabled(t *testing.T) {
	off := false
	wb, err := Extract(saveFixture(t), Options{ScanMacros: &off})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if wb.Macros.Present || wb.Macros.SizeBytes != 0 {
		t.Errorf("Expected zero macro descriptor when scan disabled, got %+v", wb.Macros)
	}
}
