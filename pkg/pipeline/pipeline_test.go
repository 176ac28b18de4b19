package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"b-ticket.xlsx", "a-ticket.XLSM", "notes.txt", "~$b-ticket.xlsx", "legacy.xls",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to seed input dir: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	cfg := DefaultConfig()
	cfg.InputDir = dir
	p := New(cfg, zerolog.Nop())

	found, err := p.discover()
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a-ticket.XLSM"),
		filepath.Join(dir, "b-ticket.xlsx"),
		filepath.Join(dir, "legacy.xls"),
	}
	if len(found) != len(want) {
		t.Fatalf("Expected %d workbooks, got %d: %v", len(want), len(found), found)
	}
	for i := range want {
		if found[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], found[i])
		}
	}
}

func TestBackupExisting(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "phoenix")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.tf"), []byte("old"), 0o644); err != nil {
		t.Fatalf("Failed to seed dir: %v", err)
	}

	if err := backupExisting(dir); err != nil {
		t.Fatalf("backupExisting failed: %v", err)
	}

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Expected original dir to be moved aside")
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatalf("Failed to list base: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected exactly one backup dir, got %d", len(entries))
	}
}

func TestBackupExistingNoDir(t *testing.T) {
	if err := backupExisting(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("Expected no error for absent dir, got %v", err)
	}
}
