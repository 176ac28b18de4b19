package terraform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestWriteBundle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	bundle := Bundle{
		"main.tf":             "# main\n",
		"scripts/validate.sh": "#!/usr/bin/env bash\n",
	}

	if err := WriteBundle(dir, bundle); err != nil {
		t.Fatalf("WriteBundle failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "main.tf"))
	if err != nil {
		t.Fatalf("Failed to read artifact: %v", err)
	}
	if string(raw) != "# main\n" {
		t.Errorf("Unexpected content: %q", raw)
	}

	info, err := os.Stat(filepath.Join(dir, "scripts", "validate.sh"))
	if err != nil {
		t.Fatalf("Script not written: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o100 == 0 {
		t.Errorf("Expected executable script, mode %v", info.Mode())
	}
}

func TestWriteBundleBadDir(t *testing.T) {
	// A file where the output directory should be.
	base := t.TempDir()
	blocker := filepath.Join(base, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create blocker: %v", err)
	}

	if err := WriteBundle(blocker, Bundle{"a.tf": ""}); err == nil {
		t.Error("Expected error when output path is a file")
	}
}
