package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
input_dir: ./tickets
output_dir: ./out
render_mode: flat
default_machine_count: 4
logging:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.InputDir != "./tickets" {
		t.Errorf("Expected input_dir './tickets', got %q", cfg.InputDir)
	}
	if cfg.RenderMode != "flat" {
		t.Errorf("Expected render_mode 'flat', got %q", cfg.RenderMode)
	}
	if cfg.DefaultMachineCount != 4 {
		t.Errorf("Expected machine count 4, got %d", cfg.DefaultMachineCount)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging config not loaded: %+v", cfg.Logging)
	}
	// Unset fields keep their defaults.
	if cfg.HeaderScanRows != 20 {
		t.Errorf("Expected default header scan rows 20, got %d", cfg.HeaderScanRows)
	}
}

func TestLoadConfigInvalidMode(t *testing.T) {
	path := writeConfig(t, `
input_dir: ./tickets
output_dir: ./out
render_mode: yaml
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected validation error for unknown render mode")
	}
}

func TestLoadConfigMissingDirs(t *testing.T) {
	path := writeConfig(t, `render_mode: modular`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected validation error for missing directories")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing config file")
	}
}

func TestValidateMachineCountBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InputDir = "in"
	cfg.OutputDir = "out"
	cfg.DefaultMachineCount = 0

	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for zero machine count")
	}
}
