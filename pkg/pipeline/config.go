// Package pipeline orchestrates the end-to-end run: discover workbooks,
// extract each one, synthesize build records, render a bundle, and write
// it under the output directory.
package pipeline

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LoggingConfig controls run logging.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
	Output string `yaml:"output"`
}

// Config is the full run configuration.
type Config struct {
	InputDir  string `yaml:"input_dir" validate:"required"`
	OutputDir string `yaml:"output_dir" validate:"required"`

	// RenderMode selects the artifact layout: flat or modular.
	RenderMode string `yaml:"render_mode" validate:"oneof=flat modular"`

	// DefaultMachineCount is used when a workbook yields no machine
	// table and no usable count hint.
	DefaultMachineCount int `yaml:"default_machine_count" validate:"min=1,max=100"`

	// HeaderScanRows bounds the header search inside each sheet.
	HeaderScanRows int `yaml:"header_scan_rows" validate:"min=1"`

	// ScanMacros toggles the embedded-macro-blob probe.
	ScanMacros bool `yaml:"scan_macros"`

	// BackupExisting moves a pre-existing per-project output directory
	// aside instead of overwriting it.
	BackupExisting bool `yaml:"backup_existing"`

	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns a config with working defaults for every field
// except the directories.
func DefaultConfig() Config {
	return Config{
		RenderMode:          "modular",
		DefaultMachineCount: 2,
		HeaderScanRows:      20,
		ScanMacros:          true,
		BackupExisting:      true,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// LoadConfig reads a YAML config file, layers it over the defaults, and
// validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
