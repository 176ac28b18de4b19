// Package main provides the CLI entry point for buildticket.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet"
	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/query"
	"github.com/42shotfirst/Build-Ticket-Automation/pkg/pipeline"
	"github.com/42shotfirst/Build-Ticket-Automation/pkg/synth"
)

var (
	configPath   string
	inputDir     string
	outputDir    string
	renderMode   string
	machineCount int
	logLevel     string
	logFormat    string
	noBackup     bool
	pretty       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "buildticket",
		Short: "Convert build-request workbooks into infrastructure bundles",
		Long: `buildticket reads infrastructure build-request workbooks (Excel),
extracts their tables and key/value blocks, and renders a Terraform
configuration bundle per workbook.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file path")
	rootCmd.PersistentFlags().StringVar(&renderMode, "mode", "", "Render mode: flat, modular")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Output directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json, console")
	rootCmd.PersistentFlags().BoolVar(&noBackup, "no-backup", false, "Overwrite existing output instead of backing it up")

	convertCmd := &cobra.Command{
		Use:   "convert [workbook.xlsx]",
		Short: "Convert a single workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}
	convertCmd.Flags().IntVar(&machineCount, "machines", 0, "Fallback machine count when no machine table is found")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Convert every workbook in the input directory and write a run report",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVarP(&inputDir, "input", "i", "", "Input directory of workbooks")
	generateCmd.Flags().IntVar(&machineCount, "machines", 0, "Fallback machine count when no machine table is found")

	inspectCmd := &cobra.Command{
		Use:   "inspect [workbook.xlsx]",
		Short: "Extract a workbook and print the synthesized records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(convertCmd, generateCmd, inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers CLI flags over the YAML config (or the defaults when
// no config file is given).
func loadConfig() (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if configPath != "" {
		loaded, err := pipeline.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if inputDir != "" {
		cfg.InputDir = inputDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if renderMode != "" {
		cfg.RenderMode = renderMode
	}
	if machineCount > 0 {
		cfg.DefaultMachineCount = machineCount
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if noBackup {
		cfg.BackupExisting = false
	}
	return cfg, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	cfg.InputDir = "." // unused for single-file conversion
	if err := cfg.Validate(); err != nil {
		return err
	}

	p := pipeline.New(cfg, pipeline.NewLogger(cfg.Logging))
	res, err := p.Convert(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d artifacts to %s\n", res.Summary.Counts.Artifacts, res.OutputDir)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	p := pipeline.New(cfg, pipeline.NewLogger(cfg.Logging))
	report, err := p.Run()
	if err != nil {
		return err
	}

	reportPath, err := report.Write(cfg.OutputDir)
	if err != nil {
		return err
	}
	fmt.Printf("converted %d workbook(s), %d failed; report: %s\n",
		report.Succeeded, report.Failed, reportPath)

	if report.Failed > 0 {
		return fmt.Errorf("%d workbook(s) failed", report.Failed)
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := pipeline.NewLogger(cfg.Logging)

	wb, err := buildsheet.Extract(args[0], buildsheet.Options{
		HeaderScanRows: cfg.HeaderScanRows,
	})
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	synthCfg := synth.DefaultConfig()
	if cfg.DefaultMachineCount > 0 {
		synthCfg.DefaultMachineCount = cfg.DefaultMachineCount
	}
	data := synth.New(query.NewAccessor(wb), synthCfg, log).Synthesize()

	var raw []byte
	if pretty {
		raw, err = json.MarshalIndent(data, "", "  ")
	} else {
		raw, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Println(string(raw))
	return nil
}
