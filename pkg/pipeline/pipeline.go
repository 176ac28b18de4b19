package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet"
	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/query"
	"github.com/42shotfirst/Build-Ticket-Automation/pkg/synth"
	"github.com/42shotfirst/Build-Ticket-Automation/pkg/terraform"
)

// workbookExtensions are the file types a run will pick up.
var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
}

// Pipeline runs the full conversion for a directory of workbooks.
type Pipeline struct {
	cfg Config
	log zerolog.Logger
}

// New builds a pipeline from a validated config.
func New(cfg Config, log zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log}
}

// Run discovers workbooks under the input directory and converts each
// one independently. A workbook failure is recorded in the report and
// does not stop the run; Run returns an error only when the run itself
// cannot proceed.
func (p *Pipeline) Run() (*Report, error) {
	workbooks, err := p.discover()
	if err != nil {
		return nil, err
	}
	if len(workbooks) == 0 {
		return nil, fmt.Errorf("no workbooks found under %s", p.cfg.InputDir)
	}

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", p.cfg.OutputDir, err)
	}

	report := newReport(p.cfg.RenderMode)
	for _, wb := range workbooks {
		report.add(p.convertOne(wb))
	}

	p.log.Info().
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Str("run_id", report.RunID).
		Msg("run complete")

	return report, nil
}

// Convert processes a single workbook path and writes its bundle. It is
// the one-file entry point the CLI convert command uses.
func (p *Pipeline) Convert(path string) (WorkbookResult, error) {
	res := p.convertOne(path)
	if res.Error != "" {
		return res, fmt.Errorf("convert %s: %s", path, res.Error)
	}
	return res, nil
}

func (p *Pipeline) discover() ([]string, error) {
	entries, err := os.ReadDir(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("read input dir %s: %w", p.cfg.InputDir, err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		// Office lock files start with ~$.
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if workbookExtensions[strings.ToLower(filepath.Ext(name))] {
			out = append(out, filepath.Join(p.cfg.InputDir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}

func (p *Pipeline) convertOne(path string) WorkbookResult {
	res := WorkbookResult{Workbook: filepath.Base(path)}
	log := p.log.With().Str("workbook", res.Workbook).Logger()

	scan := p.cfg.ScanMacros
	wb, err := buildsheet.Extract(path, buildsheet.Options{
		HeaderScanRows: p.cfg.HeaderScanRows,
		ScanMacros:     &scan,
	})
	if err != nil {
		log.Error().Err(err).Msg("extraction failed")
		res.Error = err.Error()
		return res
	}

	for name, sheet := range wb.Sheets {
		if sheet.Err != "" {
			log.Warn().Str("sheet", name).Str("cause", sheet.Err).Msg("sheet skipped")
		}
	}

	synthCfg := synth.DefaultConfig()
	synthCfg.DefaultMachineCount = p.cfg.DefaultMachineCount
	synthLog := log.With().Str("component", "synth").Logger()
	data := synth.New(query.NewAccessor(wb), synthCfg, synthLog).Synthesize()

	emitter, err := terraform.New(terraform.Mode(p.cfg.RenderMode))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	bundle, summary, err := emitter.Render(data)
	if err != nil {
		log.Error().Err(err).Msg("render failed")
		res.Error = err.Error()
		return res
	}

	dir := filepath.Join(p.cfg.OutputDir, terraform.Sanitize(summary.ProjectName))
	if p.cfg.BackupExisting {
		if err := backupExisting(dir); err != nil {
			res.Error = err.Error()
			return res
		}
	}
	if err := terraform.WriteBundle(dir, bundle); err != nil {
		log.Error().Err(err).Msg("write failed")
		res.Error = err.Error()
		return res
	}

	log.Info().
		Int("machines", summary.Counts.Machines).
		Int("rules", summary.Counts.Rules).
		Int("artifacts", summary.Counts.Artifacts).
		Str("dir", dir).
		Msg("bundle written")

	res.OutputDir = dir
	res.Summary = &summary
	return res
}

// backupExisting moves an existing output directory aside with a
// timestamped suffix so reruns never silently overwrite prior output.
func backupExisting(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	backup := fmt.Sprintf("%s.bak-%s", dir, time.Now().UTC().Format("20060102T150405"))
	if err := os.Rename(dir, backup); err != nil {
		return fmt.Errorf("backup %s: %w", dir, err)
	}
	return nil
}
