package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/terraform"
)

// WorkbookResult records one workbook's outcome. Failed workbooks carry
// the error text; successful ones carry the bundle summary and output
// location.
type WorkbookResult struct {
	Workbook  string             `json:"workbook"`
	OutputDir string             `json:"output_dir,omitempty"`
	Summary   *terraform.Summary `json:"summary,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// Report is the machine-readable record of a full run.
type Report struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	RenderMode string           `json:"render_mode"`
	Succeeded  int              `json:"succeeded"`
	Failed     int              `json:"failed"`
	Workbooks  []WorkbookResult `json:"workbooks"`
}

func newReport(mode string) *Report {
	return &Report{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		RenderMode: mode,
	}
}

func (r *Report) add(res WorkbookResult) {
	if res.Error != "" {
		r.Failed++
	} else {
		r.Succeeded++
	}
	r.Workbooks = append(r.Workbooks, res)
}

// Write finalizes the report and writes it as indented JSON under dir.
func (r *Report) Write(dir string) (string, error) {
	r.FinishedAt = time.Now().UTC()

	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("run-report-%s.json", r.RunID))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
