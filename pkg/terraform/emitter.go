// Package terraform renders synthesized build records into a bundle of
// declarative configuration artifacts against a fixed output schema.
package terraform

import (
	"fmt"
	"sort"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/synth"
)

// Mode selects the rendering strategy.
type Mode string

const (
	// ModeFlat emits a monolithic resource file per concern.
	ModeFlat Mode = "flat"
	// ModeModular emits a delegating module-call file plus per-concern
	// resource files matching the external base-vm module contract.
	ModeModular Mode = "modular"
)

// Bundle maps relative artifact paths to rendered text. It is immutable
// once returned from Render.
type Bundle map[string]string

// Paths returns the artifact paths in sorted order.
func (b Bundle) Paths() []string {
	paths := make([]string, 0, len(b))
	for p := range b {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Counts summarizes what a bundle describes.
type Counts struct {
	Machines  int `json:"machines"`
	Rules     int `json:"rules"`
	Artifacts int `json:"artifacts"`
}

// Summary is the machine-readable record returned alongside a bundle.
type Summary struct {
	ProjectName     string `json:"project_name"`
	ApplicationName string `json:"application_name"`
	Mode            Mode   `json:"mode"`
	Counts          Counts `json:"counts"`
}

// Emitter renders build records into an artifact bundle. Both strategies
// guarantee the core artifact set: a resource definition file, a variable
// declaration file, a values file, and an output declaration file — and
// every declared variable is covered by a default or a value.
type Emitter interface {
	Render(data *synth.BuildData) (Bundle, Summary, error)
}

// New returns the emitter for a mode.
func New(mode Mode) (Emitter, error) {
	switch mode {
	case ModeFlat:
		return &flatEmitter{}, nil
	case ModeModular:
		return &modularEmitter{}, nil
	default:
		return nil, fmt.Errorf("unknown render mode %q", mode)
	}
}

func summarize(data *synth.BuildData, mode Mode, bundle Bundle) Summary {
	return Summary{
		ProjectName:     withDefault(data.Project.ProjectName, "default-project"),
		ApplicationName: withDefault(data.Project.ApplicationName, "default-app"),
		Mode:            mode,
		Counts: Counts{
			Machines:  len(data.Machines),
			Rules:     len(data.Rules),
			Artifacts: len(bundle),
		},
	}
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
