package terraform

import (
	"fmt"
	"strings"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/synth"
)

// Hard constants at the bottom of the default chain. Every rendered field
// resolves explicit value → project-level default → one of these.
const (
	defaultEnvironment = "DEV"
	defaultTicket      = "RITM000000"
	defaultOwner       = "TBD"
	defaultTier        = "Bronze"
	defaultDiskSizeGB  = 30
	defaultDiskType    = "Standard_LRS"
	defaultIPAlloc     = "Dynamic"
	defaultAdminUser   = "cisadmin"

	windowsImageURN = "MicrosoftWindowsServer:WindowsServer:2022-datacenter-g2:latest"
	linuxImageURN   = "Canonical:0001-com-ubuntu-server-jammy:22_04-lts-gen2:latest"
)

// project holds fully-resolved, sanitization-ready project fields.
type project struct {
	Name    string // raw project name
	App     string // raw application name
	Env     string
	Ticket  string
	Owner   string
	Tier    string
	Slug    string // sanitized project name
	AppSlug string // sanitized application name
	EnvSlug string // sanitized environment
}

func resolveProject(p synth.ProjectInfo) project {
	r := project{
		Name:   withDefault(p.ProjectName, "default-project"),
		App:    withDefault(p.ApplicationName, "default-app"),
		Env:    withDefault(p.Environment, defaultEnvironment),
		Ticket: withDefault(p.Ticket, defaultTicket),
		Owner:  withDefault(p.AppOwner, defaultOwner),
		Tier:   withDefault(p.Tier, defaultTier),
	}
	r.Slug = Sanitize(r.Name)
	r.AppSlug = Sanitize(r.App)
	r.EnvSlug = Sanitize(r.Env)
	return r
}

// machine holds one fully-resolved machine for rendering.
type machine struct {
	Name         string
	Size         string
	OSKind       string
	ImageURN     string
	IPAllocation string
	OSDiskSize   int
	OSDiskType   string
	Role         string
	PatchOptIn   string
	Ticket       string
}

func resolveMachine(m synth.MachineSpec, p project, info synth.ProjectInfo, defaultSize string) machine {
	name := fmt.Sprintf("%s-01", p.AppSlug)
	if m.Name != "" {
		name = Sanitize(m.Name)
	}
	r := machine{
		Name:         name,
		Size:         withDefault(m.Size, withDefault(info.MachineSize, defaultSize)),
		OSKind:       withDefault(m.OSKind, "windows"),
		IPAllocation: withDefault(m.IPAllocation, defaultIPAlloc),
		OSDiskSize:   m.OSDiskSize,
		OSDiskType:   withDefault(m.OSDiskType, defaultDiskType),
		Role:         withDefault(m.Role, withDefault(info.Role, "Application")),
		PatchOptIn:   withDefault(m.PatchOptIn, withDefault(info.PatchOptIn, "NO")),
		Ticket:       withDefault(m.Tags["snow-item"], p.Ticket),
	}
	if r.OSDiskSize <= 0 {
		r.OSDiskSize = defaultDiskSizeGB
	}
	if r.OSKind == "windows" {
		r.ImageURN = windowsImageURN
	} else {
		r.ImageURN = linuxImageURN
	}
	return r
}

func resolveMachines(data *synth.BuildData, p project, defaultSize string) []machine {
	out := make([]machine, 0, len(data.Machines))
	for _, m := range data.Machines {
		out = append(out, resolveMachine(m, p, data.Project, defaultSize))
	}
	return out
}

// rule holds a fully-defaulted security rule. Index-based defaults keep
// rows without explicit names or priorities renderable.
type rule struct {
	Name        string
	Priority    int
	Direction   string
	Access      string
	Protocol    string
	SourcePort  string
	DestPorts   []string
	Description string
}

func resolveRule(r synth.SecurityRule, index int, p project) rule {
	name := fmt.Sprintf("rule-%d", index)
	if r.Name != "" {
		name = Sanitize(r.Name)
	}
	out := rule{
		Name:        name,
		Priority:    r.Priority,
		Direction:   withDefault(r.Direction, "Inbound"),
		Access:      withDefault(r.Access, "Allow"),
		Protocol:    withDefault(r.Protocol, "Tcp"),
		SourcePort:  withDefault(r.SourcePort, "*"),
		DestPorts:   r.DestPorts,
		Description: withDefault(r.Description, fmt.Sprintf("Security rule for %s", p.Name)),
	}
	if out.Priority <= 0 {
		out.Priority = 100 + index*10
	}
	if len(out.DestPorts) == 0 {
		out.DestPorts = []string{"443"}
	}
	return out
}

func resolveRules(data *synth.BuildData, p project) []rule {
	out := make([]rule, 0, len(data.Rules))
	for i, r := range data.Rules {
		out = append(out, resolveRule(r, i, p))
	}
	return out
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
