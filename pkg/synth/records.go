// Package synth turns an extracted workbook into normalized build
// records: project metadata, machine definitions, network rules, and
// naming patterns.
package synth

// ProjectInfo carries project-level metadata resolved once per run. It is
// immutable after synthesis.
type ProjectInfo struct {
	ProjectName     string `json:"project_name"`
	ApplicationName string `json:"application_name"`
	Description     string `json:"app_description"`
	ServerOwner     string `json:"server_owner"`
	AppOwner        string `json:"app_owner"`
	BusinessOwner   string `json:"business_owner"`
	Ticket          string `json:"service_now_ticket"`
	Tier            string `json:"app_tier"`
	Environment     string `json:"environment"`
	MachineSize     string `json:"vm_size"`
	OSImage         string `json:"os_image"`
	Role            string `json:"role"`
	PatchOptIn      string `json:"patch_optin"`
}

// MachineSpec is one normalized compute-instance record, extracted from a
// detected machine table or synthesized from project defaults.
type MachineSpec struct {
	Name         string            `json:"name"`
	Size         string            `json:"size"`
	OSKind       string            `json:"os_kind"` // "windows" or "linux"
	OSImage      string            `json:"os_image"`
	OSDiskSize   int               `json:"os_disk_size"`
	OSDiskType   string            `json:"os_disk_type"`
	IPAllocation string            `json:"ip_allocation"`
	Owner        string            `json:"owner"`
	Environment  string            `json:"environment"`
	Role         string            `json:"role"`
	PatchOptIn   string            `json:"patch_opt_in"`
	Tags         map[string]string `json:"tags,omitempty"`
}

// SecurityRule is one firewall/network rule row, carried verbatim: there
// is no reliable way to tell a malformed rule from an unusual-but-valid
// one without full schema validation.
type SecurityRule struct {
	Name        string   `json:"name"`
	Priority    int      `json:"priority"`
	Direction   string   `json:"direction"`
	Access      string   `json:"access"`
	Protocol    string   `json:"protocol"`
	SourcePort  string   `json:"source_port"`
	DestPorts   []string `json:"dest_ports"`
	SourceRef   string   `json:"source_ref"`
	DestRef     string   `json:"dest_ref"`
	Description string   `json:"description"`
}

// BuildData is the complete set of records one workbook yields. The
// records are independent copies that outlive the workbook model.
type BuildData struct {
	Project  ProjectInfo       `json:"project_info"`
	Machines []MachineSpec     `json:"machines"`
	Rules    []SecurityRule    `json:"security_rules"`
	Gateway  map[string]string `json:"application_gateway,omitempty"`
	Registry map[string]string `json:"container_registry,omitempty"`
	// Env holds deployment-environment settings (location, SPN and key
	// vault configuration) harvested from the build-environment sheet.
	Env map[string]string `json:"build_env,omitempty"`
	// Naming maps a resource category to its naming template.
	Naming map[string]string `json:"naming_patterns,omitempty"`
}
