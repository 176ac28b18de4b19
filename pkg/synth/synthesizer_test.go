package synth

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/models"
	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/query"
)

func newSynthesizer(wb *models.Workbook) *Synthesizer {
	return New(query.NewAccessor(wb), DefaultConfig(), zerolog.Nop())
}

// fieldTable builds a Resources-style field/value table from pairs.
func fieldTable(pairs [][2]string) models.Table {
	t := models.Table{Headers: []string{"Field", "Column_1", "Column_2"}}
	for _, p := range pairs {
		t.Rows = append(t.Rows, map[string]string{"Field": p[0], "Column_1": p[1]})
	}
	return t
}

func workbookWith(sheets map[string]*models.SheetData) *models.Workbook {
	wb := &models.Workbook{BookName: "test.xlsx", Sheets: map[string]*models.SheetData{}}
	for name, sd := range sheets {
		if sd.KeyValues == nil {
			sd.KeyValues = models.NewKeyValueMap()
		}
		wb.Sheets[name] = sd
		wb.SheetOrder = append(wb.SheetOrder, name)
	}
	return wb
}

func TestSynthesizeMachineTable(t *testing.T) {
	machineTable := models.Table{
		Headers: []string{"Hostname", "Recommended SKU", "OS Image", "OS disk size", "Server Owner"},
		Rows: []map[string]string{
			{"Hostname": "phx-web-01", "Recommended SKU": "Standard_B2s_v2", "OS Image": "Ubuntu 22.04", "OS disk size": "64 GB", "Server Owner": "jdoe"},
			{"Hostname": "phx-web-02", "Recommended SKU": "Standard_B2s_v2", "OS Image": "Windows Server 2022", "OS disk size": "128", "Server Owner": "jdoe"},
		},
	}
	wb := workbookWith(map[string]*models.SheetData{
		"Resources": {Tables: []models.Table{machineTable}},
	})

	data := newSynthesizer(wb).Synthesize()

	if len(data.Machines) != 2 {
		t.Fatalf("Expected 2 machines, got %d", len(data.Machines))
	}

	m := data.Machines[0]
	if m.Name != "phx-web-01" {
		t.Errorf("Expected name 'phx-web-01', got %q", m.Name)
	}
	if m.Size != "Standard_B2s_v2" {
		t.Errorf("Expected size 'Standard_B2s_v2', got %q", m.Size)
	}
	if m.OSKind != "linux" {
		t.Errorf("Expected linux for Ubuntu image, got %q", m.OSKind)
	}
	if m.OSDiskSize != 64 {
		t.Errorf("Expected disk size 64, got %d", m.OSDiskSize)
	}
	if data.Machines[1].OSKind != "windows" {
		t.Errorf("Expected windows for second machine, got %q", data.Machines[1].OSKind)
	}
}

func TestSynthesizeSkipsSparseRows(t *testing.T) {
	machineTable := models.Table{
		Headers: []string{"Hostname", "Recommended SKU", "OS Image", "OS disk size", "Server Owner"},
		Rows: []map[string]string{
			{"Hostname": "phx-web-01", "Recommended SKU": "Standard_B2s_v2", "OS Image": "Ubuntu"},
			{"Hostname": "stray-note"},
		},
	}
	wb := workbookWith(map[string]*models.SheetData{
		"Resources": {Tables: []models.Table{machineTable}},
	})

	data := newSynthesizer(wb).Synthesize()
	if len(data.Machines) != 1 {
		t.Fatalf("Expected 1 machine after skipping sparse row, got %d", len(data.Machines))
	}
}

func TestSynthesizeFallbackMachines(t *testing.T) {
	wb := workbookWith(map[string]*models.SheetData{
		"Resources": {Tables: []models.Table{fieldTable([][2]string{
			{"Project Name", "Phoenix"},
			{"Abbreviated App Name", "phx"},
			{"Choose Node Size", "Standard_B2s_v2"},
			{"OS Image", "Windows Server 2022"},
		})}},
	})

	data := newSynthesizer(wb).Synthesize()

	if len(data.Machines) != 2 {
		t.Fatalf("Expected 2 fallback machines, got %d", len(data.Machines))
	}
	if data.Machines[0].Name != "phx-01" || data.Machines[1].Name != "phx-02" {
		t.Errorf("Expected names phx-01/phx-02, got %q/%q",
			data.Machines[0].Name, data.Machines[1].Name)
	}
	if data.Machines[0].Size != "Standard_B2s_v2" {
		t.Errorf("Expected size from project data, got %q", data.Machines[0].Size)
	}
	if data.Machines[0].OSKind != "windows" {
		t.Errorf("Expected windows, got %q", data.Machines[0].OSKind)
	}
}

func TestSynthesizeFallbackCountHint(t *testing.T) {
	wb := workbookWith(map[string]*models.SheetData{
		"Resources": {Tables: []models.Table{fieldTable([][2]string{
			{"Abbreviated App Name", "phx"},
			{"Number of VMs", "3"},
		})}},
	})

	data := newSynthesizer(wb).Synthesize()
	if len(data.Machines) != 3 {
		t.Fatalf("Expected 3 machines from count hint, got %d", len(data.Machines))
	}
	if data.Machines[2].Name != "phx-03" {
		t.Errorf("Expected 'phx-03', got %q", data.Machines[2].Name)
	}
}

func TestSynthesizeDefaultAppName(t *testing.T) {
	wb := workbookWith(map[string]*models.SheetData{})

	data := newSynthesizer(wb).Synthesize()
	if len(data.Machines) != 2 {
		t.Fatalf("Expected 2 machines, got %d", len(data.Machines))
	}
	if data.Machines[0].Name != "myapp-01" {
		t.Errorf("Expected 'myapp-01', got %q", data.Machines[0].Name)
	}
}

func TestSecurityRulesVerbatim(t *testing.T) {
	ruleTable := models.Table{
		Headers: []string{"Rule Name", "Priority", "Direction", "Access", "Protocol", "Source Port Range", "Destination Port Ranges", "Description"},
		Rows: []map[string]string{
			{
				"Rule Name": "allow-https", "Priority": "100", "Direction": "Inbound",
				"Access": "Allow", "Protocol": "Tcp", "Source Port Range": "*",
				"Destination Port Ranges": "443, 8443", "Description": "web traffic",
			},
			{"Rule Name": "odd row"},
		},
	}
	wb := workbookWith(map[string]*models.SheetData{
		"NSG": {Tables: []models.Table{ruleTable}},
	})

	data := newSynthesizer(wb).Synthesize()

	// Every row survives, even the malformed-looking one.
	if len(data.Rules) != 2 {
		t.Fatalf("Expected 2 rules, got %d", len(data.Rules))
	}

	r := data.Rules[0]
	if r.Name != "allow-https" {
		t.Errorf("Expected name 'allow-https', got %q", r.Name)
	}
	if r.Priority != 100 {
		t.Errorf("Expected priority 100, got %d", r.Priority)
	}
	if len(r.DestPorts) != 2 || r.DestPorts[0] != "443" || r.DestPorts[1] != "8443" {
		t.Errorf("Expected ports [443 8443], got %v", r.DestPorts)
	}
	if data.Rules[1].Name != "odd row" {
		t.Errorf("Expected 'odd row' carried verbatim, got %q", data.Rules[1].Name)
	}
}

func TestSynthesizeBuildEnv(t *testing.T) {
	// Build_ENV rows carry their value in the third populated cell; the
	// middle column holds template markers that must not leak through.
	envTable := models.Table{
		Headers: []string{"Field", "Column_1", "Column_2"},
		Rows: []map[string]string{
			{"Field": "Location", "Column_1": "Existing", "Column_2": "East US 2"},
			{"Field": "Key Vault Name", "Column_1": "Validation", "Column_2": "kvlt-phx-prod"},
			{"Field": "SPN Name", "Column_1": "Existing"},
		},
	}
	wb := workbookWith(map[string]*models.SheetData{
		"Build_ENV": {Tables: []models.Table{envTable}},
	})

	data := newSynthesizer(wb).Synthesize()

	if data.Env["Location"] != "East US 2" {
		t.Errorf("Expected Location 'East US 2', got %q", data.Env["Location"])
	}
	if data.Env["Key Vault Name"] != "kvlt-phx-prod" {
		t.Errorf("Expected key vault name, got %q", data.Env["Key Vault Name"])
	}
	// A row with no value cell contributes nothing.
	if _, ok := data.Env["SPN Name"]; ok {
		t.Error("Row without a value cell must not appear in Env")
	}
	for k, v := range data.Env {
		if v == "Existing" || v == "Validation" {
			t.Errorf("Template marker leaked into Env: %s=%s", k, v)
		}
	}
}

func TestNamingPatterns(t *testing.T) {
	kv := models.NewKeyValueMap()
	kv.Set("Resource_Group Naming", "rg-{app}-{env}")
	kv.Set("Subnet Naming", "snet-{app}-{env}")
	kv.Set("Unrelated", "ignored")

	wb := workbookWith(map[string]*models.SheetData{
		"Resource Options": {KeyValues: kv},
	})

	data := newSynthesizer(wb).Synthesize()

	if data.Naming["Resource_Group"] != "rg-{app}-{env}" {
		t.Errorf("Expected resource group pattern, got %q", data.Naming["Resource_Group"])
	}
	if data.Naming["Subnet"] != "snet-{app}-{env}" {
		t.Errorf("Expected subnet pattern, got %q", data.Naming["Subnet"])
	}
	if _, ok := data.Naming["Unrelated"]; ok {
		t.Error("Uncategorized key must not appear in naming patterns")
	}
}

func TestClassifyOSKind(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Windows Server 2022", "windows"},
		{"win2019", "windows"},
		{"Ubuntu 22.04 LTS", "linux"},
		{"RHEL 9", "linux"},
		{"CentOS", "linux"},
		{"", "windows"},
		{"something else", "windows"},
	}
	for _, tt := range tests {
		if got := ClassifyOSKind(tt.input); got != tt.want {
			t.Errorf("ClassifyOSKind(%q) = %q, expected %q", tt.input, got, tt.want)
		}
	}
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"30 GB", 30},
		{"128", 128},
		{"size: 64GB", 64},
		{"none", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseLeadingInt(tt.input); got != tt.want {
			t.Errorf("parseLeadingInt(%q) = %d, expected %d", tt.input, got, tt.want)
		}
	}
}
