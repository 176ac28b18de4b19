package synth

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/models"
	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/query"
)

// SheetNames binds the synthesizer to the workbook's sheet layout.
type SheetNames struct {
	Resources       string `yaml:"resources"`
	NetworkRules    string `yaml:"network_rules"`
	Gateway         string `yaml:"gateway"`
	Registry        string `yaml:"registry"`
	ResourceOptions string `yaml:"resource_options"`
	BuildEnv        string `yaml:"build_env"`
}

// DefaultSheetNames returns the sheet names used by the source workbook
// template.
func DefaultSheetNames() SheetNames {
	return SheetNames{
		Resources:       "Resources",
		NetworkRules:    "NSG",
		Gateway:         "APGW",
		Registry:        "ACR NRS",
		ResourceOptions: "Resource Options",
		BuildEnv:        "Build_ENV",
	}
}

// Config tunes synthesis behavior.
type Config struct {
	Sheets SheetNames
	// DefaultMachineCount is how many machines to synthesize when no
	// machine table is detected. Two, for redundancy, unless overridden.
	DefaultMachineCount int
}

// DefaultConfig returns synthesis defaults.
func DefaultConfig() Config {
	return Config{
		Sheets:              DefaultSheetNames(),
		DefaultMachineCount: 2,
	}
}

// machineKeywords is the header vocabulary that marks a table as machine
// data.
var machineKeywords = []string{
	"hostname", "vm", "server", "machine", "instance", "node", "compute", "sku", "recommended sku",
}

// machineHintWords mark column names that suggest machine attributes even
// when the vocabulary misses.
var machineHintWords = []string{"owner", "recommended", "os", "disk", "image"}

// Ranked field-name aliases for machine extraction. Earlier entries win.
var (
	nameAliases     = []string{"Hostname", "VM Name", "Server Name", "Name"}
	sizeAliases     = []string{"Recommended SKU", "SKU", "Size", "VM Size", "Instance Type", "Choose Node Size"}
	osAliases       = []string{"OS Image*", "OS Image", "Image", "OS", "Operating System"}
	diskSizeAliases = []string{"OS disk size", "Disk Size"}
	diskTypeAliases = []string{"OS disk type", "Disk Type"}
	ipAliases       = []string{"Private IP Address Allocation", "IP Allocation"}
	ownerAliases    = []string{"Server Owner", "Application Owner", "Owner"}
	envAliases      = []string{"Environment"}
	roleAliases     = []string{"Role"}
	patchAliases    = []string{"Patch Optin", "Patch Opt-in"}
	ticketAliases   = []string{"Service Now Ticket", "SNOW Item"}
)

// projectFieldMap maps lowercase substrings of actual-value field names to
// ProjectInfo assignment targets.
var projectFieldMap = []struct {
	substr string
	assign func(*ProjectInfo, string)
}{
	{"project name", func(p *ProjectInfo, v string) { p.ProjectName = v }},
	{"abbreviated app name", func(p *ProjectInfo, v string) { p.ApplicationName = v }},
	{"application description", func(p *ProjectInfo, v string) { p.Description = v }},
	{"server owner", func(p *ProjectInfo, v string) { p.ServerOwner = v }},
	{"application owner", func(p *ProjectInfo, v string) { p.AppOwner = v }},
	{"business owner", func(p *ProjectInfo, v string) { p.BusinessOwner = v }},
	{"service now ticket", func(p *ProjectInfo, v string) { p.Ticket = v }},
	{"application tier", func(p *ProjectInfo, v string) { p.Tier = v }},
	{"environment", func(p *ProjectInfo, v string) { p.Environment = v }},
	{"choose node size", func(p *ProjectInfo, v string) { p.MachineSize = v }},
	{"os image", func(p *ProjectInfo, v string) { p.OSImage = v }},
	{"os", func(p *ProjectInfo, v string) { p.OSImage = v }},
	{"role", func(p *ProjectInfo, v string) { p.Role = v }},
	{"patch optin", func(p *ProjectInfo, v string) { p.PatchOptIn = v }},
}

// namingCategories is the fixed set of resource categories whose naming
// templates are harvested from the resource-options sheet.
var namingCategories = []string{
	"Resource_Group",
	"Subnet",
	"Network_Security_Group",
	"Application_Gateway",
	"Azure_Container_Registry",
	"Storage_Account",
}

// Synthesizer produces build records from a workbook through its query
// accessor.
type Synthesizer struct {
	acc *query.Accessor
	cfg Config
	log zerolog.Logger
}

// New creates a Synthesizer. The logger may be zerolog.Nop().
func New(acc *query.Accessor, cfg Config, log zerolog.Logger) *Synthesizer {
	if cfg.DefaultMachineCount <= 0 {
		cfg.DefaultMachineCount = 2
	}
	if cfg.Sheets == (SheetNames{}) {
		cfg.Sheets = DefaultSheetNames()
	}
	return &Synthesizer{acc: acc, cfg: cfg, log: log}
}

// Synthesize runs the full record extraction. It never fails: missing
// sheets and tables resolve through the default chain.
func (s *Synthesizer) Synthesize() *BuildData {
	actual := s.acc.ActualValues(s.cfg.Sheets.Resources)

	data := &BuildData{
		Project:  s.projectInfo(actual),
		Gateway:  s.flattenSheet(s.cfg.Sheets.Gateway),
		Registry: s.flattenSheet(s.cfg.Sheets.Registry),
		Env:      kvToMap(s.acc.ActualValues(s.cfg.Sheets.BuildEnv)),
		Naming:   s.namingPatterns(),
	}
	data.Machines = s.machines(data.Project, actual)
	data.Rules = s.securityRules()

	s.log.Info().
		Str("project", data.Project.ProjectName).
		Int("machines", len(data.Machines)).
		Int("rules", len(data.Rules)).
		Msg("records synthesized")

	return data
}

// projectInfo maps resolved actual values onto the project record. The
// first matching substring wins per field row, mirroring the source
// mapping table's order.
func (s *Synthesizer) projectInfo(actual *models.KeyValueMap) ProjectInfo {
	var p ProjectInfo
	for _, key := range actual.Keys() {
		keyLower := strings.ToLower(key)
		for _, m := range projectFieldMap {
			if strings.Contains(keyLower, m.substr) {
				v, _ := actual.Get(key)
				m.assign(&p, s.acc.ResolveReference(v, s.cfg.Sheets.Resources))
				break
			}
		}
	}
	return p
}

// machines extracts MachineSpec records from detected machine tables, or
// synthesizes them from project defaults when none exist. Absence of
// machine data is a policy default, never an error.
func (s *Synthesizer) machines(project ProjectInfo, actual *models.KeyValueMap) []MachineSpec {
	var specs []MachineSpec

	for i, table := range s.acc.Tables(s.cfg.Sheets.Resources) {
		if !isMachineTable(&table) {
			continue
		}
		s.log.Debug().Int("table", i).Int("rows", len(table.Rows)).Msg("machine table detected")
		for _, row := range table.Rows {
			if countNonEmpty(row) < 3 {
				continue
			}
			specs = append(specs, s.machineFromRow(row, project, len(specs)))
		}
	}

	if len(specs) == 0 {
		s.log.Info().Msg("no machine table found, synthesizing from configuration")
		specs = s.synthesizeMachines(project, actual)
	}

	return specs
}

// isMachineTable evaluates the two independent machine signals: header
// vocabulary and attribute-hint columns. Either signal qualifies, but the
// table still needs at least 5 columns and a data row.
func isMachineTable(t *models.Table) bool {
	if len(t.Headers) < 5 || len(t.Rows) == 0 {
		return false
	}

	for _, h := range t.Headers {
		hl := strings.ToLower(h)
		for _, kw := range machineKeywords {
			if strings.Contains(hl, kw) {
				return true
			}
		}
	}

	for key := range t.Rows[0] {
		kl := strings.ToLower(key)
		for _, hint := range machineHintWords {
			if strings.Contains(kl, hint) {
				return true
			}
		}
	}

	return false
}

func (s *Synthesizer) machineFromRow(row map[string]string, project ProjectInfo, index int) MachineSpec {
	name := firstAlias(row, nameAliases)
	if name == "" {
		name = fallbackMachineName(project.ApplicationName, index)
	}

	spec := MachineSpec{
		Name:         name,
		Size:         firstAlias(row, sizeAliases),
		OSImage:      firstAlias(row, osAliases),
		OSDiskSize:   parseLeadingInt(firstAlias(row, diskSizeAliases)),
		OSDiskType:   firstAlias(row, diskTypeAliases),
		IPAllocation: firstAlias(row, ipAliases),
		Owner:        firstAlias(row, ownerAliases),
		Environment:  firstAlias(row, envAliases),
		Role:         firstAlias(row, roleAliases),
		PatchOptIn:   firstAlias(row, patchAliases),
	}
	spec.OSKind = ClassifyOSKind(spec.OSImage, project.OSImage)
	spec.Tags = map[string]string{
		"role":        coalesce(spec.Role, project.Role),
		"patch-optin": coalesce(spec.PatchOptIn, project.PatchOptIn),
		"snow-item":   coalesce(firstAlias(row, ticketAliases), project.Ticket),
	}
	return spec
}

// synthesizeMachines creates the fallback machine set: a configured count
// derived from project fields, named <app>-01, <app>-02, ...
func (s *Synthesizer) synthesizeMachines(project ProjectInfo, actual *models.KeyValueMap) []MachineSpec {
	count := s.cfg.DefaultMachineCount
	for _, key := range actual.Keys() {
		kl := strings.ToLower(key)
		if containsAny(kl, "vm", "server", "instance") && containsAny(kl, "count", "number", "total") {
			if v, _ := actual.Get(key); v != "" {
				if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
					count = n
					break
				}
			}
		}
	}

	app := project.ApplicationName
	if app == "" {
		app = "myapp"
	}

	specs := make([]MachineSpec, 0, count)
	for i := 0; i < count; i++ {
		spec := MachineSpec{
			Name:         fallbackMachineName(app, i),
			Size:         project.MachineSize,
			OSImage:      project.OSImage,
			OSKind:       ClassifyOSKind(project.OSImage),
			OSDiskSize:   parseLeadingInt(valueOrEmpty(actual, "OS disk size")),
			OSDiskType:   valueOrEmpty(actual, "OS disk type"),
			IPAllocation: valueOrEmpty(actual, "Private IP Address Allocation"),
			Owner:        project.ServerOwner,
			Environment:  project.Environment,
			Role:         project.Role,
			PatchOptIn:   project.PatchOptIn,
			Tags: map[string]string{
				"role":        project.Role,
				"patch-optin": project.PatchOptIn,
				"snow-item":   project.Ticket,
			},
		}
		specs = append(specs, spec)
	}
	return specs
}

// securityRules converts every row of every table on the network-rules
// sheet into a rule, with no filtering.
func (s *Synthesizer) securityRules() []SecurityRule {
	var rules []SecurityRule
	for _, table := range s.acc.Tables(s.cfg.Sheets.NetworkRules) {
		for _, row := range table.Rows {
			rules = append(rules, ruleFromRow(row))
		}
	}
	return rules
}

func ruleFromRow(row map[string]string) SecurityRule {
	rule := SecurityRule{
		Name:        keywordField(row, "name", "source", "destination"),
		Priority:    parseLeadingInt(keywordField(row, "priority")),
		Direction:   keywordField(row, "direction"),
		Access:      keywordField(row, "access"),
		Protocol:    keywordField(row, "protocol"),
		SourcePort:  keywordField(row, "source port"),
		SourceRef:   keywordField(row, "source", "port"),
		DestRef:     keywordField(row, "destination", "port"),
		Description: keywordField(row, "description"),
	}
	if ports := keywordField(row, "destination port"); ports != "" {
		for _, p := range strings.Split(ports, ",") {
			if p = strings.TrimSpace(p); p != "" {
				rule.DestPorts = append(rule.DestPorts, p)
			}
		}
	}
	return rule
}

// flattenSheet merges every table row and key/value entry of a sheet into
// one configuration map. Key/value entries win on collision, matching the
// source extraction order.
func (s *Synthesizer) flattenSheet(sheet string) map[string]string {
	out := make(map[string]string)
	for _, table := range s.acc.Tables(sheet) {
		for _, row := range table.Rows {
			for k, v := range row {
				if v != "" {
					out[k] = v
				}
			}
		}
	}
	kv := s.acc.Workbook().Sheet(sheet).KeyValues
	for _, key := range kv.Keys() {
		v, _ := kv.Get(key)
		out[key] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// namingPatterns harvests naming templates from the resource-options
// sheet, from table rows first and key/value entries second; last write
// wins per category.
func (s *Synthesizer) namingPatterns() map[string]string {
	patterns := make(map[string]string)

	record := func(field, value string) {
		if value == "" {
			return
		}
		for _, cat := range namingCategories {
			if strings.Contains(field, cat) {
				patterns[cat] = value
			}
		}
	}

	for _, table := range s.acc.Tables(s.cfg.Sheets.ResourceOptions) {
		for _, row := range table.Rows {
			for _, header := range table.Headers {
				if v, ok := row[header]; ok {
					record(header, v)
				}
			}
		}
	}

	kv := s.acc.Workbook().Sheet(s.cfg.Sheets.ResourceOptions).KeyValues
	for _, key := range kv.Keys() {
		v, _ := kv.Get(key)
		record(key, v)
	}

	if len(patterns) == 0 {
		return nil
	}
	return patterns
}

// ClassifyOSKind maps free-text OS descriptions to "windows" or "linux".
// The first non-empty candidate decides; unrecognized text defaults to
// windows.
func ClassifyOSKind(candidates ...string) string {
	for _, c := range candidates {
		cl := strings.ToLower(strings.TrimSpace(c))
		if cl == "" {
			continue
		}
		switch {
		case strings.Contains(cl, "windows") || strings.Contains(cl, "win"):
			return "windows"
		case strings.Contains(cl, "linux") || strings.Contains(cl, "ubuntu") ||
			strings.Contains(cl, "rhel") || strings.Contains(cl, "centos"):
			return "linux"
		}
	}
	return "windows"
}

func fallbackMachineName(app string, index int) string {
	if app == "" {
		app = "vm"
	}
	return fmt.Sprintf("%s-%02d", app, index+1)
}

var leadingIntRe = regexp.MustCompile(`\d+`)

// parseLeadingInt pulls the first integer out of free text like "30 GB".
func parseLeadingInt(s string) int {
	m := leadingIntRe.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// firstAlias returns the value of the first alias present in the row,
// matched exactly first and then as a case-insensitive substring of the
// row's keys. Substring fallback walks keys in sorted order so repeated
// runs resolve to the same column.
func firstAlias(row map[string]string, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	keys := sortedKeys(row)
	for _, alias := range aliases {
		al := strings.ToLower(alias)
		for _, k := range keys {
			if strings.Contains(strings.ToLower(k), al) && strings.TrimSpace(row[k]) != "" {
				return strings.TrimSpace(row[k])
			}
		}
	}
	return ""
}

// keywordField returns the value of the first row key (sorted order)
// containing the keyword and none of the exclusion words.
func keywordField(row map[string]string, keyword string, exclude ...string) string {
	for _, k := range sortedKeys(row) {
		kl := strings.ToLower(k)
		if !strings.Contains(kl, keyword) {
			continue
		}
		if containsAny(kl, exclude...) {
			continue
		}
		if v := strings.TrimSpace(row[k]); v != "" {
			return v
		}
	}
	return ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func countNonEmpty(row map[string]string) int {
	n := 0
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func kvToMap(kv *models.KeyValueMap) map[string]string {
	if kv == nil || kv.Len() == 0 {
		return nil
	}
	out := make(map[string]string, kv.Len())
	for _, k := range kv.Keys() {
		v, _ := kv.Get(k)
		out[k] = v
	}
	return out
}

func valueOrEmpty(kv *models.KeyValueMap, key string) string {
	v, _ := kv.Get(key)
	return v
}
