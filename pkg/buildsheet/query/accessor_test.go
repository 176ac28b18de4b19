package query

import (
	"testing"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/models"
)

// testWorkbook builds a small in-memory workbook: a Resources sheet with a
// field/value table and a NSG sheet with a rule table.
func testWorkbook() *models.Workbook {
	resourceTable := models.Table{
		HeaderRowIndex: 0,
		Headers:        []string{"Field", "Column_1", "Column_2"},
		Rows: []map[string]string{
			{"Field": "Resource Group Name", "Column_1": "rg-phoenix-prod"},
			{"Field": "Subnet Name", "Column_1": "snet-phoenix-app"},
			{"Field": "Value", "Column_1": "placeholder"},
			{"Field": "VNET Name", "Column_1": "wab:hub-vnet"},
		},
	}
	ruleTable := models.Table{
		HeaderRowIndex: 2,
		Headers:        []string{"Rule Name", "Priority", "Direction", "Port"},
		Rows: []map[string]string{
			{"Rule Name": "allow-https", "Priority": "100", "Direction": "Inbound", "Port": "443"},
		},
	}

	kv := models.NewKeyValueMap()
	kv.Set("Project Name", "Phoenix")
	kv.Set("Environment", "Production")

	return &models.Workbook{
		BookName:   "test.xlsx",
		SheetOrder: []string{"Resources", "NSG"},
		Sheets: map[string]*models.SheetData{
			"Resources": {Tables: []models.Table{resourceTable}, KeyValues: kv},
			"NSG":       {Tables: []models.Table{ruleTable}, KeyValues: models.NewKeyValueMap()},
		},
	}
}

func TestTableByKeywords(t *testing.T) {
	a := NewAccessor(testWorkbook())

	tbl, ok := a.TableByKeywords("NSG", []string{"priority"})
	if !ok {
		t.Fatal("Expected to find rule table by keyword")
	}
	if tbl.Rows[0]["Rule Name"] != "allow-https" {
		t.Errorf("Got wrong table: %v", tbl.Headers)
	}

	if _, ok := a.TableByKeywords("NSG", []string{"no-such-header"}); ok {
		t.Error("Expected no match for unknown keyword")
	}
}

func TestColumnByKeywords(t *testing.T) {
	a := NewAccessor(testWorkbook())

	header, ok := a.ColumnByKeywords("NSG", []string{"direction"}, 0)
	if !ok || header != "Direction" {
		t.Errorf("Expected header 'Direction', got %q ok=%v", header, ok)
	}

	values := a.ColumnData("NSG", header, 0)
	if len(values) != 1 || values[0] != "Inbound" {
		t.Errorf("Expected [Inbound], got %v", values)
	}
}

func TestValueByKeywords(t *testing.T) {
	a := NewAccessor(testWorkbook())

	v, ok := a.ValueByKeywords("Resources", []string{"project"})
	if !ok || v != "Phoenix" {
		t.Errorf("Expected 'Phoenix', got %q ok=%v", v, ok)
	}

	if _, ok := a.ValueByKeywords("Resources", []string{"missing"}); ok {
		t.Error("Expected no match for absent key")
	}
}

func TestActualValuesPositionalRule(t *testing.T) {
	a := NewAccessor(testWorkbook())

	actual := a.ActualValues("Resources")

	if v, _ := actual.Get("Resource Group Name"); v != "rg-phoenix-prod" {
		t.Errorf("Expected 'rg-phoenix-prod', got %q", v)
	}
	if v, _ := actual.Get("Subnet Name"); v != "snet-phoenix-app" {
		t.Errorf("Expected 'snet-phoenix-app', got %q", v)
	}

	// The blacklisted field 'Value' never appears in actual data.
	if _, ok := actual.Get("Value"); ok {
		t.Error("Blacklisted field 'Value' must be excluded")
	}
	// Reference-valued rows are excluded too.
	if _, ok := actual.Get("VNET Name"); ok {
		t.Error("Reference-valued row must be excluded from actual values")
	}
}

func TestActualValuesMissingSheet(t *testing.T) {
	a := NewAccessor(testWorkbook())
	if got := a.ActualValues("NoSuchSheet").Len(); got != 0 {
		t.Errorf("Expected empty map for missing sheet, got %d entries", got)
	}
}

func TestResolveReference(t *testing.T) {
	a := NewAccessor(testWorkbook())

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"non-reference passes through", "plain-value", "plain-value"},
		{"exact match", "wab:resource-group-name", "rg-phoenix-prod"},
		{"partial token match", "wab:subnet", "snet-phoenix-app"},
		{"unresolved returns original", "wab:no-such-thing", "wab:no-such-thing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.ResolveReference(tt.value, "Resources"); got != tt.want {
				t.Errorf("ResolveReference(%q) = %q, expected %q", tt.value, got, tt.want)
			}
		})
	}
}
