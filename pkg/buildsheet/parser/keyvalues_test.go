package parser

import (
	"testing"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/models"
)

func TestExtractKeyValues(t *testing.T) {
	grid := models.Grid{
		{"Project Name:", "Phoenix"},
		{"Environment", "Production"},
		{"", ""},
		{"Owner:", "jdoe"},
	}

	kv := ExtractKeyValues(grid)

	tests := []struct {
		key  string
		want string
	}{
		{"Project Name", "Phoenix"},
		{"Environment", "Production"},
		{"Owner", "jdoe"},
	}
	for _, tt := range tests {
		got, ok := kv.Get(tt.key)
		if !ok {
			t.Errorf("Key %q missing", tt.key)
			continue
		}
		if got != tt.want {
			t.Errorf("Key %q: expected %q, got %q", tt.key, tt.want, got)
		}
	}
}

func TestExtractKeyValuesSkipsNoiseTokens(t *testing.T) {
	grid := models.Grid{
		{"Value", "something"},
		{"Hostname", "YES"},
		{"Tier", "Gold"},
		{"Real Key", "Real Value"},
	}

	kv := ExtractKeyValues(grid)

	if _, ok := kv.Get("Value"); ok {
		t.Error("Blacklisted key 'Value' should be skipped")
	}
	if _, ok := kv.Get("Hostname"); ok {
		t.Error("Row with blacklisted value 'YES' should be skipped")
	}
	if _, ok := kv.Get("Tier"); ok {
		t.Error("Row with blacklisted value 'Gold' should be skipped")
	}
	if v, _ := kv.Get("Real Key"); v != "Real Value" {
		t.Errorf("Expected 'Real Value', got %q", v)
	}
}

func TestExtractKeyValuesLastWriteWins(t *testing.T) {
	grid := models.Grid{
		{"Region", "east"},
		{"Zone", "1"},
		{"Region", "west"},
	}

	kv := ExtractKeyValues(grid)

	if v, _ := kv.Get("Region"); v != "west" {
		t.Errorf("Expected repeated key to keep last value 'west', got %q", v)
	}
	// Position of the first write is preserved.
	keys := kv.Keys()
	if len(keys) != 2 || keys[0] != "Region" || keys[1] != "Zone" {
		t.Errorf("Expected insertion order [Region Zone], got %v", keys)
	}
}

func TestIsNoiseToken(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Value", true},
		{"value", true},
		{"  YES  ", true},
		{"User/CMDB", true},
		{"Platinum", true},
		{"my-server", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsNoiseToken(tt.input); got != tt.want {
			t.Errorf("IsNoiseToken(%q) = %v, expected %v", tt.input, got, tt.want)
		}
	}
}
