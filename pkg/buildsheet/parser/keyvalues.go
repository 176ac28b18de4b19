package parser

import (
	"strings"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/buildsheet/models"
)

// noiseTokenList is the closed set of cell values the key/value heuristic
// must never treat as data: literal placeholders, dropdown option labels,
// and sentinel markers captured from the workbook template. Downstream
// synthesis depends on the exact membership, so this is a contract, not a
// tunable.
var noiseTokenList = []string{
	"Value", "Existing", "Validation", "Terraform Variable", "SNOW form",
	"User", "EA", "CMDB", "Cloud Engineering", "Azure Client Managed",
	"Azure CMS Managed", "OnPrem", "AWS Client Managed", "YES", "NO",
	"ASR", "GRS Backup/Restore", "Warm/Standby", "Cold Rebuild",
	"User/CMDB", "CMDB APP NAME", "SNOW team after request is complete?",
	"User/EA", "DEV", "UAT", "QA", "PROD", "DR", "Platinum", "Gold",
	"Silver", "Bronze", "Iron", "CMDB?", "MUST BE A NUMBER", "Commercial",
	"Consumer Related", "Corporate", "Corporate Support", "Overview",
}

var noiseTokens = make(map[string]struct{}, len(noiseTokenList))

func init() {
	for _, t := range noiseTokenList {
		noiseTokens[strings.ToLower(t)] = struct{}{}
	}
}

// IsNoiseToken reports whether a trimmed cell value belongs to the
// known-noise blacklist. Matching is case-insensitive.
func IsNoiseToken(s string) bool {
	_, ok := noiseTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// ExtractKeyValues builds a sheet's key/value map by treating column 0 as
// label and column 1 as value. A row contributes an entry only when both
// cells are non-empty after trimming and neither matches the noise
// blacklist. Label colons are stripped. Keys keep first-seen order; a
// repeated key overwrites its value.
func ExtractKeyValues(grid models.Grid) *models.KeyValueMap {
	kv := models.NewKeyValueMap()

	for rowIdx := range grid {
		key := strings.TrimSpace(strings.ReplaceAll(grid.Cell(rowIdx, 0), ":", ""))
		value := grid.Cell(rowIdx, 1)

		if key == "" || value == "" {
			continue
		}
		if IsNoiseToken(key) || IsNoiseToken(value) {
			continue
		}
		kv.Set(key, value)
	}

	return kv
}
