package terraform

import (
	"fmt"
	"sort"
	"strings"
)

// sortedKeys keeps map-driven rendering deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

const gitignoreText = `# Local .terraform directories
**/.terraform/*

# State files
*.tfstate
*.tfstate.*

# Crash logs
crash.log
crash.*.log

# Sensitive variable files
*.auto.tfvars

# Override files
override.tf
override.tf.json
*_override.tf
*_override.tf.json

# Plan files
*.tfplan

# Lock file is intentionally committed
!.terraform.lock.hcl
`

// splitImageURN breaks a publisher:offer:sku:version image reference into
// its parts. Short references pad out with "latest".
func splitImageURN(urn string) (publisher, offer, sku, version string) {
	parts := strings.SplitN(urn, ":", 4)
	for len(parts) < 4 {
		parts = append(parts, "latest")
	}
	return parts[0], parts[1], parts[2], parts[3]
}

func renderReadme(p project, machineCount int, mode Mode) string {
	var b strings.Builder

	fmt.Fprintf(&b, `# %s

Infrastructure configuration for the %s application, generated from the
build request workbook.

| | |
|---|---|
| Project | %s |
| Application | %s |
| Environment | %s |
| Ticket | %s |
| Owner | %s |
| Tier | %s |
| Machines | %d |
| Layout | %s |

## Usage

`+"```sh"+`
terraform init
terraform plan -out=tfplan
terraform apply tfplan
`+"```"+`

Run `+"`scripts/validate.sh`"+` to format-check and validate the
configuration before planning.

## Files

`, p.Name, p.App, p.Name, p.App, p.Env, p.Ticket, p.Owner, p.Tier, machineCount, mode)

	switch mode {
	case ModeModular:
		b.WriteString(`- ` + "`m-basevm.tf`" + ` - base VM module calls, one per machine
- ` + "`r-*.tf`" + ` - supporting resources (resource group, subnet, NSG rules, key vault, identity, disks, private endpoints)
- ` + "`variables.tf`" + ` / ` + "`terraform.tfvars`" + ` - declarations and values
- ` + "`outputs.tf`" + ` - exported attributes
- ` + "`versions.tf`" + ` - provider and core version pins
`)
	default:
		b.WriteString(`- ` + "`main.tf`" + ` - all resources
- ` + "`variables.tf`" + ` / ` + "`terraform.tfvars`" + ` - declarations and values
- ` + "`outputs.tf`" + ` - exported attributes
- ` + "`provider.tf`" + ` - provider and core version pins
`)
	}

	return b.String()
}

func renderValidateScript(p project) string {
	return fmt.Sprintf(`#!/usr/bin/env bash
# Validation for the %s configuration.
set -euo pipefail

cd "$(dirname "$0")/.."

terraform fmt -check -recursive
terraform init -backend=false -input=false >/dev/null
terraform validate
echo "validation passed"
`, p.Slug)
}
