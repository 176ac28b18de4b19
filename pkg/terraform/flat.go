package terraform

import (
	"fmt"
	"strings"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/synth"
)

// flatDefaultLocation and flatDefaultSize anchor the flat schema's
// fallback chain.
const (
	flatDefaultLocation = "East US"
	flatDefaultSize     = "Standard_D2s_v3"
)

// flatNamingDefaults are the per-category naming templates rendered when
// the resource-options sheet supplies none.
var flatNamingDefaults = map[string]string{
	"Resource_Group":           "rg-appname-env",
	"Subnet":                   "snet-appname-env",
	"Network_Security_Group":   "nsg-appname-env",
	"Application_Gateway":      "agw-appname-env",
	"Azure_Container_Registry": "acrappnameenv",
	"Storage_Account":          "stappnameenv",
}

// mergedNamingPatterns overlays harvested naming templates on the
// defaults, category by category.
func mergedNamingPatterns(overrides map[string]string) map[string]string {
	out := make(map[string]string, len(flatNamingDefaults))
	for k, v := range flatNamingDefaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// flatEmitter renders one monolithic resource file per concern.
type flatEmitter struct{}

func (e *flatEmitter) Render(data *synth.BuildData) (Bundle, Summary, error) {
	p := resolveProject(data.Project)
	machines := resolveMachines(data, p, flatDefaultSize)
	rules := resolveRules(data, p)

	bundle := Bundle{
		"main.tf":             e.mainTF(p, machines, rules, data),
		"variables.tf":        e.variablesTF(),
		"terraform.tfvars":    e.tfvars(p, rules, data.Naming),
		"outputs.tf":          e.outputsTF(machines),
		"provider.tf":         e.providerTF(),
		"README.md":           renderReadme(p, len(machines), ModeFlat),
		".gitignore":          gitignoreText,
		"scripts/validate.sh": renderValidateScript(p),
	}

	return bundle, summarize(data, ModeFlat, bundle), nil
}

func (e *flatEmitter) mainTF(p project, machines []machine, rules []rule, data *synth.BuildData) string {
	var b strings.Builder

	b.WriteString(`# Main configuration

resource "azurerm_resource_group" "main" {
  name     = "rg-${var.project_name}-${var.environment}"
  location = var.location

  tags = {
    Project     = var.project_name
    Application = var.application_name
    Environment = var.environment
    Owner       = var.app_owner
  }
}

resource "azurerm_virtual_network" "main" {
  name                = "vnet-${var.project_name}-${var.environment}"
  address_space       = ["10.0.0.0/16"]
  location            = azurerm_resource_group.main.location
  resource_group_name = azurerm_resource_group.main.name

  tags = azurerm_resource_group.main.tags
}

resource "azurerm_subnet" "main" {
  name                 = "subnet-${var.project_name}-${var.environment}"
  resource_group_name  = azurerm_resource_group.main.name
  virtual_network_name = azurerm_virtual_network.main.name
  address_prefixes     = ["10.0.1.0/24"]
}

resource "azurerm_network_security_group" "main" {
  name                = "nsg-${var.project_name}-${var.environment}"
  location            = azurerm_resource_group.main.location
  resource_group_name = azurerm_resource_group.main.name

  tags = azurerm_resource_group.main.tags
}
`)

	for i, r := range rules {
		resourceName := strings.ReplaceAll(r.Name, "-", "_")
		fmt.Fprintf(&b, `
resource "azurerm_network_security_rule" "%s" {
  name                        = var.nsg_rules[%d].name
  priority                    = var.nsg_rules[%d].priority
  direction                   = var.nsg_rules[%d].direction
  access                      = var.nsg_rules[%d].access
  protocol                    = var.nsg_rules[%d].protocol
  source_port_range           = var.nsg_rules[%d].source_port_range
  destination_port_range      = var.nsg_rules[%d].destination_port_range
  source_address_prefix       = "*"
  destination_address_prefix  = "*"
  resource_group_name         = azurerm_resource_group.main.name
  network_security_group_name = azurerm_network_security_group.main.name
}
`, resourceName, i, i, i, i, i, i, i)
	}

	b.WriteString(fmt.Sprintf(`
resource "azurerm_storage_account" "main" {
  name                     = %q
  resource_group_name      = azurerm_resource_group.main.name
  location                 = azurerm_resource_group.main.location
  account_tier             = "Standard"
  account_replication_type = "LRS"

  tags = azurerm_resource_group.main.tags
}
`, storageAccountName(p)))

	if len(data.Gateway) > 0 {
		fmt.Fprintf(&b, `
resource "azurerm_public_ip" "appgw" {
  name                = "pip-appgw-%s-%s"
  resource_group_name = azurerm_resource_group.main.name
  location            = azurerm_resource_group.main.location
  allocation_method   = "Static"
  sku                 = "Standard"
}
`, p.AppSlug, p.EnvSlug)
	}

	if len(data.Registry) > 0 {
		fmt.Fprintf(&b, `
resource "azurerm_container_registry" "main" {
  name                = %q
  resource_group_name = azurerm_resource_group.main.name
  location            = azurerm_resource_group.main.location
  sku                 = "Standard"
  admin_enabled       = false
}
`, registryName(p))
	}

	for _, m := range machines {
		resourceName := strings.ReplaceAll(m.Name, "-", "_")
		publisher, offer, sku, version := splitImageURN(m.ImageURN)
		fmt.Fprintf(&b, `
resource "azurerm_network_interface" "nic_%s" {
  name                = "nic-%s"
  location            = azurerm_resource_group.main.location
  resource_group_name = azurerm_resource_group.main.name

  ip_configuration {
    name                          = "internal"
    subnet_id                     = azurerm_subnet.main.id
    private_ip_address_allocation = %q
  }
}

resource "azurerm_virtual_machine" "%s" {
  name                  = %q
  location              = azurerm_resource_group.main.location
  resource_group_name   = azurerm_resource_group.main.name
  network_interface_ids = [azurerm_network_interface.nic_%s.id]
  vm_size               = %q

  storage_image_reference {
    publisher = %q
    offer     = %q
    sku       = %q
    version   = %q
  }

  storage_os_disk {
    name              = "osdisk-%s"
    caching           = "ReadWrite"
    create_option     = "FromImage"
    disk_size_gb      = %d
    managed_disk_type = %q
  }

  tags = {
    Role       = %q
    PatchOptin = %q
    SnowItem   = %q
  }
}
`, resourceName, m.Name, m.IPAllocation, resourceName, m.Name, resourceName,
			m.Size, publisher, offer, sku, version,
			m.Name, m.OSDiskSize, m.OSDiskType, m.Role, m.PatchOptIn, m.Ticket)
	}

	return b.String()
}

func (e *flatEmitter) variablesTF() string {
	return `# Variable declarations

variable "project_name" {
  type        = string
  description = "Project name used in resource naming"
}

variable "application_name" {
  type        = string
  description = "Application name used in resource naming"
}

variable "environment" {
  type        = string
  default     = "dev"
  description = "Deployment environment"
}

variable "location" {
  type        = string
  default     = "East US"
  description = "Azure region"
}

variable "app_owner" {
  type        = string
  default     = "TBD"
  description = "Application owner"
}

variable "admin_username" {
  type        = string
  default     = "azureuser"
  description = "Administrator user name"
}

variable "admin_password" {
  type        = string
  default     = null
  sensitive   = true
  description = "Administrator password"
}

variable "resource_naming_patterns" {
  type        = map(string)
  default     = {}
  description = "Naming templates per resource category"
}

variable "nsg_rules" {
  type = list(object({
    name                   = string
    priority               = number
    direction              = string
    access                 = string
    protocol               = string
    source_port_range      = string
    destination_port_range = string
  }))
  default     = []
  description = "Network security rules extracted from the build request"
}
`
}

func (e *flatEmitter) tfvars(p project, rules []rule, naming map[string]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `# Variable values

project_name     = %q
application_name = %q
environment      = %q
location         = %q
app_owner        = %q

nsg_rules = [
`, p.Slug, p.AppSlug, p.EnvSlug, flatDefaultLocation, p.Owner)

	for _, r := range rules {
		fmt.Fprintf(&b, `  {
    name                   = %q
    priority               = %d
    direction              = %q
    access                 = %q
    protocol               = %q
    source_port_range      = %q
    destination_port_range = %q
  },
`, r.Name, r.Priority, r.Direction, r.Access, r.Protocol, r.SourcePort, r.DestPorts[0])
	}

	b.WriteString("]\n")

	b.WriteString("\nresource_naming_patterns = {\n")
	patterns := mergedNamingPatterns(naming)
	for _, k := range sortedKeys(patterns) {
		fmt.Fprintf(&b, "  %-24s = %q\n", k, patterns[k])
	}
	b.WriteString("}\n")

	return b.String()
}

func (e *flatEmitter) outputsTF(machines []machine) string {
	var b strings.Builder

	b.WriteString(`# Output declarations

output "resource_group_name" {
  value = azurerm_resource_group.main.name
}

output "virtual_network_name" {
  value = azurerm_virtual_network.main.name
}

output "vm_names" {
  value = [
`)
	for _, m := range machines {
		fmt.Fprintf(&b, "    azurerm_virtual_machine.%s.name,\n", strings.ReplaceAll(m.Name, "-", "_"))
	}
	b.WriteString(`  ]
}
`)
	return b.String()
}

func (e *flatEmitter) providerTF() string {
	return `terraform {
  required_version = ">=1.5"

  required_providers {
    azurerm = {
      source  = "hashicorp/azurerm"
      version = "~>4.14"
    }
  }
}

provider "azurerm" {
  features {}
}
`
}

// storageAccountName derives a storage-account-safe name: the vendor
// forbids hyphens there and caps length at 24.
func storageAccountName(p project) string {
	s := strings.ReplaceAll(p.AppSlug+p.EnvSlug, "-", "")
	s = "st" + s
	if len(s) > 24 {
		s = s[:24]
	}
	return s
}

func registryName(p project) string {
	s := strings.ReplaceAll(p.AppSlug+p.EnvSlug, "-", "")
	s = "acr" + s
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}
