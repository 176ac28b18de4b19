package terraform

import (
	"fmt"
	"strings"

	"github.com/42shotfirst/Build-Ticket-Automation/pkg/synth"
)

const (
	modularDefaultLocation = "WEST US 3"
	modularDefaultSize     = "Standard_B2s_v2"

	baseVMModuleSource = "app.terraform.io/cis-cloud/basevm/azurerm"
)

// modularEmitter renders a module-call file per machine plus per-concern
// resource files. Every machine attribute flows through vm_list so the
// consuming module contract stays data-driven.
type modularEmitter struct{}

func (e *modularEmitter) Render(data *synth.BuildData) (Bundle, Summary, error) {
	p := resolveProject(data.Project)
	machines := resolveMachines(data, p, modularDefaultSize)
	rules := resolveRules(data, p)
	location := envSetting(data.Env, "location", modularDefaultLocation)

	bundle := Bundle{
		"m-basevm.tf":         e.baseVMTF(),
		"r-rg.tf":             e.resourceGroupTF(),
		"r-asg.tf":            e.asgTF(),
		"r-snet.tf":           e.subnetTF(),
		"r-nsr.tf":            e.nsrTF(),
		"r-kvlt.tf":           e.keyVaultTF(p),
		"r-umid.tf":           e.identityTF(),
		"r-dsk.tf":            e.diskTF(),
		"r-pe.tf":             e.privateEndpointTF(),
		"variables.tf":        e.variablesTF(),
		"terraform.tfvars":    e.tfvars(p, machines, rules, location),
		"outputs.tf":          e.outputsTF(),
		"versions.tf":         e.versionsTF(),
		"data.tf":             e.dataTF(),
		"locals.tf":           e.localsTF(),
		"README.md":           renderReadme(p, len(machines), ModeModular),
		".gitignore":          gitignoreText,
		"scripts/validate.sh": renderValidateScript(p),
	}

	return bundle, summarize(data, ModeModular, bundle), nil
}

func (e *modularEmitter) baseVMTF() string {
	return fmt.Sprintf(`# Base VM module calls, one invocation per entry in vm_list.

module "basevm" {
  source   = %q
  for_each = var.vm_list

  vm_name             = each.key
  vm_size             = each.value.size
  os_kind             = each.value.os_kind
  os_image            = each.value.os_image
  os_disk_size_gb     = each.value.os_disk_size_gb
  os_disk_type        = each.value.os_disk_type
  ip_allocation       = each.value.ip_allocation
  patch_optin         = each.value.patch_optin
  role                = each.value.role

  location            = var.location
  resource_group_name = azurerm_resource_group.this.name
  subnet_id           = azurerm_subnet.this["app"].id
  admin_username      = var.admin_username
  identity_ids        = [azurerm_user_assigned_identity.this.id]

  tags = local.tags
}
`, baseVMModuleSource)
}

func (e *modularEmitter) resourceGroupTF() string {
	return `resource "azurerm_resource_group" "this" {
  name     = local.resource_group_name
  location = var.location

  tags = local.tags
}
`
}

func (e *modularEmitter) asgTF() string {
	return `resource "azurerm_application_security_group" "this" {
  for_each = toset(var.asg_names)

  name                = each.value
  location            = azurerm_resource_group.this.location
  resource_group_name = azurerm_resource_group.this.name

  tags = local.tags
}
`
}

func (e *modularEmitter) subnetTF() string {
	return `resource "azurerm_subnet" "this" {
  for_each = var.subnets

  name                 = each.value.name
  resource_group_name  = data.azurerm_virtual_network.this.resource_group_name
  virtual_network_name = data.azurerm_virtual_network.this.name
  address_prefixes     = each.value.address_prefixes
}

resource "azurerm_network_security_group" "this" {
  name                = local.nsg_name
  location            = azurerm_resource_group.this.location
  resource_group_name = azurerm_resource_group.this.name

  tags = local.tags
}

resource "azurerm_subnet_network_security_group_association" "this" {
  for_each = var.subnets

  subnet_id                 = azurerm_subnet.this[each.key].id
  network_security_group_id = azurerm_network_security_group.this.id
}
`
}

func (e *modularEmitter) nsrTF() string {
	return `resource "azurerm_network_security_rule" "this" {
  for_each = var.nsg_rules

  name                        = each.key
  priority                    = each.value.priority
  direction                   = each.value.direction
  access                      = each.value.access
  protocol                    = each.value.protocol
  source_port_range           = each.value.source_port_range
  destination_port_ranges     = each.value.destination_port_ranges
  source_address_prefix       = each.value.source
  destination_address_prefix  = each.value.destination
  description                 = each.value.description
  resource_group_name         = azurerm_resource_group.this.name
  network_security_group_name = azurerm_network_security_group.this.name
}
`
}

func (e *modularEmitter) keyVaultTF(p project) string {
	return fmt.Sprintf(`resource "azurerm_key_vault" "this" {
  name                       = %q
  location                   = azurerm_resource_group.this.location
  resource_group_name        = azurerm_resource_group.this.name
  tenant_id                  = data.azurerm_client_config.current.tenant_id
  sku_name                   = "standard"
  purge_protection_enabled   = true
  soft_delete_retention_days = 90

  tags = local.tags
}
`, keyVaultName(p))
}

func (e *modularEmitter) identityTF() string {
	return `resource "azurerm_user_assigned_identity" "this" {
  name                = local.identity_name
  location            = azurerm_resource_group.this.location
  resource_group_name = azurerm_resource_group.this.name

  tags = local.tags
}
`
}

func (e *modularEmitter) diskTF() string {
	return `resource "azurerm_managed_disk" "data" {
  for_each = local.data_disks

  name                 = each.key
  location             = azurerm_resource_group.this.location
  resource_group_name  = azurerm_resource_group.this.name
  storage_account_type = each.value.type
  create_option        = "Empty"
  disk_size_gb         = each.value.size_gb

  tags = local.tags
}
`
}

func (e *modularEmitter) privateEndpointTF() string {
	return `resource "azurerm_private_endpoint" "this" {
  for_each = var.private_endpoints

  name                = each.key
  location            = azurerm_resource_group.this.location
  resource_group_name = azurerm_resource_group.this.name
  subnet_id           = azurerm_subnet.this[each.value.subnet_key].id

  private_service_connection {
    name                           = "${each.key}-psc"
    private_connection_resource_id = each.value.resource_id
    subresource_names              = each.value.subresources
    is_manual_connection           = false
  }

  tags = local.tags
}
`
}

func (e *modularEmitter) variablesTF() string {
	return `# Variable declarations. Every variable here either has a default or a
# value in terraform.tfvars.

variable "project_name" {
  type        = string
  description = "Project name used in derived resource names"
}

variable "application_name" {
  type        = string
  description = "Application name used in derived resource names"
}

variable "environment" {
  type        = string
  description = "Deployment environment"
}

variable "location" {
  type        = string
  description = "Azure region"
}

variable "vnet_name" {
  type        = string
  description = "Existing virtual network to attach subnets to"
}

variable "vnet_resource_group" {
  type        = string
  description = "Resource group containing the virtual network"
}

variable "admin_username" {
  type        = string
  default     = "cisadmin"
  description = "Administrator user name for machines"
}

variable "vm_list" {
  type = map(object({
    size            = string
    os_kind         = string
    os_image        = string
    os_disk_size_gb = number
    os_disk_type    = string
    ip_allocation   = string
    patch_optin     = string
    role            = string
  }))
  description = "Machines to build, keyed by machine name"
}

variable "subnets" {
  type = map(object({
    name             = string
    address_prefixes = list(string)
  }))
  description = "Subnets to create in the existing virtual network"
}

variable "asg_names" {
  type        = list(string)
  default     = []
  description = "Application security group names"
}

variable "nsg_rules" {
  type = map(object({
    priority                = number
    direction               = string
    access                  = string
    protocol                = string
    source_port_range       = string
    destination_port_ranges = list(string)
    source                  = string
    destination             = string
    description             = string
  }))
  default     = {}
  description = "Network security rules keyed by rule name"
}

variable "private_endpoints" {
  type = map(object({
    subnet_key   = string
    resource_id  = string
    subresources = list(string)
  }))
  default     = {}
  description = "Private endpoints keyed by endpoint name"
}

variable "common_tags" {
  type        = map(string)
  default     = {}
  description = "Tags merged onto every resource"
}
`
}

func (e *modularEmitter) tfvars(p project, machines []machine, rules []rule, location string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `# Variable values generated from the build request workbook.

project_name        = %q
application_name    = %q
environment         = %q
location            = %q
vnet_name           = "vnet-%s-%s"
vnet_resource_group = "rg-network-%s"

vm_list = {
`, p.Slug, p.AppSlug, p.EnvSlug, location, p.AppSlug, p.EnvSlug, p.EnvSlug)

	for _, m := range machines {
		fmt.Fprintf(&b, `  %q = {
    size            = %q
    os_kind         = %q
    os_image        = %q
    os_disk_size_gb = %d
    os_disk_type    = %q
    ip_allocation   = %q
    patch_optin     = %q
    role            = %q
  }
`, m.Name, m.Size, m.OSKind, m.ImageURN, m.OSDiskSize, m.OSDiskType,
			m.IPAllocation, m.PatchOptIn, m.Role)
	}
	b.WriteString("}\n")

	fmt.Fprintf(&b, `
subnets = {
  "app" = {
    name             = "snet-%s-%s-app"
    address_prefixes = ["10.0.1.0/24"]
  }
  "pe" = {
    name             = "snet-%s-%s-pe"
    address_prefixes = ["10.0.2.0/24"]
  }
}

asg_names = [%q]
`, p.AppSlug, p.EnvSlug, p.AppSlug, p.EnvSlug, fmt.Sprintf("asg-%s-%s", p.AppSlug, p.EnvSlug))

	b.WriteString("\nnsg_rules = {\n")
	for _, r := range rules {
		fmt.Fprintf(&b, `  %q = {
    priority                = %d
    direction               = %q
    access                  = %q
    protocol                = %q
    source_port_range       = %q
    destination_port_ranges = %s
    source                  = %q
    destination             = %q
    description             = %q
  }
`, r.Name, r.Priority, r.Direction, r.Access, r.Protocol,
			r.SourcePort, quoteList(r.DestPorts), "*", "*", r.Description)
	}
	b.WriteString("}\n")

	b.WriteString("\nprivate_endpoints = {\n")
	fmt.Fprintf(&b, `  "pe-kvlt-%s-%s" = {
    subnet_key   = "pe"
    resource_id  = "TBD"
    subresources = ["vault"]
  }
`, p.AppSlug, p.EnvSlug)
	b.WriteString("}\n")

	b.WriteString("\ncommon_tags = {\n")
	tags := map[string]string{
		"Project":     p.Name,
		"Application": p.App,
		"Environment": p.Env,
		"Owner":       p.Owner,
		"Tier":        p.Tier,
		"SnowItem":    p.Ticket,
	}
	for _, k := range sortedKeys(tags) {
		fmt.Fprintf(&b, "  %-11s = %q\n", k, tags[k])
	}
	b.WriteString("}\n")

	return b.String()
}

func (e *modularEmitter) outputsTF() string {
	return `output "resource_group_name" {
  value = azurerm_resource_group.this.name
}

output "vm_ids" {
  value = { for name, m in module.basevm : name => m.vm_id }
}

output "key_vault_uri" {
  value = azurerm_key_vault.this.vault_uri
}

output "identity_principal_id" {
  value = azurerm_user_assigned_identity.this.principal_id
}
`
}

func (e *modularEmitter) versionsTF() string {
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
  features {
    key_vault {
      purge_soft_delete_on_destroy = false
    }
  }
}
`
}

func (e *modularEmitter) dataTF() string {
	return `data "azurerm_client_config" "current" {}

data "azurerm_virtual_network" "this" {
  name                = var.vnet_name
  resource_group_name = var.vnet_resource_group
}
`
}

func (e *modularEmitter) localsTF() string {
	return `locals {
  name_suffix         = "${var.application_name}-${var.environment}"
  resource_group_name = "rg-${local.name_suffix}"
  nsg_name            = "nsg-${local.name_suffix}"
  identity_name       = "umid-${local.name_suffix}"

  # One standard data disk per machine.
  data_disks = {
    for name, m in var.vm_list : "dsk-${name}-data" => {
      type    = m.os_disk_type
      size_gb = m.os_disk_size_gb
    }
  }

  tags = merge(var.common_tags, {
    ManagedBy = "terraform"
  })
}
`
}

// envSetting returns the first build-environment value whose field name
// contains keyword, walking fields in sorted order; the fallback applies
// when the sheet supplies nothing.
func envSetting(env map[string]string, keyword, fallback string) string {
	for _, k := range sortedKeys(env) {
		if !strings.Contains(strings.ToLower(k), keyword) {
			continue
		}
		if v := strings.TrimSpace(env[k]); v != "" {
			return v
		}
	}
	return fallback
}

// keyVaultName derives a vault-safe name: alphanumerics and hyphens,
// capped at 24 characters.
func keyVaultName(p project) string {
	s := "kvlt-" + p.AppSlug + "-" + p.EnvSlug
	if len(s) > 24 {
		s = strings.TrimRight(s[:24], "-")
	}
	return s
}
