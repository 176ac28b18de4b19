package terraform

import (
	"regexp"
	"strings"
)

// maxResourceNameLen is the vendor limit on generated resource names.
const maxResourceNameLen = 60

// defaultResourceName substitutes for names that sanitize to nothing.
const defaultResourceName = "default-resource"

var (
	separatorRe  = regexp.MustCompile(`[\s_]+`)
	disallowedRe = regexp.MustCompile(`[^a-z0-9-]`)
	repeatRe     = regexp.MustCompile(`-+`)
)

// Sanitize normalizes free text into a resource-name-safe identifier:
// lowercase, whitespace and underscores become hyphens, disallowed
// characters are stripped, repeated hyphens collapse, leading/trailing
// hyphens are trimmed, and the result is truncated to the vendor limit.
// Sanitizing an already-sanitized name is a no-op.
func Sanitize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = separatorRe.ReplaceAllString(s, "-")
	s = disallowedRe.ReplaceAllString(s, "")
	s = repeatRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxResourceNameLen {
		s = strings.TrimRight(s[:maxResourceNameLen], "-")
	}
	if s == "" {
		return defaultResourceName
	}
	return s
}
