package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every config key with its documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate(), nil
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(`# fixsweep configuration
# See: https://github.com/yaklabco/fixsweep

# External checker whose diagnostics drive 'fixsweep suppress'
checker:
  command: [npx, tsc, --noEmit]

# Suppression line inserted above each diagnostic
suppression:
  marker: "//@ts-expect-error"

# File patterns excluded from glob targets
# ignore:
#   - "node_modules/**"
#   - "dist/**"

# Number of parallel workers
# jobs: 1

# Refuse to patch files with uncommitted changes
# require_clean: false

# Backups for patched files: sidecar, none, or auto
# (auto backs up only files git does not already protect)
# backups:
#   enabled: true
#   mode: auto
`)

	return buf.Bytes()
}

// generateFullTemplate creates a template with every key documented.
func generateFullTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(`# fixsweep configuration - Full Template
# See: https://github.com/yaklabco/fixsweep
#
# Every setting is listed with its default value.

# External checker whose diagnostics drive 'fixsweep suppress'.
# Diagnostics must look like: path(line,col): message
checker:
  # Checker argv (not passed through a shell)
  command: [npx, tsc, --noEmit]
  # Working directory for the checker (empty = current)
  dir: ""
  # Kill the checker after this many seconds (0 = default, 10 minutes)
  timeout_seconds: 600

# How diagnostics become inserted suppression lines
suppression:
  # The line inserted above each diagnostic
  marker: "//@ts-expect-error"
  # Copy the target line's indentation onto the marker
  match_indent: true
  # Only suppress diagnostics whose path matches one of these globs
  # (empty = all diagnostics)
  include: []

# File patterns excluded from glob target expansion.
# Paths named explicitly in a plan are never ignored.
ignore:
  - "node_modules/**"

# Backups for patched files
backups:
  enabled: false
  # sidecar: always write <file>.fixsweep.bak
  # none:    never
  # auto:    only for files git does not already protect
  mode: auto

# Refuse to patch files with uncommitted changes
require_clean: false

# Number of parallel workers (0 falls back to 1)
jobs: 1

# Output format: text, table, json, diff, or summary
format: text
`)

	return buf.Bytes()
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON() ([]byte, error) {
	cfg := map[string]any{
		"checker": map[string]any{
			"command":         []string{"npx", "tsc", "--noEmit"},
			"dir":             "",
			"timeout_seconds": 600,
		},
		"suppression": map[string]any{
			"marker":       "//@ts-expect-error",
			"match_indent": true,
			"include":      []string{},
		},
		"ignore": []string{"node_modules/**"},
		"backups": map[string]any{
			"enabled": false,
			"mode":    "auto",
		},
		"require_clean": false,
		"jobs":          1,
		"format":        "text",
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}
