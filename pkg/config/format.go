package config

import (
	"fmt"
	"strings"
)

// Formats returns all supported output formats in display order.
func Formats() []OutputFormat {
	return []OutputFormat{FormatText, FormatTable, FormatJSON, FormatDiff, FormatSummary}
}

// ParseFormat resolves a format name to its OutputFormat value.
func ParseFormat(name string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats() {
		if f == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown format %q; must be one of: %s", name, FormatNames())
}

// FormatNames returns the supported format names as a comma-separated string
// for flag help and error messages.
func FormatNames() string {
	names := make([]string, len(Formats()))
	for i, f := range Formats() {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
