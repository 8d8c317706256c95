package configloader

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/fixsweep/pkg/config"
)

// ValidationError is one invalid configuration setting.
type ValidationError struct {
	// Field is the dotted path of the offending field.
	Field string

	// Value is what the field held.
	Value any

	// Message says what is wrong with it.
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationResult collects everything validation found.
type ValidationResult struct {
	// Errors are failures that prevent the config from loading.
	Errors []ValidationError

	// Warnings are findings worth surfacing but safe to run with.
	Warnings []ValidationError
}

// Valid reports whether the configuration can be used.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// AllMessages renders every error and warning as a labeled string.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: message})
}

// validFormats are the accepted output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var validFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatTable:   true,
	config.FormatJSON:    true,
	config.FormatDiff:    true,
	config.FormatSummary: true,
}

// validBackupModes are the accepted backup mode values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var validBackupModes = map[string]bool{
	"sidecar": true,
	"none":    true,
	"auto":    true,
}

// Validate checks cfg for out-of-range and malformed settings. A nil cfg
// validates clean.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Format != "" && !validFormats[cfg.Format] {
		result.addError("format", cfg.Format,
			fmt.Sprintf("invalid format %q; must be one of: %s", cfg.Format, config.FormatNames()))
	}

	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.Backups.Mode != "" && !validBackupModes[cfg.Backups.Mode] {
		result.addError("backups.mode", cfg.Backups.Mode,
			fmt.Sprintf("invalid backup mode %q; must be one of: sidecar, none, auto", cfg.Backups.Mode))
	}

	// A nil checker command falls back to the default; an explicitly
	// empty list leaves nothing to run.
	if cfg.Checker.Command != nil && len(cfg.Checker.Command) == 0 {
		result.addError("checker.command", cfg.Checker.Command, "checker command must not be empty")
	}

	if cfg.Checker.TimeoutSeconds < 0 {
		result.addError("checker.timeout_seconds", cfg.Checker.TimeoutSeconds,
			"timeout must be >= 0 (0 means no timeout)")
	}

	result.checkGlobs("ignore", cfg.Ignore)
	result.checkGlobs("suppression.include", cfg.Suppression.Include)

	return result
}

func (r *ValidationResult) checkGlobs(field string, patterns []string) {
	for i, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			r.addError(fmt.Sprintf("%s[%d]", field, i), pattern,
				fmt.Sprintf("invalid glob pattern %q", pattern))
		}
	}
}
