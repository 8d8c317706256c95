// Package config defines core configuration types for fixsweep.
// These types are pure data structures with no dependency on the loader.
package config

// CheckerConfig describes the external checker whose diagnostics drive
// suppression runs.
type CheckerConfig struct {
	// Command is the checker argv, e.g. ["npx", "tsc", "--noEmit"].
	Command []string `mapstructure:"command" yaml:"command"`

	// Dir is the working directory for the checker (empty = current).
	Dir string `mapstructure:"dir" yaml:"dir"`

	// TimeoutSeconds bounds the checker run. 0 means the built-in default.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// SuppressionConfig controls how diagnostics become inserted lines.
type SuppressionConfig struct {
	// Marker is the line inserted above each diagnostic.
	Marker string `mapstructure:"marker" yaml:"marker"`

	// MatchIndent copies the target line's indentation onto the marker.
	// Unset means true.
	MatchIndent *bool `mapstructure:"match_indent" yaml:"match_indent"`

	// Include restricts suppression to diagnostics whose path matches one
	// of these globs. Empty means all diagnostics.
	Include []string `mapstructure:"include" yaml:"include"`
}

// IndentMatching reports the effective MatchIndent value.
func (s SuppressionConfig) IndentMatching() bool {
	return s.MatchIndent == nil || *s.MatchIndent
}

// BackupsConfig controls backup behavior when patching files.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar", "none", "auto"
}

// OutputFormat specifies the output format for run results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// SummaryOrder controls the order of tables in summary output.
type SummaryOrder string

const (
	// SummaryOrderKinds shows the per-kind table first (default).
	SummaryOrderKinds SummaryOrder = "kinds"
	// SummaryOrderFiles shows the per-file table first.
	SummaryOrderFiles SummaryOrder = "files"
)

// IsValid returns true if the summary order is valid.
func (s SummaryOrder) IsValid() bool {
	switch s {
	case SummaryOrderKinds, SummaryOrderFiles:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for fixsweep.
type Config struct {
	// Checker configures the external checker for suppression runs.
	Checker CheckerConfig `mapstructure:"checker" yaml:"checker"`

	// Suppression configures diagnostic-driven marker insertion.
	Suppression SuppressionConfig `mapstructure:"suppression" yaml:"suppression"`

	// Ignore contains glob patterns excluded from glob target expansion.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Backups configures backup behavior when patching.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`

	// RequireClean refuses to patch files with uncommitted changes.
	RequireClean bool `mapstructure:"require_clean" yaml:"require_clean"`

	// Jobs is the number of parallel workers. 0 falls back to 1.
	Jobs int `mapstructure:"jobs" yaml:"jobs"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"format" yaml:"format"`

	// CLI-level options (not persisted to config files).

	// DryRun shows what would change without writing files.
	DryRun bool `mapstructure:"-" yaml:"-"`

	// NoBackups disables backup creation regardless of Backups.Enabled.
	NoBackups bool `mapstructure:"-" yaml:"-"`

	// PlanPath is the plan file given on the command line.
	PlanPath string `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Checker: CheckerConfig{
			Command:        []string{"npx", "tsc", "--noEmit"},
			TimeoutSeconds: 600,
		},
		Suppression: SuppressionConfig{
			Marker: "//@ts-expect-error",
		},
		Ignore: []string{"node_modules/**"},
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    "auto",
		},
		Jobs:   1,
		Format: FormatText,
	}
}
