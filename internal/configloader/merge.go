package configloader

import "github.com/yaklabco/fixsweep/pkg/config"

// merge layers override on top of base and returns the combined config.
// Scalars win when non-zero, slices and pointers win when non-nil, and a
// true boolean in any layer sticks: false is the zero value, so a layer
// cannot unset a boolean a lower layer enabled.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	takeNonZero(&result.Format, override.Format)
	takeNonZero(&result.Jobs, override.Jobs)
	takeNonZero(&result.PlanPath, override.PlanPath)

	if override.Checker.Command != nil {
		result.Checker.Command = override.Checker.Command
	}
	takeNonZero(&result.Checker.Dir, override.Checker.Dir)
	takeNonZero(&result.Checker.TimeoutSeconds, override.Checker.TimeoutSeconds)

	takeNonZero(&result.Suppression.Marker, override.Suppression.Marker)
	if override.Suppression.MatchIndent != nil {
		result.Suppression.MatchIndent = override.Suppression.MatchIndent
	}
	if override.Suppression.Include != nil {
		result.Suppression.Include = override.Suppression.Include
	}

	result.DryRun = result.DryRun || override.DryRun
	result.NoBackups = result.NoBackups || override.NoBackups
	result.RequireClean = result.RequireClean || override.RequireClean
	result.Backups.Enabled = result.Backups.Enabled || override.Backups.Enabled

	takeNonZero(&result.Backups.Mode, override.Backups.Mode)

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

// takeNonZero copies value into dst unless value is the zero value.
func takeNonZero[T comparable](dst *T, value T) {
	var zero T
	if value != zero {
		*dst = value
	}
}
