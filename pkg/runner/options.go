// Package runner provides multi-file patch orchestration.
package runner

import "github.com/yaklabco/fixsweep/pkg/fsutil"

// Options controls multi-file patch runs.
type Options struct {
	// WorkingDir is the base directory for the run. The enclosing
	// repository, when one is needed, is detected from here.
	WorkingDir string

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means 1: patch runs are sequential unless asked
	// otherwise.
	Jobs int

	// DryRun generates diffs without writing files.
	DryRun bool

	// Backup configures backup behavior for patched files.
	Backup fsutil.BackupConfig

	// RequireClean refuses to patch files with uncommitted changes.
	RequireClean bool
}

// effectiveJobs returns the worker count to use, clamped to targets.
func (o Options) effectiveJobs(targets int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	if jobs > targets {
		jobs = targets
	}
	return jobs
}

// needsRepo reports whether this run consults version-control state.
func (o Options) needsRepo() bool {
	if o.RequireClean {
		return true
	}
	return o.Backup.Enabled && o.Backup.Mode == fsutil.BackupModeAuto
}
