// Package logging provides structured logging for fixsweep built on
// charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldDryRun  = "dry_run"
	FieldJobs    = "jobs"
	FieldMarker  = "marker"
	FieldChecker = "checker"
	FieldPlan    = "plan"

	// Operation fields.
	FieldOp      = "op"
	FieldOps     = "ops"
	FieldKind    = "kind"
	FieldTarget  = "target"
	FieldLine    = "line"
	FieldAliases = "aliases"
	FieldSummary = "summary"

	// Statistics fields.
	FieldFilesExamined = "files_examined"
	FieldFilesModified = "files_modified"
	FieldFilesSkipped  = "files_skipped"
	FieldOpsApplied    = "ops_applied"
	FieldDiagnostics   = "diagnostics"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
