package runner

import "github.com/yaklabco/fixsweep/pkg/patch"

// FileOutcome wraps PipelineResult with resolved path metadata.
type FileOutcome struct {
	// Path is the target path that was processed.
	Path string

	// PlannedOps is the number of operations the plan holds for this
	// target. It keeps op accounting exact for targets that fail before
	// producing per-op results.
	PlannedOps int

	// Result contains the pipeline result for this target.
	// May be nil if the target encountered an error during processing.
	Result *patch.PipelineResult

	// Error is set if the target could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesExamined is the number of targets processed without a hard error.
	FilesExamined int

	// FilesModified is the number of files changed (or, in dry-run mode,
	// that would change).
	FilesModified int

	// FilesSkipped is the number of files skipped whole, with a reason.
	FilesSkipped int

	// FilesErrored is the number of targets that hit a hard error.
	FilesErrored int

	// OpsApplied is the number of operations that changed content.
	OpsApplied int

	// OpsNoop is the number of operations that found nothing to change.
	OpsNoop int

	// OpsSkipped is the number of operations skipped by a precondition.
	OpsSkipped int

	// OpsErrored is the number of operations lost to hard errors.
	OpsErrored int

	// Inserted is the total number of lines inserted.
	Inserted int

	// Replaced is the total number of replacements made.
	Replaced int
}

// OpsTotal returns the number of operations accounted for.
func (s Stats) OpsTotal() int {
	return s.OpsApplied + s.OpsNoop + s.OpsSkipped + s.OpsErrored
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each target.
	// Targets appear in compiled-plan order regardless of which worker
	// finished first.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasFailures reports whether any target hit a hard error.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || len(r.Errors) > 0
}

// HasChanges reports whether any operation changed (or would change) content.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.OpsApplied > 0
}

// accumulate updates the result with a target outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		r.Stats.OpsErrored += outcome.PlannedOps
		return
	}

	if outcome.Result == nil {
		return
	}

	r.Stats.FilesExamined++

	switch {
	case outcome.Result.Skipped:
		r.Stats.FilesSkipped++
	case outcome.Result.Modified:
		r.Stats.FilesModified++
	}

	for _, opResult := range outcome.Result.OpResults {
		switch opResult.Outcome {
		case patch.OutcomeApplied:
			r.Stats.OpsApplied++
			switch opResult.Op.Kind {
			case patch.KindInsert:
				r.Stats.Inserted += opResult.Occurrences
			case patch.KindLiteral, patch.KindRegex:
				r.Stats.Replaced += opResult.Occurrences
			}
		case patch.OutcomeNoop:
			r.Stats.OpsNoop++
		case patch.OutcomeSkipped:
			r.Stats.OpsSkipped++
		case patch.OutcomeError:
			r.Stats.OpsErrored++
		}
	}
}
