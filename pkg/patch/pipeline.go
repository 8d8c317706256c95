package patch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/fixsweep/pkg/edit"
	"github.com/yaklabco/fixsweep/pkg/fsutil"
	"github.com/yaklabco/fixsweep/pkg/textdetect"
	"github.com/yaklabco/fixsweep/pkg/vcs"
)

// Pipeline error types for categorization.
var (
	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrWriteFailure indicates the file could not be written or renamed.
	ErrWriteFailure = errors.New("write failure")
)

// PipelineResult contains the result of processing a single file.
type PipelineResult struct {
	// Path is the file path that was processed.
	Path string

	// OpResults holds one result per operation, in plan order.
	OpResults []OpResult

	// OriginalInfo is the file state before processing (nil for files the
	// run created).
	OriginalInfo *fsutil.FileInfo

	// Created is true if the file did not exist and a write op made it.
	Created bool

	// Modified is true if the file content was changed in memory.
	Modified bool

	// ModifiedContent is the new content (nil if not modified).
	ModifiedContent []byte

	// Diff is the unified diff for dry-run mode (nil otherwise).
	Diff *edit.Diff

	// Skipped is true if the whole file was skipped.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a sidecar backup was created.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool

	// Renamed is true if the file was renamed; RenamedTo holds the new
	// path.
	Renamed   bool
	RenamedTo string
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Renamed:
		return "renamed to " + pr.RenamedTo
	case pr.Written && pr.Created:
		return "created"
	case pr.Written && pr.BackupCreated:
		return "patched (backup created)"
	case pr.Written:
		return "patched"
	case pr.Modified:
		return "changes pending"
	default:
		return "unchanged"
	}
}

// PipelineOptions controls pipeline behavior.
type PipelineOptions struct {
	// DryRun generates diffs without writing files.
	DryRun bool

	// Backup configures backup behavior. Mode auto consults the
	// repository: only files git does not already protect get a sidecar
	// backup.
	Backup fsutil.BackupConfig

	// RequireClean refuses to patch files with uncommitted changes.
	RequireClean bool

	// StrictRaceDetection uses hash comparison for modification detection.
	// When false, only mod time and size are checked.
	StrictRaceDetection bool

	// Repo is the enclosing repository, nil when there is none.
	Repo *vcs.Repo
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
	}
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	Opts PipelineOptions
}

// NewPipeline creates a pipeline with the given options.
func NewPipeline(opts PipelineOptions) *Pipeline {
	return &Pipeline{Opts: opts}
}

// ProcessTarget runs the full pipeline for one file of a compiled plan.
//
// The pipeline performs the following steps:
//  1. Read and hash the original file. A missing file skips every op for
//     it; the run continues.
//  2. Guard: binary content and, under require-clean, files the
//     repository reports as dirty or untracked are skipped whole.
//  3. Apply the step list in order; each step sees the previous step's
//     output. Line numbers inside an insertion pass all refer to the
//     content that pass started from.
//  4. Compare with the original; identical content is never rewritten.
//  5. Generate diff and stop (dry-run mode).
//  6. Check for concurrent modifications against the state read in 1.
//  7. Create a backup per policy, then write atomically.
//
// Rename targets bypass the content steps entirely.
func (p *Pipeline) ProcessTarget(ctx context.Context, tp *TargetPlan) (*PipelineResult, error) {
	result := &PipelineResult{Path: tp.Path}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	if len(tp.Steps) == 1 && tp.Steps[0].Kind == KindRename {
		return p.processRename(tp, result)
	}

	creates := len(tp.Steps) > 0 && tp.Steps[0].Kind == KindWrite

	originalContent, info, err := fsutil.ReadFile(ctx, tp.Path)
	switch {
	case err == nil:
		result.OriginalInfo = info
	case errors.Is(err, fsutil.ErrNotFound) && creates:
		result.Created = true
		originalContent = nil
	case errors.Is(err, fsutil.ErrNotFound):
		return skipAll(tp, result, "file not found"), nil
	default:
		return nil, categorizeError(err)
	}

	if !result.Created && textdetect.IsBinary(originalContent) {
		return skipAll(tp, result, "binary file"), nil
	}

	if p.Opts.RequireClean && !result.Created {
		if p.Opts.Repo == nil {
			return skipAll(tp, result, "require-clean: not under version control"), nil
		}
		state, err := p.Opts.Repo.FileState(tp.Path)
		if err != nil {
			return nil, fmt.Errorf("check vcs state: %w", err)
		}
		switch state {
		case vcs.StateDirty:
			return skipAll(tp, result, "require-clean: uncommitted changes"), nil
		case vcs.StateUntracked:
			return skipAll(tp, result, "require-clean: untracked file"), nil
		}
	}

	eol := textdetect.EOLUnix
	if !result.Created {
		eol = textdetect.DetectEOL(originalContent)
	}

	content, opResults, err := applySteps(originalContent, tp.Steps, eol, result.Created)
	result.OpResults = opResults
	if err != nil {
		return nil, err
	}

	result.Modified = result.Created || !bytes.Equal(content, originalContent)
	result.ModifiedContent = content

	if !result.Modified {
		result.ModifiedContent = nil
		return result, nil
	}

	if p.Opts.DryRun {
		result.Diff = edit.GenerateDiff(tp.Path, originalContent, content)
		return result, nil
	}

	if !result.Created {
		modified, err := p.checkModified(ctx, result.OriginalInfo)
		if err != nil {
			return nil, err
		}
		if modified {
			result.Skipped = true
			result.SkipReason = "file modified during processing"
			return result, nil
		}
	}

	needBackup, err := p.resolveBackup(tp.Path, result.Created)
	if err != nil {
		return nil, err
	}
	if needBackup {
		created, err := fsutil.CreateBackup(ctx, tp.Path, p.Opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	mode := os.FileMode(0o644)
	if result.OriginalInfo != nil {
		mode = result.OriginalInfo.Mode
	}
	if result.Created {
		if err := os.MkdirAll(filepath.Dir(tp.Path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteFailure, err)
		}
	}
	if err := fsutil.WriteAtomic(ctx, tp.Path, content, mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent applies a target's steps to in-memory content without any
// file I/O. Useful for tests and previews.
func (p *Pipeline) ProcessContent(path string, originalContent []byte, steps []Step) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}

	eol := textdetect.DetectEOL(originalContent)
	content, opResults, err := applySteps(originalContent, steps, eol, false)
	result.OpResults = opResults
	if err != nil {
		return nil, err
	}

	result.Modified = !bytes.Equal(content, originalContent)
	result.ModifiedContent = content
	if !result.Modified {
		result.ModifiedContent = nil
		return result, nil
	}

	if p.Opts.DryRun {
		result.Diff = edit.GenerateDiff(path, originalContent, content)
	}

	return result, nil
}

// processRename handles a rename-only target. Content is untouched, so the
// atomic-write and backup machinery does not apply.
func (p *Pipeline) processRename(tp *TargetPlan, result *PipelineResult) (*PipelineResult, error) {
	op := tp.Steps[0].Ops[0]

	if !fsutil.FileExists(tp.Path) {
		return skipAll(tp, result, "file not found"), nil
	}
	if _, err := os.Stat(op.To); err == nil {
		return skipAll(tp, result, "destination already exists"), nil
	}

	result.Modified = true
	result.OpResults = []OpResult{applied(op, 1)}

	if p.Opts.DryRun {
		return result, nil
	}

	if err := os.Rename(tp.Path, op.To); err != nil {
		return nil, fmt.Errorf("%w: rename: %v", ErrWriteFailure, err)
	}
	result.Renamed = true
	result.RenamedTo = op.To

	return result, nil
}

// applySteps runs the step list over content. Each step computes its edits
// against the content the previous step produced, and a step's edits are
// spliced in one pass. isNew marks content for a file that does not exist
// yet; it only affects a leading write step.
func applySteps(content []byte, steps []Step, eol string, isNew bool) ([]byte, []OpResult, error) {
	var results []OpResult

	for i, step := range steps {
		var (
			edits       []edit.TextEdit
			stepResults []OpResult
		)

		switch step.Kind {
		case KindLiteral:
			e, r := applyLiteral(content, step.Ops[0])
			edits, stepResults = e, []OpResult{r}
		case KindRegex:
			e, r := applyRegex(content, step.Ops[0], step.re)
			edits, stepResults = e, []OpResult{r}
		case KindInsert:
			edits, stepResults = applyInserts(content, step.Ops, eol)
		case KindAppend:
			e, r := applyAppend(content, step.Ops[0], eol)
			edits, stepResults = e, []OpResult{r}
		case KindWrite:
			e, r := applyWrite(content, step.Ops[0], isNew && i == 0)
			edits, stepResults = e, []OpResult{r}
		default:
			return nil, nil, fmt.Errorf("unsupported step kind %q", step.Kind)
		}

		results = append(results, stepResults...)
		if len(edits) == 0 {
			continue
		}

		prepared, err := edit.PrepareEdits(edits, len(content))
		if err != nil {
			return nil, nil, fmt.Errorf("prepare %s edits: %w", step.Kind, err)
		}
		content = edit.ApplyEdits(content, prepared)
	}

	return content, results, nil
}

// skipAll marks the whole file skipped and fans the reason out to every
// operation, so each op still yields exactly one result.
func skipAll(tp *TargetPlan, result *PipelineResult, reason string) *PipelineResult {
	result.Skipped = true
	result.SkipReason = reason

	ops := tp.Ops()
	result.OpResults = make([]OpResult, len(ops))
	for i, op := range ops {
		result.OpResults[i] = skipped(op, reason)
	}
	return result
}

// resolveBackup decides whether this write needs a sidecar backup.
func (p *Pipeline) resolveBackup(path string, created bool) (bool, error) {
	if created || !p.Opts.Backup.Enabled {
		return false, nil
	}
	switch p.Opts.Backup.Mode {
	case fsutil.BackupModeNone:
		return false, nil
	case fsutil.BackupModeAuto:
		state, err := p.Opts.Repo.FileState(path)
		if err != nil {
			return false, fmt.Errorf("check vcs state: %w", err)
		}
		return state != vcs.StateClean, nil
	default:
		return true, nil
	}
}

// checkModified checks if a file has been modified since it was read.
func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo) (bool, error) {
	var modified bool
	var err error

	if p.Opts.StrictRaceDetection {
		modified, err = fsutil.CheckModified(ctx, info)
	} else {
		modified, err = fsutil.CheckModifiedQuick(ctx, info)
	}

	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
// It uses errors.Is for robust error detection rather than string matching.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrWriteFailure) ||
		errors.Is(err, ErrPlanInvalid)
}
