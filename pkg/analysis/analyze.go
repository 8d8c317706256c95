package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/yaklabco/fixsweep/pkg/patch"
	"github.com/yaklabco/fixsweep/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	kindMap   map[string]*KindAnalysis
	fileMap   map[string]*FileAnalysis
	kindFiles map[string]map[string]bool
	fileKinds map[string]map[string]bool
}

// newAnalysisContext creates a new analysis context.
func newAnalysisContext() *analysisContext {
	return &analysisContext{
		kindMap:   make(map[string]*KindAnalysis),
		fileMap:   make(map[string]*FileAnalysis),
		kindFiles: make(map[string]map[string]bool),
		fileKinds: make(map[string]map[string]bool),
	}
}

// incrementOutcomeCounts updates counts based on outcome.
func incrementOutcomeCounts(outcome patch.Outcome, totals *Totals, fa *FileAnalysis) {
	switch outcome {
	case patch.OutcomeApplied:
		totals.Applied++
		fa.Applied++
	case patch.OutcomeNoop:
		totals.Noops++
		fa.Noops++
	case patch.OutcomeSkipped:
		totals.Skipped++
		fa.Skipped++
	case patch.OutcomeError:
		totals.Errored++
		fa.Errored++
	}
}

// incrementKindOutcome updates kind analysis outcome counts.
func incrementKindOutcome(outcome patch.Outcome, ka *KindAnalysis) {
	switch outcome {
	case patch.OutcomeApplied:
		ka.Applied++
	case patch.OutcomeNoop:
		ka.Noops++
	case patch.OutcomeSkipped:
		ka.Skipped++
	case patch.OutcomeError:
		ka.Errored++
	}
}

// getOrCreateFileAnalysis returns existing or creates new FileAnalysis.
func (ctx *analysisContext) getOrCreateFileAnalysis(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileKinds[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

// getOrCreateKindAnalysis returns existing or creates new KindAnalysis.
func (ctx *analysisContext) getOrCreateKindAnalysis(kind string) *KindAnalysis {
	if _, ok := ctx.kindMap[kind]; !ok {
		ctx.kindMap[kind] = &KindAnalysis{Kind: kind}
		ctx.kindFiles[kind] = make(map[string]bool)
	}
	return ctx.kindMap[kind]
}

// createOutcomeEntry builds an OutcomeEntry from an op result.
func createOutcomeEntry(path string, res *patch.OpResult) OutcomeEntry {
	return OutcomeEntry{
		FilePath:    path,
		Kind:        string(res.Op.Kind),
		Outcome:     res.Outcome.String(),
		Detail:      res.Op.Describe(),
		Reason:      res.Reason,
		Line:        res.Op.Line,
		Occurrences: res.Occurrences,
	}
}

// buildByKind constructs the ByKind slice from accumulated data.
func (ctx *analysisContext) buildByKind(opts Options) []KindAnalysis {
	result := make([]KindAnalysis, 0, len(ctx.kindMap))
	for kind, ka := range ctx.kindMap {
		for f := range ctx.kindFiles[kind] {
			ka.Files = append(ka.Files, f)
		}
		slices.Sort(ka.Files)
		result = append(result, *ka)
	}
	sortKindAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// buildByFile constructs the ByFile slice from accumulated data.
func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	var result []FileAnalysis
	for path, fa := range ctx.fileMap {
		if fa.Ops == 0 {
			continue
		}
		for k := range ctx.fileKinds[path] {
			fa.Kinds = append(fa.Kinds, k)
		}
		slices.Sort(fa.Kinds)
		result = append(result, *fa)
	}
	sortFileAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// Analyze transforms a runner.Result into a Report.
// It performs a single pass through op results to compute all views.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	ctx := newAnalysisContext()

	for _, file := range result.Files {
		report.Totals.Files++
		displayPath := makeRelativePath(file.Path, opts.WorkingDir)

		if file.Error != nil {
			// A hard failure produced no op results; account for the
			// planned ops so totals still sum to the plan's op count.
			report.Totals.FilesErrored++
			report.Totals.Ops += file.PlannedOps
			report.Totals.Errored += file.PlannedOps
			fa := ctx.getOrCreateFileAnalysis(displayPath)
			fa.Ops += file.PlannedOps
			fa.Errored += file.PlannedOps
			report.Failures = append(report.Failures, FailureEntry{
				FilePath: displayPath,
				Error:    file.Error.Error(),
			})
			continue
		}
		if file.Result == nil {
			continue
		}

		switch {
		case file.Result.Skipped:
			report.Totals.FilesSkipped++
		case file.Result.Modified:
			report.Totals.FilesModified++
		}

		fa := ctx.getOrCreateFileAnalysis(displayPath)

		for i := range file.Result.OpResults {
			res := &file.Result.OpResults[i]
			report.Totals.Ops++

			incrementOutcomeCounts(res.Outcome, &report.Totals, fa)

			fa.Ops++
			kind := string(res.Op.Kind)
			ctx.fileKinds[displayPath][kind] = true

			ka := ctx.getOrCreateKindAnalysis(kind)
			ka.Ops++
			incrementKindOutcome(res.Outcome, ka)
			if res.Outcome == patch.OutcomeApplied {
				ka.Changed = true
			}
			ctx.kindFiles[kind][displayPath] = true

			if opts.IncludeOutcomes {
				report.Outcomes = append(report.Outcomes, createOutcomeEntry(displayPath, res))
			}
		}
	}

	if opts.IncludeByKind {
		report.ByKind = ctx.buildByKind(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}

	return report
}

func sortKindAnalysis(kinds []KindAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(kinds, func(left, right KindAnalysis) int {
		switch sortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(left.Kind, right.Kind)
		case SortByOutcome:
			// Failures first, then skips, then op count (always descending)
			result := cmp.Compare(right.Errored, left.Errored)
			if result == 0 {
				result = cmp.Compare(right.Skipped, left.Skipped)
			}
			if result == 0 {
				result = cmp.Compare(right.Ops, left.Ops)
			}
			return result
		default: // SortByCount
			result := cmp.Compare(left.Ops, right.Ops)
			if desc {
				result = -result
			}
			// Tie-break by name so identical runs render identically
			if result == 0 {
				result = cmp.Compare(left.Kind, right.Kind)
			}
			return result
		}
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		switch sortBy {
		case SortByAlpha:
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(left.Path, right.Path)
		case SortByOutcome:
			// Failures first, then skips, then op count (always descending)
			result := cmp.Compare(right.Errored, left.Errored)
			if result == 0 {
				result = cmp.Compare(right.Skipped, left.Skipped)
			}
			if result == 0 {
				result = cmp.Compare(right.Ops, left.Ops)
			}
			return result
		default: // SortByCount
			result := cmp.Compare(left.Ops, right.Ops)
			if desc {
				result = -result
			}
			// Tie-break by name so identical runs render identically
			if result == 0 {
				result = cmp.Compare(left.Path, right.Path)
			}
			return result
		}
	})
}
