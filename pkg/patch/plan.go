package patch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"

	"github.com/yaklabco/fixsweep/pkg/checker"
)

// ErrPlanInvalid indicates a plan that cannot be compiled: bad op shape,
// invalid pattern or glob, or an illegal op combination. Nothing on disk
// has been touched when Compile returns it.
var ErrPlanInvalid = errors.New("invalid plan")

// Plan is an ordered list of operations, either loaded from a plan file or
// built from checker diagnostics.
type Plan struct {
	Ops []Op
}

// Step is one pass over a file's content. Contiguous insert operations for
// the same target collapse into a single step so their line numbers are
// all interpreted against the same content.
type Step struct {
	Kind Kind
	Ops  []Op

	re *regexp.Regexp
}

// TargetPlan is the ordered step list for one file.
type TargetPlan struct {
	Path  string
	Steps []Step
}

// Ops returns every operation for this target in step order.
func (tp *TargetPlan) Ops() []Op {
	var ops []Op
	for _, s := range tp.Steps {
		ops = append(ops, s.Ops...)
	}
	return ops
}

// OpCount returns the number of operations for this target.
func (tp *TargetPlan) OpCount() int {
	n := 0
	for _, s := range tp.Steps {
		n += len(s.Ops)
	}
	return n
}

func (tp *TargetPlan) addOp(op Op, re *regexp.Regexp) {
	if op.Kind == KindInsert {
		if n := len(tp.Steps); n > 0 && tp.Steps[n-1].Kind == KindInsert {
			tp.Steps[n-1].Ops = append(tp.Steps[n-1].Ops, op)
			return
		}
	}
	tp.Steps = append(tp.Steps, Step{Kind: op.Kind, Ops: []Op{op}, re: re})
}

func (tp *TargetPlan) validateSteps() error {
	for _, s := range tp.Steps {
		if s.Kind == KindRename && len(tp.Steps) > 1 {
			return errors.New("rename must be the only operation for its target")
		}
	}
	return nil
}

// CompiledPlan is a plan resolved against the working tree: globs expanded,
// patterns compiled, operations grouped per file in plan order.
type CompiledPlan struct {
	Targets []*TargetPlan

	// Warnings records non-fatal oddities, like globs that matched
	// nothing.
	Warnings []string
}

// OpCount returns the total number of per-file operations.
func (cp *CompiledPlan) OpCount() int {
	n := 0
	for _, tp := range cp.Targets {
		n += tp.OpCount()
	}
	return n
}

// CountByKind returns per-kind operation counts.
func (cp *CompiledPlan) CountByKind() map[Kind]int {
	var ops []Op
	for _, tp := range cp.Targets {
		ops = append(ops, tp.Ops()...)
	}
	return lo.CountValuesBy(ops, func(op Op) Kind { return op.Kind })
}

// CompileOptions controls how a plan resolves against the filesystem.
type CompileOptions struct {
	// WorkingDir is the base for relative targets and glob expansion.
	// Empty means the current directory.
	WorkingDir string

	// Ignore patterns exclude files from glob expansion. Explicitly named
	// targets are never filtered: naming a path in a plan overrides the
	// ignore list.
	Ignore []string
}

// Compile validates a plan and resolves it into per-file step lists.
//
// Validation is all-or-nothing and runs before any file is touched: an
// invalid pattern in op 40 fails the whole plan rather than surfacing
// halfway through a run. An empty plan compiles to zero targets, which the
// runner reports as a successful run of zero operations.
func Compile(plan Plan, opts CompileOptions) (*CompiledPlan, error) {
	cp := &CompiledPlan{}
	byPath := make(map[string]*TargetPlan)

	for i, op := range plan.Ops {
		if err := op.Validate(); err != nil {
			return nil, fmt.Errorf("%w: op %d: %v", ErrPlanInvalid, i+1, err)
		}

		var re *regexp.Regexp
		if op.Kind == KindRegex {
			var err error
			re, err = regexp.Compile(op.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: op %d: pattern: %v", ErrPlanInvalid, i+1, err)
			}
		}

		if op.Kind == KindRename {
			op.To = resolvePath(opts.WorkingDir, op.To)
		}

		targets, err := expandTarget(op, i, opts)
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			cp.Warnings = append(cp.Warnings, fmt.Sprintf("op %d: glob %q matched no files", i+1, op.Target))
			continue
		}

		for _, target := range targets {
			path := resolvePath(opts.WorkingDir, target)
			tp := byPath[path]
			if tp == nil {
				tp = &TargetPlan{Path: path}
				byPath[path] = tp
				cp.Targets = append(cp.Targets, tp)
			}
			tp.addOp(op, re)
		}
	}

	for _, tp := range cp.Targets {
		if err := tp.validateSteps(); err != nil {
			return nil, fmt.Errorf("%w: target %s: %v", ErrPlanInvalid, tp.Path, err)
		}
	}

	return cp, nil
}

// isGlob reports whether target contains glob metacharacters.
func isGlob(target string) bool {
	return strings.ContainsAny(target, "*?[{")
}

// expandTarget resolves an op's target to concrete relative paths. Globs
// are only legal for content-rewriting ops whose semantics do not depend
// on a specific file: line numbers, new files and renames all need exact
// paths.
func expandTarget(op Op, idx int, opts CompileOptions) ([]string, error) {
	if !isGlob(op.Target) {
		return []string{op.Target}, nil
	}

	switch op.Kind {
	case KindLiteral, KindRegex, KindAppend:
	default:
		return nil, fmt.Errorf("%w: op %d: %s ops need a concrete path, not a glob", ErrPlanInvalid, idx+1, op.Kind)
	}

	workdir := opts.WorkingDir
	if workdir == "" {
		workdir = "."
	}

	pattern := filepath.ToSlash(op.Target)
	matches, err := doublestar.Glob(os.DirFS(workdir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("%w: op %d: glob %q: %v", ErrPlanInvalid, idx+1, op.Target, err)
	}
	sort.Strings(matches)

	return lo.Filter(matches, func(m string, _ int) bool {
		return !isIgnored(m, opts.Ignore)
	}), nil
}

// isIgnored reports whether a slash-relative path matches any ignore
// pattern.
func isIgnored(path string, ignore []string) bool {
	for _, pattern := range ignore {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// resolvePath joins a plan-relative target with the working directory.
func resolvePath(workdir, target string) string {
	p := filepath.FromSlash(target)
	if workdir == "" || filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(workdir, p)
}

// BuildSuppressionPlan turns checker diagnostics into insert operations:
// one suppression line before each distinct (file, line) pair. Files keep
// their first-appearance order; lines within a file are deduplicated and
// emitted ascending. Line numbers always come from the diagnostics just
// parsed, never from an earlier run.
func BuildSuppressionPlan(diags []checker.Diagnostic, marker string, matchIndent bool) Plan {
	byFile := lo.GroupBy(diags, func(d checker.Diagnostic) string { return d.Path })

	order := lo.Uniq(lo.Map(diags, func(d checker.Diagnostic, _ int) string { return d.Path }))

	mi := matchIndent
	var ops []Op
	for _, path := range order {
		lines := lo.Uniq(lo.Map(byFile[path], func(d checker.Diagnostic, _ int) int { return d.Line }))
		sort.Ints(lines)
		for _, line := range lines {
			ops = append(ops, Op{
				Kind:        KindInsert,
				Target:      path,
				Line:        line,
				Text:        marker,
				MatchIndent: &mi,
			})
		}
	}

	return Plan{Ops: ops}
}
