package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/fixsweep/pkg/patch"
	"github.com/yaklabco/fixsweep/pkg/runner"
)

// writeFile creates a file under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// compilePlan compiles ops against dir, failing the test on any error.
func compilePlan(t *testing.T, dir string, ops ...patch.Op) *patch.CompiledPlan {
	t.Helper()
	cp, err := patch.Compile(patch.Plan{Ops: ops}, patch.CompileOptions{WorkingDir: dir})
	if err != nil {
		t.Fatalf("compile plan: %v", err)
	}
	return cp
}

func mustRunner(t *testing.T, opts runner.Options) *runner.Runner {
	t.Helper()
	r, err := runner.New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := mustRunner(t, runner.Options{WorkingDir: t.TempDir()})

	if r.Pipeline == nil {
		t.Error("Pipeline not set")
	}
}

func TestRunner_Run_EmptyPlan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := mustRunner(t, runner.Options{WorkingDir: dir})

	result, err := r.Run(context.Background(), &patch.CompiledPlan{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Files) != 0 {
		t.Errorf("len(Files) = %d, want 0", len(result.Files))
	}
	if result.Stats.OpsTotal() != 0 {
		t.Errorf("OpsTotal() = %d, want 0", result.Stats.OpsTotal())
	}
	if result.HasFailures() {
		t.Error("HasFailures() should be false for an empty plan")
	}
}

func TestRunner_Run_SingleTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "app.ts", "const port = 3000\n")

	plan := compilePlan(t, dir, patch.Op{
		Kind:    patch.KindLiteral,
		Target:  "app.ts",
		Find:    "3000",
		Replace: "8080",
	})
	r := mustRunner(t, runner.Options{WorkingDir: dir})

	result, err := r.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesExamined != 1 {
		t.Errorf("FilesExamined = %d, want 1", result.Stats.FilesExamined)
	}
	if result.Stats.FilesModified != 1 {
		t.Errorf("FilesModified = %d, want 1", result.Stats.FilesModified)
	}
	if result.Stats.OpsApplied != 1 {
		t.Errorf("OpsApplied = %d, want 1", result.Stats.OpsApplied)
	}
	if result.Stats.Replaced != 1 {
		t.Errorf("Replaced = %d, want 1", result.Stats.Replaced)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(content) != "const port = 8080\n" {
		t.Errorf("content = %q, want replacement applied", content)
	}
}

func TestRunner_Run_MultipleTargets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	names := []string{"a.ts", "b.ts", "c.ts", "d.ts", "e.ts"}
	ops := make([]patch.Op, 0, len(names))
	for _, name := range names {
		writeFile(t, dir, name, "value = old\n")
		ops = append(ops, patch.Op{
			Kind:    patch.KindLiteral,
			Target:  name,
			Find:    "old",
			Replace: "new",
		})
	}

	plan := compilePlan(t, dir, ops...)
	r := mustRunner(t, runner.Options{WorkingDir: dir, Jobs: 4})

	result, err := r.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesExamined != len(names) {
		t.Errorf("FilesExamined = %d, want %d", result.Stats.FilesExamined, len(names))
	}
	if result.Stats.FilesModified != len(names) {
		t.Errorf("FilesModified = %d, want %d", result.Stats.FilesModified, len(names))
	}

	// Outcomes must come back in plan order regardless of worker timing.
	if len(result.Files) != len(names) {
		t.Fatalf("len(Files) = %d, want %d", len(result.Files), len(names))
	}
	for i, name := range names {
		want := filepath.Join(dir, name)
		if result.Files[i].Path != want {
			t.Errorf("Files[%d].Path = %q, want %q", i, result.Files[i].Path, want)
		}
	}
}

func TestRunner_Run_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fileCount := 20
	ops := make([]patch.Op, 0, fileCount)
	for idx := range fileCount {
		name := string(rune('a'+idx%26)) + string(rune('0'+idx/26)) + ".ts"
		writeFile(t, dir, name, "left = right\n")
		ops = append(ops, patch.Op{
			Kind:    patch.KindLiteral,
			Target:  name,
			Find:    "right",
			Replace: "wrong",
		})
	}
	plan := compilePlan(t, dir, ops...)

	// Dry-run keeps the inputs identical between the two runs.
	ctx := context.Background()
	serial := mustRunner(t, runner.Options{WorkingDir: dir, Jobs: 1, DryRun: true})
	parallel := mustRunner(t, runner.Options{WorkingDir: dir, Jobs: 8, DryRun: true})

	resultSerial, err := serial.Run(ctx, plan)
	if err != nil {
		t.Fatalf("Run(serial) error = %v", err)
	}
	resultParallel, err := parallel.Run(ctx, plan)
	if err != nil {
		t.Fatalf("Run(parallel) error = %v", err)
	}

	if resultSerial.Stats != resultParallel.Stats {
		t.Errorf("stats mismatch: serial=%+v, parallel=%+v",
			resultSerial.Stats, resultParallel.Stats)
	}

	if len(resultSerial.Files) != len(resultParallel.Files) {
		t.Fatalf("file count mismatch: serial=%d, parallel=%d",
			len(resultSerial.Files), len(resultParallel.Files))
	}
	for i := range resultSerial.Files {
		if resultSerial.Files[i].Path != resultParallel.Files[i].Path {
			t.Errorf("Files[%d] path mismatch: serial=%s, parallel=%s",
				i, resultSerial.Files[i].Path, resultParallel.Files[i].Path)
		}
	}
}

func TestRunner_Run_MissingFileContained(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "present.ts", "keep = old\n")

	plan := compilePlan(t, dir,
		patch.Op{Kind: patch.KindLiteral, Target: "absent.ts", Find: "a", Replace: "b"},
		patch.Op{Kind: patch.KindLiteral, Target: "present.ts", Find: "old", Replace: "new"},
	)
	r := mustRunner(t, runner.Options{WorkingDir: dir})

	result, err := r.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesSkipped != 1 {
		t.Errorf("FilesSkipped = %d, want 1", result.Stats.FilesSkipped)
	}
	if result.Stats.OpsSkipped != 1 {
		t.Errorf("OpsSkipped = %d, want 1", result.Stats.OpsSkipped)
	}
	if result.Stats.FilesModified != 1 {
		t.Errorf("FilesModified = %d, want 1", result.Stats.FilesModified)
	}
	if result.HasFailures() {
		t.Error("a missing file is a skip, not a failure")
	}

	// Op accounting still sums to the plan's op count.
	if result.Stats.OpsTotal() != plan.OpCount() {
		t.Errorf("OpsTotal() = %d, want %d", result.Stats.OpsTotal(), plan.OpCount())
	}
}

func TestRunner_Run_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	original := "const port = 3000\n"
	path := writeFile(t, dir, "app.ts", original)

	plan := compilePlan(t, dir, patch.Op{
		Kind:    patch.KindLiteral,
		Target:  "app.ts",
		Find:    "3000",
		Replace: "8080",
	})
	r := mustRunner(t, runner.Options{WorkingDir: dir, DryRun: true})

	result, err := r.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Dry-run counts what would change.
	if result.Stats.FilesModified != 1 {
		t.Errorf("FilesModified = %d, want 1", result.Stats.FilesModified)
	}
	if result.Stats.OpsApplied != 1 {
		t.Errorf("OpsApplied = %d, want 1", result.Stats.OpsApplied)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(content) != original {
		t.Errorf("file was modified in dry-run mode: got %q, want %q", content, original)
	}

	if len(result.Files) != 1 {
		t.Fatalf("expected 1 file outcome")
	}
	if result.Files[0].Result == nil || result.Files[0].Result.Diff == nil {
		t.Error("expected diff in dry-run mode")
	}
}

func TestRunner_Run_InsertStats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "mod.ts", "alpha\nbeta\ngamma\n")

	plan := compilePlan(t, dir,
		patch.Op{Kind: patch.KindInsert, Target: "mod.ts", Line: 3, Text: "//@ts-expect-error"},
		patch.Op{Kind: patch.KindInsert, Target: "mod.ts", Line: 1, Text: "//@ts-expect-error"},
	)
	r := mustRunner(t, runner.Options{WorkingDir: dir})

	result, err := r.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.Inserted != 2 {
		t.Errorf("Inserted = %d, want 2", result.Stats.Inserted)
	}
	if result.Stats.Replaced != 0 {
		t.Errorf("Replaced = %d, want 0", result.Stats.Replaced)
	}
}

func TestRunner_Run_NoopSecondPass(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "app.ts", "const port = 3000\n")

	plan := compilePlan(t, dir, patch.Op{
		Kind:    patch.KindLiteral,
		Target:  "app.ts",
		Find:    "3000",
		Replace: "8080",
	})
	r := mustRunner(t, runner.Options{WorkingDir: dir})

	ctx := context.Background()
	if _, err := r.Run(ctx, plan); err != nil {
		t.Fatalf("Run() first pass error = %v", err)
	}

	second, err := r.Run(ctx, plan)
	if err != nil {
		t.Fatalf("Run() second pass error = %v", err)
	}

	if second.Stats.FilesModified != 0 {
		t.Errorf("second pass FilesModified = %d, want 0", second.Stats.FilesModified)
	}
	if second.Stats.OpsNoop != 1 {
		t.Errorf("second pass OpsNoop = %d, want 1", second.Stats.OpsNoop)
	}
	if second.HasChanges() {
		t.Error("second pass HasChanges() should be false")
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ops := make([]patch.Op, 0, 10)
	for idx := range 10 {
		name := string(rune('a'+idx)) + ".ts"
		writeFile(t, dir, name, "x = 1\n")
		ops = append(ops, patch.Op{Kind: patch.KindLiteral, Target: name, Find: "1", Replace: "2"})
	}
	plan := compilePlan(t, dir, ops...)
	r := mustRunner(t, runner.Options{WorkingDir: dir})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately.

	_, err := r.Run(ctx, plan)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestResult_HasFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *runner.Result
		want   bool
	}{
		{
			name:   "nil result",
			result: nil,
			want:   false,
		},
		{
			name: "skips are not failures",
			result: &runner.Result{
				Stats: runner.Stats{FilesSkipped: 3, OpsSkipped: 7},
			},
			want: false,
		},
		{
			name: "errored file",
			result: &runner.Result{
				Stats: runner.Stats{FilesErrored: 1},
			},
			want: true,
		},
		{
			name: "run-level error",
			result: &runner.Result{
				Errors: []error{os.ErrPermission},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.result.HasFailures()
			if got != tt.want {
				t.Errorf("HasFailures() = %v, want %v", got, tt.want)
			}
		})
	}
}
