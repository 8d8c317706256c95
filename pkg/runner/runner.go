package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/yaklabco/fixsweep/pkg/patch"
	"github.com/yaklabco/fixsweep/pkg/vcs"
)

// Runner orchestrates multi-target patching using a patch.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing with safety guarantees.
	Pipeline *patch.Pipeline

	opts Options
}

// New creates a Runner whose pipeline is configured from opts. The
// enclosing repository is opened once, and only when backup policy or the
// require-clean gate will consult it.
func New(opts Options) (*Runner, error) {
	pipelineOpts := patch.PipelineOptions{
		DryRun:              opts.DryRun,
		Backup:              opts.Backup,
		RequireClean:        opts.RequireClean,
		StrictRaceDetection: true,
	}

	if opts.needsRepo() {
		repo, err := vcs.Open(opts.WorkingDir)
		if err != nil {
			return nil, fmt.Errorf("detect repository: %w", err)
		}
		pipelineOpts.Repo = repo
	}

	return &Runner{
		Pipeline: patch.NewPipeline(pipelineOpts),
		opts:     opts,
	}, nil
}

// Run processes every target of the compiled plan and aggregates the
// outcomes. It returns a deterministic collection of FileOutcome values and
// aggregate stats.
//
// The runner:
//   - Processes targets concurrently using a worker pool
//   - Aggregates results into a single Result with statistics
//   - Contains per-file failures: one target erroring never stops the rest
//   - Respects context cancellation
func (r *Runner) Run(ctx context.Context, plan *patch.CompiledPlan) (*Result, error) {
	result := &Result{
		Files: make([]FileOutcome, 0, len(plan.Targets)),
	}

	if len(plan.Targets) == 0 {
		return result, nil
	}

	jobs := r.opts.effectiveJobs(len(plan.Targets))

	// Create channels.
	workCh := make(chan *patch.TargetPlan)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	// Start workers.
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh)
		}()
	}

	// Feed work in a separate goroutine.
	go func() {
		defer close(workCh)
		for _, target := range plan.Targets {
			select {
			case <-ctx.Done():
				return
			case workCh <- target:
			}
		}
	}()

	// Close outCh when all workers are done.
	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Collect results.
	// Use a map to maintain order since workers may complete out of order.
	outcomes := make(map[string]FileOutcome, len(plan.Targets))

	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	// Build result in deterministic plan order.
	for _, target := range plan.Targets {
		if outcome, ok := outcomes[target.Path]; ok {
			result.accumulate(outcome)
		}
	}

	// Check for context error.
	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// worker processes targets from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan *patch.TargetPlan,
	outCh chan<- FileOutcome,
) {
	for target := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := FileOutcome{
			Path:       target.Path,
			PlannedOps: target.OpCount(),
		}

		pr, err := r.Pipeline.ProcessTarget(ctx, target)
		if err != nil {
			outcome.Error = err
		} else {
			outcome.Result = pr
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
