package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/fixsweep/internal/ui/pretty"
	"github.com/yaklabco/fixsweep/pkg/patch"
	"github.com/yaklabco/fixsweep/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to patch."))
		}
		return 0, nil
	}

	var applied int

	if r.opts.GroupByFile {
		applied = r.reportGrouped(ctx, result)
	} else {
		applied = r.reportFlat(ctx, result)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return applied, nil
}

// reportGrouped writes op results grouped by file.
func (r *TextReporter) reportGrouped(_ context.Context, result *runner.Result) int {
	var applied int

	for _, file := range result.Files {
		// Handle file errors
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if file.Result == nil {
			continue
		}

		results := file.Result.OpResults
		if !hasReportableOutcome(results) {
			continue
		}

		// File header
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(file.Path, len(results)))

		for i := range results {
			fmt.Fprint(r.bw, r.styles.FormatOpResult(&results[i]))
			if results[i].Outcome == patch.OutcomeApplied {
				applied++
			}
		}

		// Blank line between files
		fmt.Fprintln(r.bw)
	}

	return applied
}

// reportFlat writes one status line per file without per-op detail.
func (r *TextReporter) reportFlat(_ context.Context, result *runner.Result) int {
	var applied int

	for _, file := range result.Files {
		// Handle file errors
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(file.Path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if file.Result == nil {
			continue
		}

		res := file.Result
		var failed bool
		for i := range res.OpResults {
			switch res.OpResults[i].Outcome {
			case patch.OutcomeApplied:
				applied++
			case patch.OutcomeError:
				failed = true
			}
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileStatus(file.Path, res.Summary(), res.Modified, failed))
	}

	return applied
}

// hasReportableOutcome reports whether any op did something worth showing.
// Files where every op was a noop stay quiet; the summary line accounts
// for them.
func hasReportableOutcome(results []patch.OpResult) bool {
	for i := range results {
		if results[i].Outcome != patch.OutcomeNoop {
			return true
		}
	}
	return false
}
