package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/fixsweep/internal/ui/pretty"
	"github.com/yaklabco/fixsweep/pkg/analysis"
	"github.com/yaklabco/fixsweep/pkg/config"
)

// Table layout constants for summary output.
// Both tables use the same width for visual consistency.
const (
	tableWidth         = 90 // Width of table separators (same for both tables).
	kindColWidth       = 12 // Width of the op kind column.
	fileColWidth       = 60 // Width of the file path column (wider for relative paths).
	numColWidth        = 7  // Width of numeric columns.
	appliedColWidth    = 8  // Width of the applied column.
	skipColWidth       = 8  // Width of the skipped column.
	changedColWidth    = 8  // Width of the changed column.
	maxFilePathLength  = 58 // Maximum characters for file path before truncation.
	totalPartsCapacity = 2  // Expected number of parts in total summary line.
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats results as aggregated summary tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Ops == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No operations performed"))
		return nil
	}

	// Determine order
	if r.opts.SummaryOrder == config.SummaryOrderFiles {
		r.renderFileTable(report.ByFile)
		fmt.Fprintln(r.out)
		r.renderKindTable(report.ByKind)
	} else {
		r.renderKindTable(report.ByKind)
		fmt.Fprintln(r.out)
		r.renderFileTable(report.ByFile)
	}

	if len(report.Failures) > 0 {
		fmt.Fprintln(r.out)
		r.renderFailures(report.Failures)
	}

	fmt.Fprintln(r.out)
	r.renderTotals(report.Totals)

	return nil
}

func (r *SummaryRenderer) renderKindTable(kinds []analysis.KindAnalysis) {
	if len(kinds) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Kinds Summary"))
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("Kind", kindColWidth)),
		r.styles.TableHeader.Render(padLeft("Ops", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Applied", appliedColWidth)),
		r.styles.TableHeader.Render(padLeft("Skipped", skipColWidth)),
		r.styles.TableHeader.Render(padLeft("Failed", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Changed", changedColWidth)),
	)
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Rows
	for _, kind := range kinds {
		// Pad first, then style
		paddedName := padRight(kind.Kind, kindColWidth)
		var styledName string
		switch {
		case kind.Errored > 0:
			styledName = r.styles.TableErrorRow.Render(paddedName)
		case kind.Skipped > 0:
			styledName = r.styles.TableSkipRow.Render(paddedName)
		default:
			styledName = paddedName
		}

		changed := padLeft("", changedColWidth)
		if kind.Changed {
			changed = r.styles.Success.Render(padLeft("✓", changedColWidth))
		}

		fmt.Fprintf(r.out, "%s %s %s %s %s %s\n",
			styledName,
			padLeft(strconv.Itoa(kind.Ops), numColWidth),
			padLeft(strconv.Itoa(kind.Applied), appliedColWidth),
			padLeft(strconv.Itoa(kind.Skipped), skipColWidth),
			padLeft(strconv.Itoa(kind.Errored), numColWidth),
			changed,
		)
	}
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Ops", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Applied", appliedColWidth)),
		r.styles.TableHeader.Render(padLeft("Skipped", skipColWidth)),
		r.styles.TableHeader.Render(padLeft("Failed", numColWidth)),
	)
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))

	// Rows
	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		// Pad first, then style
		paddedPath := padRight(path, fileColWidth)
		var styledPath string
		switch {
		case file.Errored > 0:
			styledPath = r.styles.TableErrorRow.Render(paddedPath)
		case file.Skipped > 0:
			styledPath = r.styles.TableSkipRow.Render(paddedPath)
		default:
			styledPath = paddedPath
		}

		fmt.Fprintf(r.out, "%s %s %s %s %s\n",
			styledPath,
			padLeft(strconv.Itoa(file.Ops), numColWidth),
			padLeft(strconv.Itoa(file.Applied), appliedColWidth),
			padLeft(strconv.Itoa(file.Skipped), skipColWidth),
			padLeft(strconv.Itoa(file.Errored), numColWidth),
		)
	}
}

func (r *SummaryRenderer) renderFailures(failures []analysis.FailureEntry) {
	fmt.Fprintln(r.out, r.styles.Bold.Render("Failures"))
	for _, failure := range failures {
		fmt.Fprintf(r.out, "%s: %s\n",
			r.styles.FilePath.Render(failure.FilePath),
			r.styles.Error.Render(failure.Error),
		)
	}
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	parts := make([]string, 0, totalPartsCapacity)

	// Total ops
	opWord := "ops"
	if totals.Ops == 1 {
		opWord = "op"
	}
	parts = append(parts, fmt.Sprintf("%d %s", totals.Ops, opWord))

	// Outcome breakdown
	var outcomeParts []string
	if totals.Applied > 0 {
		outcomeParts = append(outcomeParts, r.styles.Applied.Render(fmt.Sprintf("%d applied", totals.Applied)))
	}
	if totals.Skipped > 0 {
		outcomeParts = append(outcomeParts, r.styles.Skipped.Render(fmt.Sprintf("%d skipped", totals.Skipped)))
	}
	if totals.Errored > 0 {
		outcomeParts = append(outcomeParts, r.styles.Error.Render(fmt.Sprintf("%d failed", totals.Errored)))
	}
	if len(outcomeParts) > 0 {
		parts[0] = fmt.Sprintf("%d %s (%s)", totals.Ops, opWord, strings.Join(outcomeParts, ", "))
	}

	// Files examined
	fileWord := "files"
	if totals.Files == 1 {
		fileWord = "file"
	}
	parts = append(parts, fmt.Sprintf("in %d %s", totals.Files, fileWord))

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+strings.Join(parts, " "))
}
