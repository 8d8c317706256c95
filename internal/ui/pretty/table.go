package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/fixsweep/pkg/patch"
	"github.com/yaklabco/fixsweep/pkg/runner"
)

// Table formatting constants.
const (
	changedSymbol      = "+"
	tablePadding       = 2
	tableColumnCount   = 5 // FILE, OP, OUTCOME, DETAIL, CHANGED
	perFileColumnCount = 4 // OP, OUTCOME, DETAIL, CHANGED (no FILE column)
	changedColumnWidth = 3 // width for changed indicator column
	minFileWidth       = 20
	minOpWidth         = 7
	minOutcomeWidth    = 7
	minDetailWidth     = 35
	heavySeparator     = "="
	lightSeparator     = "-"
	defaultTermWidth   = 100
)

// TableRow represents a single row in the op result table.
type TableRow struct {
	File    string
	Op      string
	Outcome patch.Outcome
	Detail  string
	Changed bool
}

// TableFormatter formats op results as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FormatTable formats runner results as a styled table.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	// Collect all rows grouped by file
	fileGroups := t.collectRows(result)
	if len(fileGroups) == 0 {
		return ""
	}

	// Calculate column widths
	colWidths := t.calculateColumnWidths(fileGroups)

	var builder strings.Builder

	// Write header
	builder.WriteString(t.formatHeader(colWidths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(colWidths, heavySeparator))
	builder.WriteString("\n")

	// Write rows grouped by file
	isFirstGroup := true
	for _, group := range fileGroups {
		if !isFirstGroup {
			builder.WriteString(t.formatSeparator(colWidths, lightSeparator))
			builder.WriteString("\n")
		}
		isFirstGroup = false

		for _, row := range group {
			builder.WriteString(t.formatRow(row, colWidths))
			builder.WriteString("\n")
		}
	}

	// Write footer separator
	builder.WriteString(t.formatSeparator(colWidths, heavySeparator))
	builder.WriteString("\n")

	// Write legend
	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

// FormatFileTable formats a single file's op results as a standalone table.
func (t *TableFormatter) FormatFileTable(file runner.FileOutcome) string {
	if file.Result == nil || len(file.Result.OpResults) == 0 {
		return ""
	}

	// Collect rows for this file only
	results := file.Result.OpResults
	rows := make([]TableRow, 0, len(results))
	for i := range results {
		rows = append(rows, OpResultToTableRow(file.Path, &results[i]))
	}

	// Calculate column widths for this file (without FILE column since it's shown in header)
	colWidths := t.calculateColumnWidthsForRows(rows)

	var builder strings.Builder

	// Write header (simplified for per-file view - no FILE column needed)
	builder.WriteString(t.formatPerFileHeader(colWidths))
	builder.WriteString("\n")
	builder.WriteString(t.formatPerFileSeparator(colWidths, heavySeparator))
	builder.WriteString("\n")

	// Write rows
	for _, row := range rows {
		builder.WriteString(t.formatPerFileRow(row, colWidths))
		builder.WriteString("\n")
	}

	// Write footer separator
	builder.WriteString(t.formatPerFileSeparator(colWidths, heavySeparator))
	builder.WriteString("\n")

	// Write summary for this file
	builder.WriteString(t.formatFileSummary(rows))
	builder.WriteString("\n")

	return builder.String()
}

// calculateColumnWidthsForRows calculates widths for per-file table (no FILE column).
func (t *TableFormatter) calculateColumnWidthsForRows(rows []TableRow) perFileColumnWidths {
	widths := perFileColumnWidths{
		op:      minOpWidth,
		outcome: minOutcomeWidth,
		detail:  minDetailWidth,
	}

	for _, row := range rows {
		if len(row.Op) > widths.op {
			widths.op = len(row.Op)
		}
		if len(row.Outcome.String()) > widths.outcome {
			widths.outcome = len(row.Outcome.String())
		}
		if len(row.Detail) > widths.detail {
			widths.detail = len(row.Detail)
		}
	}

	// Constrain to terminal width (allowing more space for detail without FILE column)
	totalWidth := widths.op + widths.outcome + widths.detail + (tablePadding * perFileColumnCount) + changedColumnWidth
	if totalWidth > t.termWidth {
		excess := totalWidth - t.termWidth
		widths.detail = max(minDetailWidth, widths.detail-excess)
	}

	return widths
}

type perFileColumnWidths struct {
	op      int
	outcome int
	detail  int
}

// formatPerFileHeader formats the header for per-file tables.
func (t *TableFormatter) formatPerFileHeader(widths perFileColumnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s   ",
		widths.op, "OP",
		widths.outcome, "OUTCOME",
		widths.detail, "DETAIL",
	)
	return t.styles.TableHeader.Render(header)
}

// formatPerFileSeparator formats a separator line for per-file tables.
func (t *TableFormatter) formatPerFileSeparator(widths perFileColumnWidths, char string) string {
	totalWidth := widths.op + widths.outcome + widths.detail + (tablePadding * perFileColumnCount) + changedColumnWidth
	sep := strings.Repeat(char, totalWidth)
	return t.styles.TableSeparator.Render(sep)
}

// formatPerFileRow formats a single row in the per-file table.
func (t *TableFormatter) formatPerFileRow(row TableRow, widths perFileColumnWidths) string {
	op := truncateString(row.Op, widths.op)
	outcome := truncateString(row.Outcome.String(), widths.outcome)
	detail := truncateString(row.Detail, widths.detail)

	changed := " "
	if row.Changed {
		changed = t.styles.TableChanged.Render(changedSymbol)
	}

	content := fmt.Sprintf(" %-*s  %-*s  %-*s  %s",
		widths.op, op,
		widths.outcome, outcome,
		widths.detail, detail,
		changed,
	)

	rowStyle := t.getRowStyle(row.Outcome)
	return rowStyle.Render(content)
}

// formatFileSummary formats a summary line for a single file.
func (t *TableFormatter) formatFileSummary(rows []TableRow) string {
	var applied, noops, skips, errors int

	for _, row := range rows {
		switch row.Outcome {
		case patch.OutcomeApplied:
			applied++
		case patch.OutcomeNoop:
			noops++
		case patch.OutcomeSkipped:
			skips++
		case patch.OutcomeError:
			errors++
		}
	}

	var parts []string
	if applied > 0 {
		parts = append(parts, t.styles.Applied.Render(fmt.Sprintf("%d applied", applied)))
	}
	if noops > 0 {
		parts = append(parts, t.styles.Noop.Render(fmt.Sprintf("%d unchanged", noops)))
	}
	if skips > 0 {
		parts = append(parts, t.styles.Skipped.Render(fmt.Sprintf("%d skipped", skips)))
	}
	if errors > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d failed", errors)))
	}

	return " " + strings.Join(parts, " | ")
}

// collectRows collects op result rows grouped by file.
func (t *TableFormatter) collectRows(result *runner.Result) [][]TableRow {
	var groups [][]TableRow

	for _, file := range result.Files {
		if file.Result == nil {
			continue
		}

		results := file.Result.OpResults
		if len(results) == 0 {
			continue
		}

		rows := make([]TableRow, 0, len(results))
		for i := range results {
			rows = append(rows, OpResultToTableRow(file.Path, &results[i]))
		}

		groups = append(groups, rows)
	}

	return groups
}

// calculateColumnWidths determines optimal column widths based on content.
func (t *TableFormatter) calculateColumnWidths(groups [][]TableRow) columnWidths {
	widths := columnWidths{
		file:    minFileWidth,
		op:      minOpWidth,
		outcome: minOutcomeWidth,
		detail:  minDetailWidth,
	}

	// Scan all rows to find max widths
	for _, group := range groups {
		for _, row := range group {
			if len(row.File) > widths.file {
				widths.file = len(row.File)
			}
			if len(row.Op) > widths.op {
				widths.op = len(row.Op)
			}
			if len(row.Outcome.String()) > widths.outcome {
				widths.outcome = len(row.Outcome.String())
			}
			if len(row.Detail) > widths.detail {
				widths.detail = len(row.Detail)
			}
		}
	}

	// Constrain to terminal width
	totalWidth := t.calculateTotalWidth(widths)
	if totalWidth > t.termWidth {
		// Reduce detail width first
		excess := totalWidth - t.termWidth
		widths.detail = max(minDetailWidth, widths.detail-excess)

		// If still too wide, reduce file width
		totalWidth = t.calculateTotalWidth(widths)
		if totalWidth > t.termWidth {
			excess = totalWidth - t.termWidth
			widths.file = max(minFileWidth, widths.file-excess)
		}
	}

	return widths
}

type columnWidths struct {
	file    int
	op      int
	outcome int
	detail  int
}

// formatHeader formats the table header row.
func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s   ",
		widths.file, "FILE",
		widths.op, "OP",
		widths.outcome, "OUTCOME",
		widths.detail, "DETAIL",
	)
	return t.styles.TableHeader.Render(header)
}

// calculateTotalWidth calculates the total table width from column widths.
func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.file + widths.op + widths.outcome + widths.detail +
		(tablePadding * tableColumnCount) + changedColumnWidth
}

// formatSeparator formats a separator line.
func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	totalWidth := t.calculateTotalWidth(widths)
	sep := strings.Repeat(char, totalWidth)
	return t.styles.TableSeparator.Render(sep)
}

// formatRow formats a single table row with outcome-based styling.
func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	// Truncate fields if necessary - use special truncation for file paths
	file := truncateFilePath(row.File, widths.file)
	op := truncateString(row.Op, widths.op)
	outcome := truncateString(row.Outcome.String(), widths.outcome)
	detail := truncateString(row.Detail, widths.detail)

	// Build the row content
	changed := " "
	if row.Changed {
		changed = t.styles.TableChanged.Render(changedSymbol)
	}

	content := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %s",
		widths.file, file,
		widths.op, op,
		widths.outcome, outcome,
		widths.detail, detail,
		changed,
	)

	// Apply row color based on outcome
	rowStyle := t.getRowStyle(row.Outcome)
	return rowStyle.Render(content)
}

// getRowStyle returns the appropriate style for an outcome.
func (t *TableFormatter) getRowStyle(outcome patch.Outcome) lipgloss.Style {
	switch outcome {
	case patch.OutcomeApplied:
		return t.styles.TableAppliedRow
	case patch.OutcomeSkipped:
		return t.styles.TableSkipRow
	case patch.OutcomeError:
		return t.styles.TableErrorRow
	default:
		return lipgloss.NewStyle()
	}
}

// formatLegend formats the legend explaining the table symbols and colors.
func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(
			fmt.Sprintf(" Legend: %s = content changed", changedSymbol),
		)
	}

	appliedSample := t.styles.TableAppliedRow.Render(" applied ")
	skipSample := t.styles.TableSkipRow.Render(" skipped ")
	errorSample := t.styles.TableErrorRow.Render(" failed ")
	changedSample := t.styles.TableChanged.Render(changedSymbol)

	return t.styles.TableLegend.Render(
		fmt.Sprintf(" Legend: %s %s %s  %s = content changed",
			appliedSample, skipSample, errorSample, changedSample),
	)
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d files examined", stats.FilesExamined))

	if stats.OpsApplied > 0 {
		applied := t.styles.Applied.Render(fmt.Sprintf("%d ops applied", stats.OpsApplied))
		parts = append(parts, applied)
	}

	if stats.OpsNoop > 0 {
		noops := t.styles.Noop.Render(fmt.Sprintf("%d unchanged", stats.OpsNoop))
		parts = append(parts, noops)
	}

	if stats.OpsSkipped > 0 {
		skips := t.styles.Skipped.Render(fmt.Sprintf("%d skipped", stats.OpsSkipped))
		parts = append(parts, skips)
	}

	if stats.OpsErrored > 0 {
		errors := t.styles.Error.Render(fmt.Sprintf("%d failed", stats.OpsErrored))
		parts = append(parts, errors)
	}

	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}

// OpResultToTableRow converts an op result to a table row.
func OpResultToTableRow(path string, res *patch.OpResult) TableRow {
	return TableRow{
		File:    path,
		Op:      string(res.Op.Kind),
		Outcome: res.Outcome,
		Detail:  opResultDetail(res),
		Changed: res.Outcome == patch.OutcomeApplied,
	}
}

// opResultDetail prefers the outcome reason over the op description.
func opResultDetail(res *patch.OpResult) string {
	if res.Reason != "" {
		return res.Reason
	}
	detail := res.Op.Describe()
	if res.Occurrences > 1 {
		detail = fmt.Sprintf("%s (x%d)", detail, res.Occurrences)
	}
	return detail
}
