package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/fixsweep/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "7 ops applied (5 inserted, 2 replaced) in 3 files, 1 file skipped".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.OpsApplied == 0 && stats.OpsErrored == 0 && stats.FilesErrored == 0 {
		msg := s.Success.Render("No changes made") +
			s.Dim.Render(fmt.Sprintf(" (%d files examined)", stats.FilesExamined))
		// Surface the idempotency signal when every op had already landed
		if stats.OpsNoop > 0 {
			msg += s.Dim.Render(fmt.Sprintf(", %d ops already applied", stats.OpsNoop))
		}
		if stats.FilesSkipped > 0 {
			fileWord := wordFiles
			if stats.FilesSkipped == 1 {
				fileWord = wordFile
			}
			msg += ", " + s.Skipped.Render(fmt.Sprintf("%d %s skipped", stats.FilesSkipped, fileWord))
		}
		return msg + "\n"
	}

	var parts []string

	if stats.OpsApplied > 0 {
		opWord := "ops"
		if stats.OpsApplied == 1 {
			opWord = "op"
		}

		// Build breakdown by change type
		var kindParts []string
		if stats.Inserted > 0 {
			kindParts = append(kindParts, fmt.Sprintf("%d inserted", stats.Inserted))
		}
		if stats.Replaced > 0 {
			kindParts = append(kindParts, fmt.Sprintf("%d replaced", stats.Replaced))
		}

		if len(kindParts) > 0 {
			parts = append(parts, fmt.Sprintf("%d %s applied (%s)", stats.OpsApplied, opWord, strings.Join(kindParts, ", ")))
		} else {
			parts = append(parts, fmt.Sprintf("%d %s applied", stats.OpsApplied, opWord))
		}

		fileWord := wordFiles
		if stats.FilesModified == 1 {
			fileWord = wordFile
		}
		parts = append(parts, fmt.Sprintf("in %d %s", stats.FilesModified, fileWord))
	} else {
		parts = append(parts, "no changes")
	}

	if stats.FilesSkipped > 0 {
		fileWord := wordFiles
		if stats.FilesSkipped == 1 {
			fileWord = wordFile
		}
		parts = append(parts, s.Skipped.Render(fmt.Sprintf("%d %s skipped", stats.FilesSkipped, fileWord)))
	}

	if stats.FilesErrored > 0 {
		fileWord := wordFiles
		if stats.FilesErrored == 1 {
			fileWord = wordFile
		}
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s failed", stats.FilesErrored, fileWord)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	// Files
	builder.WriteString("  Files examined:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesExamined)) + "\n")

	if stats.FilesModified > 0 {
		builder.WriteString("  Files modified:   " +
			s.Success.Render(strconv.Itoa(stats.FilesModified)) + "\n")
	}

	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:    " +
			s.Skipped.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}

	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:     " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")

	// Ops by outcome
	builder.WriteString("  Ops applied:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.OpsApplied)) + "\n")

	if stats.Inserted > 0 {
		builder.WriteString("    Inserted:       " +
			s.SummaryValue.Render(strconv.Itoa(stats.Inserted)) + "\n")
	}
	if stats.Replaced > 0 {
		builder.WriteString("    Replaced:       " +
			s.SummaryValue.Render(strconv.Itoa(stats.Replaced)) + "\n")
	}
	if stats.OpsNoop > 0 {
		builder.WriteString("  Ops unchanged:    " +
			s.Dim.Render(strconv.Itoa(stats.OpsNoop)) + "\n")
	}
	if stats.OpsSkipped > 0 {
		builder.WriteString("  Ops skipped:      " +
			s.Skipped.Render(strconv.Itoa(stats.OpsSkipped)) + "\n")
	}
	if stats.OpsErrored > 0 {
		builder.WriteString("  Ops failed:       " +
			s.Failure.Render(strconv.Itoa(stats.OpsErrored)) + "\n")
	}

	builder.WriteString("\n")

	// Overall status
	switch {
	case stats.FilesErrored > 0 || stats.OpsErrored > 0:
		builder.WriteString(s.Failure.Render("Patch run failed"))
	case stats.OpsSkipped > 0 || stats.FilesSkipped > 0:
		builder.WriteString(s.Skipped.Render("Patch run completed with skips"))
	case stats.OpsApplied == 0:
		builder.WriteString(s.Success.Render("Nothing to do"))
	default:
		builder.WriteString(s.Success.Render("Patch run complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
