package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/fixsweep/pkg/patch"
)

// FormatOpResult formats a single operation result for terminal output.
func (s *Styles) FormatOpResult(res *patch.OpResult) string {
	var builder strings.Builder

	kind := s.OpKind.Render(string(res.Op.Kind))
	outcome := s.FormatOutcome(res.Outcome)
	detail := s.Detail.Render(res.Op.Describe())

	// Main line: kind  outcome  description
	builder.WriteString(fmt.Sprintf("  %s  %s  %s", kind, outcome, detail))
	if res.Occurrences > 1 {
		builder.WriteString(s.Dim.Render(fmt.Sprintf(" (x%d)", res.Occurrences)))
	}
	builder.WriteString("\n")

	// Skip and noop reasons
	if res.Reason != "" {
		builder.WriteString("    " + s.Dim.Render("Reason:") + " " +
			s.Reason.Render(res.Reason) + "\n")
	}

	return builder.String()
}

// FormatOutcome returns a styled outcome string.
func (s *Styles) FormatOutcome(outcome patch.Outcome) string {
	switch outcome {
	case patch.OutcomeApplied:
		return s.Applied.Render("applied")
	case patch.OutcomeNoop:
		return s.Noop.Render("noop")
	case patch.OutcomeSkipped:
		return s.Skipped.Render("skipped")
	case patch.OutcomeError:
		return s.Error.Render("error")
	default:
		return outcome.String()
	}
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, opCount int) string {
	header := s.FilePath.Render(path)
	if opCount > 0 {
		word := "ops"
		if opCount == 1 {
			word = "op"
		}
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", opCount, word))
	}
	return header
}

// FormatFileStatus formats a file path with its run status, styled by whether
// the file changed, was skipped, or failed.
func (s *Styles) FormatFileStatus(path, status string, changed, failed bool) string {
	styled := s.Dim.Render(status)
	switch {
	case failed:
		styled = s.Failure.Render(status)
	case changed:
		styled = s.Success.Render(status)
	}
	return s.FilePath.Render(path) + ": " + styled
}
