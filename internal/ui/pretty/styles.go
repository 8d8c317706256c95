// Package pretty provides lipgloss-styled rendering helpers for CLI output.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds every style the reporters render with. Construct through
// NewStyles so color and no-color output share one code path.
type Styles struct {
	// Outcome styles
	Applied lipgloss.Style
	Noop    lipgloss.Style
	Skipped lipgloss.Style
	Error   lipgloss.Style

	// Op result components
	FilePath lipgloss.Style
	OpKind   lipgloss.Style
	Detail   lipgloss.Style
	Reason   lipgloss.Style

	// Diff styles
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader     lipgloss.Style
	TableBorder     lipgloss.Style
	TableAppliedRow lipgloss.Style
	TableSkipRow    lipgloss.Style
	TableErrorRow   lipgloss.Style
	TableChanged    lipgloss.Style
	TableLegend     lipgloss.Style
	TableSeparator  lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles builds the style set for the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	base := lipgloss.NewStyle()

	if !colorEnabled {
		return &Styles{
			Applied:         base,
			Noop:            base,
			Skipped:         base,
			Error:           base,
			FilePath:        base,
			OpKind:          base,
			Detail:          base,
			Reason:          base,
			DiffHeader:      base,
			DiffHunk:        base,
			DiffAdd:         base,
			DiffRemove:      base,
			DiffContext:     base,
			SummaryTitle:    base,
			SummaryValue:    base,
			Success:         base,
			Failure:         base,
			TableHeader:     base,
			TableBorder:     base,
			TableAppliedRow: base,
			TableSkipRow:    base,
			TableErrorRow:   base,
			TableChanged:    base,
			TableLegend:     base,
			TableSeparator:  base,
			Dim:             base,
			Bold:            base,
		}
	}

	var (
		white  = lipgloss.Color("7")
		gray   = lipgloss.Color("8")
		red    = lipgloss.Color("9")
		green  = lipgloss.Color("10")
		yellow = lipgloss.Color("11")
		cyan   = lipgloss.Color("14")
	)

	bold := base.Bold(true)
	dim := base.Foreground(gray)

	return &Styles{
		Applied: bold.Foreground(green),
		Noop:    dim,
		Skipped: bold.Foreground(yellow),
		Error:   bold.Foreground(red),

		FilePath: bold,
		OpKind:   dim,
		Detail:   base,
		Reason:   dim.Italic(true),

		DiffHeader:  bold,
		DiffHunk:    base.Foreground(cyan),
		DiffAdd:     base.Foreground(green),
		DiffRemove:  base.Foreground(red),
		DiffContext: dim,

		SummaryTitle: bold,
		SummaryValue: base,
		Success:      bold.Foreground(green),
		Failure:      bold.Foreground(red),

		TableHeader:     bold.Foreground(white),
		TableBorder:     dim,
		TableAppliedRow: base.Foreground(green),
		TableSkipRow:    base.Foreground(yellow),
		TableErrorRow:   base.Foreground(red),
		TableChanged:    base.Foreground(green),
		TableLegend:     dim.Italic(true),
		TableSeparator:  dim,

		Dim:  dim,
		Bold: bold,
	}
}

// IsColorEnabled resolves a color mode ("always", "never", or "auto")
// against the writer. Auto honors NO_COLOR (https://no-color.org/) and
// otherwise requires the writer to be a terminal.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
