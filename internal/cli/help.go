package cli

import (
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/fixsweep/internal/ui/pretty"
)

// usageTemplate mirrors cobra's default usage layout with style hooks.
const usageTemplate = `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleAlias (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExample .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlagsUsage .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlagsUsage .InheritedFlags }}
{{- end}}

{{- if .HasHelpSubCommands}}

{{ styleHeading "Additional help topics:" }}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{ styleSubcommand (rpad .CommandPath .CommandPathPadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

// helpTemplate prepends the command description to the usage block.
const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}` + usageTemplate

// helpPalette holds the lipgloss styles help rendering draws from.
type helpPalette struct {
	command     lipgloss.Style
	heading     lipgloss.Style
	subcommand  lipgloss.Style
	flag        lipgloss.Style
	description lipgloss.Style
	example     lipgloss.Style
	alias       lipgloss.Style
	dim         lipgloss.Style
}

func newHelpPalette(colorEnabled bool) *helpPalette {
	plain := lipgloss.NewStyle()
	palette := &helpPalette{
		command:     plain,
		heading:     plain,
		subcommand:  plain,
		flag:        plain,
		description: plain,
		example:     plain,
		alias:       plain,
		dim:         plain,
	}
	if !colorEnabled {
		return palette
	}

	dim := plain.Foreground(lipgloss.Color("8"))
	palette.command = plain.Foreground(lipgloss.Color("14")).Bold(true)
	palette.heading = plain.Foreground(lipgloss.Color("11")).Bold(true)
	palette.subcommand = plain.Foreground(lipgloss.Color("10"))
	palette.flag = plain.Foreground(lipgloss.Color("12"))
	palette.example = dim
	palette.alias = dim
	palette.dim = dim

	return palette
}

// HelpFormatter renders styled help and usage text for cobra commands.
type HelpFormatter struct {
	palette *helpPalette
	usage   *template.Template
	help    *template.Template
}

// NewHelpFormatter builds a formatter for the given color mode. Templates
// are parsed once here; ApplyToCommand only installs hooks.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	f := &HelpFormatter{palette: newHelpPalette(pretty.IsColorEnabled(colorMode, writer))}

	funcs := template.FuncMap{
		"styleCommand":            f.palette.command.Render,
		"styleHeading":            f.palette.heading.Render,
		"styleSubcommand":         f.palette.subcommand.Render,
		"styleFlag":               f.palette.flag.Render,
		"styleDescription":        f.palette.description.Render,
		"styleExample":            f.palette.example.Render,
		"styleAlias":              f.palette.alias.Render,
		"styleDim":                f.palette.dim.Render,
		"styleFlagsUsage":         f.renderFlagUsages,
		"join":                    strings.Join,
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}

	f.usage = template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	f.help = template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate))

	return f
}

// ApplyToCommand installs the styled help and usage hooks on cmd.
// Subcommands inherit both through cobra's parent lookup.
func (f *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return f.usage.Execute(c.OutOrStdout(), c)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := f.help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// renderFlagUsages styles pflag's FlagUsages output line by line.
func (f *HelpFormatter) renderFlagUsages(flags any) string {
	fs, ok := flags.(interface{ FlagUsages() string })
	if !ok {
		return ""
	}

	usages := fs.FlagUsages()
	if usages == "" {
		return ""
	}

	lines := strings.Split(strings.TrimSuffix(usages, "\n"), "\n")
	for i, line := range lines {
		lines[i] = f.styleFlagLine(line)
	}

	return strings.Join(lines, "\n")
}

// flagUsageLine matches "  -f, --flag type   description". The alignment
// gap pflag computed is captured and kept, so styled descriptions still
// line up across flags.
var flagUsageLine = regexp.MustCompile(`^( *)(-\S.*?)(  +)(\S.*)$`)

// styleFlagLine styles one flag usage line. Lines that do not look like a
// flag definition, such as wrapped description continuations, pass through
// untouched.
func (f *HelpFormatter) styleFlagLine(line string) string {
	m := flagUsageLine.FindStringSubmatch(line)
	if m == nil {
		return line
	}

	return m[1] + f.paintFlagTokens(m[2]) + m[3] + f.palette.description.Render(m[4])
}

// paintFlagTokens colors the flag names and dims the type indicators in
// the definition part of a flag line.
func (f *HelpFormatter) paintFlagTokens(def string) string {
	tokens := strings.Fields(def)
	for i, token := range tokens {
		bare, comma := strings.CutSuffix(token, ",")
		if !strings.HasPrefix(bare, "-") {
			tokens[i] = f.palette.dim.Render(token)
			continue
		}

		tokens[i] = f.palette.flag.Render(bare)
		if comma {
			tokens[i] += ","
		}
	}

	return strings.Join(tokens, " ")
}

// rpad pads str with spaces on the right up to the given width.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
