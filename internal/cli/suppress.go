package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/fixsweep/internal/logging"
	"github.com/yaklabco/fixsweep/pkg/checker"
	"github.com/yaklabco/fixsweep/pkg/config"
	"github.com/yaklabco/fixsweep/pkg/patch"
)

// suppressFlags holds the flags specific to the suppress command.
type suppressFlags struct {
	runFlags

	checker       string
	from          string
	marker        string
	include       []string
	noIndentMatch bool
}

func newSuppressCommand() *cobra.Command {
	var cfg config.Config
	flags := &suppressFlags{}

	cmd := &cobra.Command{
		Use:   "suppress",
		Short: "Insert suppression markers from checker diagnostics",
		Long:  suppressLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSuppress(cmd, &cfg, flags)
		},
	}

	addRunFlags(cmd, &cfg, &flags.runFlags)
	addSuppressFlags(cmd, flags)

	return cmd
}

const suppressLongDescription = `Run the configured checker, parse its diagnostics, and insert a
suppression marker above each finding.

Markers are deduplicated per line, lines that already carry one are left
alone, and line numbers always come from the diagnostics just produced,
never from an earlier run. Re-running suppress over unchanged diagnostics
therefore changes nothing.

Examples:
  fixsweep suppress                             # Run the configured checker
  fixsweep suppress --checker "npx tsc --noEmit"
  fixsweep suppress --from tsc-output.txt       # Parse saved checker output
  tsc --noEmit | fixsweep suppress --from -     # Parse stdin
  fixsweep suppress --marker "// FIXME(types)"  # Custom marker line
  fixsweep suppress --include "src/**" --dry-run`

func runSuppress(cmd *cobra.Command, cfg *config.Config, flags *suppressFlags) error {
	logger := logging.Default()

	applyRunFlags(cfg, &flags.runFlags)
	if flags.checker != "" {
		cfg.Checker.Command = strings.Fields(flags.checker)
	}
	if flags.marker != "" {
		cfg.Suppression.Marker = flags.marker
	}
	cfg.Suppression.Include = flags.include
	if flags.noIndentMatch {
		matchIndent := false
		cfg.Suppression.MatchIndent = &matchIndent
	}

	finalCfg, workDir, err := loadRunConfig(cmd, cfg, &flags.runFlags)
	if err != nil {
		return err
	}

	output, err := readDiagnostics(cmd, finalCfg, flags, workDir)
	if err != nil {
		return err
	}

	diags, err := checker.ParseDiagnostics(bytes.NewReader(output))
	if err != nil {
		return err
	}
	diags = checker.FilterByPath(diags, finalCfg.Suppression.Include)

	logger.Debug("diagnostics parsed",
		logging.FieldDiagnostics, len(diags),
		logging.FieldMarker, finalCfg.Suppression.Marker,
	)

	plan := patch.BuildSuppressionPlan(diags, finalCfg.Suppression.Marker, finalCfg.Suppression.IndentMatching())

	return executeRun(cmd, finalCfg, &flags.runFlags, plan, workDir)
}

// readDiagnostics obtains raw checker output: from stdin, from a saved file,
// or by running the configured checker command.
func readDiagnostics(cmd *cobra.Command, cfg *config.Config, flags *suppressFlags, workDir string) ([]byte, error) {
	if flags.from == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read diagnostics from stdin: %w", err)
		}
		return data, nil
	}
	if flags.from != "" {
		data, err := os.ReadFile(flags.from)
		if err != nil {
			return nil, fmt.Errorf("read diagnostics: %w", err)
		}
		return data, nil
	}

	chk := checker.Command{
		Argv:    cfg.Checker.Command,
		Dir:     cfg.Checker.Dir,
		Timeout: time.Duration(cfg.Checker.TimeoutSeconds) * time.Second,
	}
	if chk.Dir == "" {
		// Diagnostics paths are relative to the checker's directory; keep
		// that the same directory targets resolve against.
		chk.Dir = workDir
	}

	logger := logging.Default()
	logger.Info("running checker", logging.FieldChecker, chk.String())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return chk.Run(ctx)
}

func addSuppressFlags(cmd *cobra.Command, flags *suppressFlags) {
	cmd.Flags().StringVar(&flags.checker, "checker", "",
		"checker command line, split on whitespace (overrides config)")
	cmd.Flags().StringVar(&flags.from, "from", "",
		"read checker output from a file instead of running it (- for stdin)")
	cmd.Flags().StringVar(&flags.marker, "marker", "",
		"suppression line inserted above each diagnostic")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil,
		"only suppress diagnostics whose path matches these globs")
	cmd.Flags().BoolVar(&flags.noIndentMatch, "no-indent-match", false,
		"do not copy the target line's indentation onto the marker")
}
