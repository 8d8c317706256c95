package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/fixsweep/internal/configloader"
	"github.com/yaklabco/fixsweep/internal/logging"
	"github.com/yaklabco/fixsweep/pkg/config"
	"github.com/yaklabco/fixsweep/pkg/fsutil"
	"github.com/yaklabco/fixsweep/pkg/patch"
	"github.com/yaklabco/fixsweep/pkg/reporter"
	"github.com/yaklabco/fixsweep/pkg/runner"
)

// ErrPatchFailures is returned when at least one target hit a hard error.
var ErrPatchFailures = errors.New("patch failures found")

// runFlags holds the flags shared by every command that patches files.
type runFlags struct {
	dir          string
	format       string
	diff         bool
	ignore       []string
	compact      bool
	perFile      bool
	summaryOrder string
}

// addRunFlags registers the shared patching flags on a command.
func addRunFlags(cmd *cobra.Command, cfg *config.Config, flags *runFlags) {
	cmd.Flags().StringVar(&flags.dir, "dir", "", "base directory for targets and config discovery")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show what would change without writing files")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = 1)")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, table, json, diff, summary")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns excluded from glob targets")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation")
	cmd.Flags().BoolVar(&cfg.RequireClean, "require-clean", false, "refuse to patch files with uncommitted changes")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "show unified diffs (implies --dry-run --format diff)")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "one status line per file (text format)")
	cmd.Flags().BoolVar(&flags.perFile, "per-file", false, "separate table per file (table format)")
	cmd.Flags().StringVar(&flags.summaryOrder, "summary-order", "kinds",
		"order of tables in summary output: kinds, files")
}

// applyRunFlags maps shared string flags onto typed config values. Only
// values the user actually provided are set, so config-file settings
// survive the merge.
func applyRunFlags(cfg *config.Config, flags *runFlags) {
	if flags.format != "" {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if flags.diff {
		cfg.DryRun = true
		cfg.Format = config.FormatDiff
	}
	cfg.Ignore = flags.ignore
}

// loadRunConfig resolves the working directory and merges configuration from
// every source. The returned directory is the base for target resolution.
func loadRunConfig(cmd *cobra.Command, cfg *config.Config, flags *runFlags) (*config.Config, string, error) {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir := flags.dir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("get working directory: %w", err)
		}
	}

	loadOpts := configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
	}

	loadResult, err := configloader.Load(ctx, loadOpts)
	if err != nil {
		return nil, "", errors.Join(ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	logger.Debug("configuration loaded",
		logging.FieldDryRun, loadResult.Config.DryRun,
		logging.FieldJobs, loadResult.Config.Jobs,
		logging.FieldWorkingDir, workDir,
	)

	return loadResult.Config, workDir, nil
}

// executeRun compiles a plan against the working tree, runs it, and reports
// the outcome. It is the shared back half of apply and suppress.
func executeRun(cmd *cobra.Command, cfg *config.Config, flags *runFlags, plan patch.Plan, workDir string) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	compiled, err := patch.Compile(plan, patch.CompileOptions{
		WorkingDir: workDir,
		Ignore:     cfg.Ignore,
	})
	if err != nil {
		return err
	}

	for _, warning := range compiled.Warnings {
		logger.Warn(warning)
	}

	backup := fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}

	patchRunner, err := runner.New(runner.Options{
		WorkingDir:   workDir,
		Jobs:         cfg.Jobs,
		DryRun:       cfg.DryRun,
		Backup:       backup,
		RequireClean: cfg.RequireClean,
	})
	if err != nil {
		return errors.Join(errors.New("configure runner"), err)
	}

	logger.Debug("starting patch run",
		logging.FieldFiles, len(compiled.Targets),
		logging.FieldOps, compiled.OpCount(),
		logging.FieldJobs, cfg.Jobs,
		logging.FieldDryRun, cfg.DryRun,
	)

	result, err := patchRunner.Run(ctx, compiled)
	if err != nil {
		return errors.Join(errors.New("patch run failed"), err)
	}

	if err := reportRun(ctx, cmd, cfg, flags, result, workDir); err != nil {
		return err
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrPatchFailures
	}

	return nil
}

// reportRun renders a run result in the configured format.
func reportRun(ctx context.Context, cmd *cobra.Command, cfg *config.Config, flags *runFlags, result *runner.Result, workDir string) error {
	logger := logging.Default()

	// Get color mode from persistent flag.
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return errors.Join(ErrUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:       cmd.OutOrStdout(),
		ErrorWriter:  cmd.ErrOrStderr(),
		Format:       format,
		Color:        colorMode,
		ShowSummary:  true,
		GroupByFile:  !flags.compact,
		Compact:      flags.compact,
		PerFile:      flags.perFile,
		SummaryOrder: config.SummaryOrder(flags.summaryOrder),
		WorkingDir:   workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	return nil
}
