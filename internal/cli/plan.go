package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/fixsweep/internal/logging"
	"github.com/yaklabco/fixsweep/pkg/config"
	"github.com/yaklabco/fixsweep/pkg/patch"
)

// planFlags holds the flags for the plan command.
type planFlags struct {
	dir    string
	format string
	ignore []string
}

// planDescription is the machine-readable shape of a validated plan.
type planDescription struct {
	Plan     string         `json:"plan"`
	Ops      int            `json:"ops"`
	Files    int            `json:"files"`
	ByKind   map[string]int `json:"byKind"`
	Targets  []planTarget   `json:"targets"`
	Warnings []string       `json:"warnings,omitempty"`
}

// planTarget is one resolved file and its operation count.
type planTarget struct {
	Path string `json:"path"`
	Ops  int    `json:"ops"`
}

func newPlanCommand() *cobra.Command {
	flags := &planFlags{}

	cmd := &cobra.Command{
		Use:   "plan <plan-file>",
		Short: "Validate and describe a plan without touching files",
		Long: `Load a plan file, validate every operation, and show what a run would
touch: the resolved target files, per-kind operation counts, and any globs
that matched nothing. No file is read or written beyond glob expansion.

Examples:
  fixsweep plan fixes.yaml                 Validate and describe a plan
  fixsweep plan fixes.yaml --dir ./svc     Resolve targets under ./svc
  fixsweep plan fixes.yaml --format json   Machine-readable description`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", "", "base directory for targets and config discovery")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns excluded from glob targets")

	return cmd
}

func runPlan(cmd *cobra.Command, planPath string, flags *planFlags) error {
	cfg := &config.Config{Ignore: flags.ignore, PlanPath: planPath}

	rf := &runFlags{dir: flags.dir}
	finalCfg, workDir, err := loadRunConfig(cmd, cfg, rf)
	if err != nil {
		return err
	}

	plan, err := patch.LoadPlan(planPath)
	if err != nil {
		return err
	}

	compiled, err := patch.Compile(plan, patch.CompileOptions{
		WorkingDir: workDir,
		Ignore:     finalCfg.Ignore,
	})
	if err != nil {
		return err
	}

	if flags.format == formatJSON {
		return outputPlanJSON(cmd, planPath, plan, compiled)
	}

	logger := logging.NewInteractive()

	logger.Info("plan valid",
		logging.FieldPlan, planPath,
		logging.FieldOps, len(plan.Ops),
		logging.FieldFiles, len(compiled.Targets),
	)

	byKind := compiled.CountByKind()
	for _, info := range patch.Kinds() {
		if n := byKind[info.Kind]; n > 0 {
			logger.Info(string(info.Kind), logging.FieldOps, n)
		}
	}

	for _, tp := range compiled.Targets {
		for _, op := range tp.Ops() {
			logger.Info(op.Describe(),
				logging.FieldKind, string(op.Kind),
				logging.FieldTarget, tp.Path,
			)
		}
	}

	for _, warning := range compiled.Warnings {
		logger.Warn(warning)
	}

	return nil
}

// outputPlanJSON renders the plan description as a JSON document.
func outputPlanJSON(cmd *cobra.Command, planPath string, plan patch.Plan, compiled *patch.CompiledPlan) error {
	counts := compiled.CountByKind()
	byKind := make(map[string]int, len(counts))
	for kind, n := range counts {
		byKind[string(kind)] = n
	}

	targets := make([]planTarget, 0, len(compiled.Targets))
	for _, tp := range compiled.Targets {
		targets = append(targets, planTarget{Path: tp.Path, Ops: tp.OpCount()})
	}

	desc := planDescription{
		Plan:     planPath,
		Ops:      len(plan.Ops),
		Files:    len(compiled.Targets),
		ByKind:   byKind,
		Targets:  targets,
		Warnings: compiled.Warnings,
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(desc); err != nil {
		return fmt.Errorf("encoding plan description: %w", err)
	}
	return nil
}
