package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/fixsweep/pkg/config"
	"github.com/yaklabco/fixsweep/pkg/patch"
)

func newApplyCommand() *cobra.Command {
	var cfg config.Config
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "apply <plan-file>",
		Short: "Apply a patch plan to the working tree",
		Long:  applyLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], &cfg, flags)
		},
	}

	addRunFlags(cmd, &cfg, flags)

	return cmd
}

const applyLongDescription = `Apply the operations of a YAML plan file to the working tree.

Operations run in plan order per target, every write is atomic, and
re-running an already-applied plan changes nothing. A target that fails
never stops the rest of the run; the exit code reports the failure.

Examples:
  fixsweep apply fixes.yaml                # Apply a plan
  fixsweep apply fixes.yaml --dry-run      # Show what would change
  fixsweep apply fixes.yaml --diff         # Show unified diffs
  fixsweep apply fixes.yaml --jobs 4       # Patch four files at a time
  fixsweep apply fixes.yaml --format json  # Machine-readable output for CI
  fixsweep apply fixes.yaml --dir ./svc    # Resolve targets under ./svc`

func runApply(cmd *cobra.Command, planPath string, cfg *config.Config, flags *runFlags) error {
	applyRunFlags(cfg, flags)
	cfg.PlanPath = planPath

	finalCfg, workDir, err := loadRunConfig(cmd, cfg, flags)
	if err != nil {
		return err
	}

	plan, err := patch.LoadPlan(planPath)
	if err != nil {
		return err
	}

	return executeRun(cmd, finalCfg, flags, plan, workDir)
}
