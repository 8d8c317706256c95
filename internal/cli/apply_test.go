package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/fixsweep/internal/cli"
)

func TestApplyCommand_SummaryOrderFlag(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}

	cmd := cli.NewRootCommand(info)
	applyCmd, _, err := cmd.Find([]string{"apply"})
	if err != nil {
		t.Fatalf("apply command not found: %v", err)
	}

	// Check summary-order flag exists
	flag := applyCmd.Flags().Lookup("summary-order")
	assert.NotNil(t, flag, "summary-order flag should exist")
	assert.Equal(t, "kinds", flag.DefValue, "default value should be 'kinds'")

	// Check format flag includes "summary"
	formatFlag := applyCmd.Flags().Lookup("format")
	assert.NotNil(t, formatFlag, "format flag should exist")
	assert.Contains(t, formatFlag.Usage, "summary", "format flag help should include 'summary'")
}

func TestApplyCommand_DiffFlag(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}

	cmd := cli.NewRootCommand(info)
	applyCmd, _, err := cmd.Find([]string{"apply"})
	if err != nil {
		t.Fatalf("apply command not found: %v", err)
	}

	flag := applyCmd.Flags().Lookup("diff")
	assert.NotNil(t, flag, "diff flag should exist")
	assert.Contains(t, flag.Usage, "dry-run", "diff flag help should say it implies --dry-run")
}
