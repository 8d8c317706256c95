package checker_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/yaklabco/fixsweep/pkg/checker"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestCommandRun_CapturesStdout(t *testing.T) {
	t.Parallel()
	requireShell(t)

	cmd := checker.Command{Argv: []string{"sh", "-c", "echo hello"}}
	out, err := cmd.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "hello" {
		t.Errorf("output = %q, want %q", got, "hello")
	}
}

func TestCommandRun_NonzeroExitWithOutputSucceeds(t *testing.T) {
	t.Parallel()
	requireShell(t)

	// Checkers report findings on stderr and exit nonzero. That is the
	// normal successful case, not a failure.
	cmd := checker.Command{
		Argv: []string{"sh", "-c", "echo 'src/a.ts(3,1): error TS2307: missing' >&2; exit 2"},
	}
	out, err := cmd.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if !strings.Contains(string(out), "src/a.ts(3,1)") {
		t.Errorf("output missing diagnostic line: %q", out)
	}
}

func TestCommandRun_NonzeroExitWithoutOutputFails(t *testing.T) {
	t.Parallel()
	requireShell(t)

	cmd := checker.Command{Argv: []string{"sh", "-c", "exit 3"}}
	if _, err := cmd.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want error for silent nonzero exit")
	}
}

func TestCommandRun_EmptyCommand(t *testing.T) {
	t.Parallel()

	cmd := checker.Command{}
	_, err := cmd.Run(context.Background())
	if !errors.Is(err, checker.ErrEmptyCommand) {
		t.Errorf("Run() error = %v, want ErrEmptyCommand", err)
	}
}

func TestCommandRun_MissingBinary(t *testing.T) {
	t.Parallel()

	cmd := checker.Command{Argv: []string{"definitely-not-a-real-checker-binary"}}
	if _, err := cmd.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want error for missing binary")
	}
}

func TestCommandRun_Timeout(t *testing.T) {
	t.Parallel()
	requireShell(t)

	cmd := checker.Command{
		Argv:    []string{"sh", "-c", "sleep 5"},
		Timeout: 50 * time.Millisecond,
	}
	_, err := cmd.Run(context.Background())
	if !errors.Is(err, checker.ErrTimeout) {
		t.Errorf("Run() error = %v, want ErrTimeout", err)
	}
}

func TestCommandRun_WorkingDir(t *testing.T) {
	t.Parallel()
	requireShell(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data.txt"), []byte("from workdir"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := checker.Command{Argv: []string{"sh", "-c", "cat data.txt"}, Dir: dir}
	out, err := cmd.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := string(out); got != "from workdir" {
		t.Errorf("output = %q, want %q", got, "from workdir")
	}
}

func TestCommandString(t *testing.T) {
	t.Parallel()

	cmd := checker.Command{Argv: []string{"npx", "tsc", "--noEmit"}}
	if got := cmd.String(); got != "npx tsc --noEmit" {
		t.Errorf("String() = %q", got)
	}
}
