// Package checker runs an external diagnostic command and parses its output
// into structured findings.
package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Checker error types.
var (
	// ErrEmptyCommand indicates no checker command was configured.
	ErrEmptyCommand = errors.New("empty checker command")

	// ErrTimeout indicates the checker exceeded its configured timeout.
	ErrTimeout = errors.New("checker timed out")
)

// DefaultTimeout bounds checker runs that do not configure their own limit.
// Type checkers on large trees can legitimately take minutes.
const DefaultTimeout = 10 * time.Minute

// Command describes an external checker invocation.
type Command struct {
	// Argv is the program and its arguments.
	Argv []string

	// Dir is the working directory for the run. Empty means the process's
	// current directory.
	Dir string

	// Timeout bounds the run. Zero or negative means DefaultTimeout.
	Timeout time.Duration
}

// Run executes the checker and returns its combined stdout and stderr.
//
// A nonzero exit that produced output is success: checkers conventionally
// exit nonzero when they find problems, and that output is exactly what the
// caller wants. A nonzero exit with no output means the checker itself
// failed to start or run.
func (c Command) Run(ctx context.Context) ([]byte, error) {
	if len(c.Argv) == 0 {
		return nil, ErrEmptyCommand
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.Argv[0], c.Argv[1:]...)
	cmd.Dir = c.Dir

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()
	output := combined.Bytes()

	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return output, fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, c.Argv[0])
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(bytes.TrimSpace(output)) > 0 {
			return output, nil
		}
		return output, fmt.Errorf("run checker %q: %w", c.Argv[0], err)
	}

	return output, nil
}

// String renders the command line for logs and reports.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}
