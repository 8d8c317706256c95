package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/fixsweep/internal/configloader"
	"github.com/yaklabco/fixsweep/pkg/patch"
	"github.com/yaklabco/fixsweep/pkg/runner"
)

// Exit codes for fixsweep.
const (
	// ExitSuccess indicates a successful run, including runs where every
	// operation was already applied.
	ExitSuccess = 0

	// ExitPatchErrors indicates the run completed but at least one file hit
	// a hard error.
	ExitPatchErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration or plan file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrUsage marks command-line usage errors for exit-code classification.
var ErrUsage = errors.New("invalid usage")

// ErrConfig marks configuration loading errors for exit-code classification.
var ErrConfig = errors.New("configuration error")

// ExitCodeFromResult determines the exit code for a completed run. Only hard
// per-file errors make the code nonzero: a run where every operation was a
// noop (or a recorded skip) is a success.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasFailures() {
		return ExitPatchErrors
	}

	return ExitSuccess
}

// ExitCodeForError maps an error returned from command execution to a
// process exit code.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *configloader.ValidationError
	var pathErr *fs.PathError

	switch {
	case errors.Is(err, ErrPatchFailures):
		return ExitPatchErrors
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, patch.ErrPlanInvalid),
		errors.Is(err, ErrConfig),
		errors.As(err, &validationErr):
		return ExitConfigError
	case errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
