package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/yaklabco/fixsweep/pkg/runner"
)

// jsonSchemaVersion identifies the JSON output schema.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	RunID   string           `json:"runId"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path          string         `json:"path"`
	Ops           []JSONOpResult `json:"ops"`
	Created       bool           `json:"created,omitempty"`
	Modified      bool           `json:"modified,omitempty"`
	Written       bool           `json:"written,omitempty"`
	RenamedTo     string         `json:"renamedTo,omitempty"`
	BackupCreated bool           `json:"backupCreated,omitempty"`
	Skipped       bool           `json:"skipped,omitempty"`
	SkipReason    string         `json:"skipReason,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// JSONOpResult represents a single operation result.
type JSONOpResult struct {
	Kind        string `json:"kind"`
	Outcome     string `json:"outcome"`
	Detail      string `json:"detail"`
	Reason      string `json:"reason,omitempty"`
	Line        int    `json:"line,omitempty"`
	Occurrences int    `json:"occurrences,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesExamined int            `json:"filesExamined"`
	FilesModified int            `json:"filesModified"`
	FilesSkipped  int            `json:"filesSkipped"`
	FilesErrored  int            `json:"filesErrored"`
	TotalOps      int            `json:"totalOps"`
	ByOutcome     map[string]int `json:"byOutcome"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.ByOutcome["applied"], nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		RunID:   uuid.NewString(),
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			ByOutcome: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	// Pre-allocate if we have files
	if len(result.Files) > 0 {
		output.Files = make([]JSONFileResult, 0, len(result.Files))
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path: file.Path,
			Ops:  make([]JSONOpResult, 0),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		if file.Result != nil {
			res := file.Result
			fileResult.Created = res.Created
			fileResult.Modified = res.Modified
			fileResult.Written = res.Written
			fileResult.RenamedTo = res.RenamedTo
			fileResult.BackupCreated = res.BackupCreated
			fileResult.Skipped = res.Skipped
			fileResult.SkipReason = res.SkipReason

			for _, opRes := range res.OpResults {
				fileResult.Ops = append(fileResult.Ops, JSONOpResult{
					Kind:        string(opRes.Op.Kind),
					Outcome:     opRes.Outcome.String(),
					Detail:      opRes.Op.Describe(),
					Reason:      opRes.Reason,
					Line:        opRes.Op.Line,
					Occurrences: opRes.Occurrences,
				})
			}
		}

		output.Files = append(output.Files, fileResult)
	}

	// Stats already aggregate the op results; reuse them instead of
	// recounting so the JSON summary can never drift from the run totals.
	stats := result.Stats
	output.Summary = JSONSummary{
		FilesExamined: stats.FilesExamined,
		FilesModified: stats.FilesModified,
		FilesSkipped:  stats.FilesSkipped,
		FilesErrored:  stats.FilesErrored,
		TotalOps:      stats.OpsTotal(),
		ByOutcome: map[string]int{
			"applied": stats.OpsApplied,
			"noop":    stats.OpsNoop,
			"skipped": stats.OpsSkipped,
			"error":   stats.OpsErrored,
		},
	}

	return output
}
