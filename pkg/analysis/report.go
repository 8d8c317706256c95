package analysis

import "time"

// Report contains pre-computed views of patch run results.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Outcomes is the flat per-op list for detailed output.
	Outcomes []OutcomeEntry `json:"outcomes,omitempty"`

	// ByFile groups op results by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByKind groups op results by operation kind.
	ByKind []KindAnalysis `json:"byKind,omitempty"`

	// Failures lists files whose run failed outright.
	Failures []FailureEntry `json:"failures,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// RunID uniquely identifies the run that produced this report.
	RunID string `json:"runId"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// OutcomeEntry represents a single op result in the report.
type OutcomeEntry struct {
	FilePath    string `json:"filePath"`
	Kind        string `json:"kind"`
	Outcome     string `json:"outcome"`
	Detail      string `json:"detail"`
	Reason      string `json:"reason,omitempty"`
	Line        int    `json:"line,omitempty"`
	Occurrences int    `json:"occurrences,omitempty"`
}

// FailureEntry represents a file whose processing failed before op results
// could be produced.
type FailureEntry struct {
	FilePath string `json:"filePath"`
	Error    string `json:"error"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files         int `json:"filesExamined"`
	FilesModified int `json:"filesModified"`
	FilesSkipped  int `json:"filesSkipped"`
	FilesErrored  int `json:"filesFailed"`
	Ops           int `json:"totalOps"`
	Applied       int `json:"applied"`
	Noops         int `json:"unchanged"`
	Skipped       int `json:"skipped"`
	Errored       int `json:"failed"`
}

// HasChanges returns true if any operation changed content.
func (t Totals) HasChanges() bool {
	return t.Applied > 0
}

// HasFailures returns true if any operation or file failed.
func (t Totals) HasFailures() bool {
	return t.Errored > 0 || t.FilesErrored > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path    string   `json:"path"`
	Ops     int      `json:"ops"`
	Applied int      `json:"applied"`
	Noops   int      `json:"unchanged"`
	Skipped int      `json:"skipped"`
	Errored int      `json:"failed"`
	Kinds   []string `json:"kinds,omitempty"`
}

// KindAnalysis contains aggregated data for a single operation kind.
type KindAnalysis struct {
	Kind    string   `json:"kind"`
	Ops     int      `json:"ops"`
	Applied int      `json:"applied"`
	Noops   int      `json:"unchanged"`
	Skipped int      `json:"skipped"`
	Errored int      `json:"failed"`
	Changed bool     `json:"changed"`
	Files   []string `json:"files,omitempty"`
}
