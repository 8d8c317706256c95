package reporter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/fixsweep/pkg/analysis"
	"github.com/yaklabco/fixsweep/pkg/config"
)

func TestSummaryRenderer_EmptyReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := Options{
		Writer: &buf,
		Color:  "never",
	}

	renderer := NewSummaryRenderer(opts)
	report := &analysis.Report{
		Totals: analysis.Totals{},
	}

	err := renderer.Render(context.Background(), report)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "No operations performed")
}

func TestSummaryRenderer_ShowsKindsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := Options{
		Writer:       &buf,
		Color:        "never",
		SummaryOrder: config.SummaryOrderKinds,
	}

	renderer := NewSummaryRenderer(opts)
	report := &analysis.Report{
		ByKind: []analysis.KindAnalysis{
			{Kind: "literal", Ops: 5, Applied: 3, Noops: 2, Changed: true},
			{Kind: "insert", Ops: 2, Applied: 2, Changed: true},
		},
		ByFile: []analysis.FileAnalysis{
			{Path: "src/server.ts", Ops: 4, Applied: 3, Noops: 1},
		},
		Totals: analysis.Totals{Ops: 7, Applied: 5, Noops: 2, Files: 1, FilesModified: 1},
	}

	err := renderer.Render(context.Background(), report)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Kinds Summary")
	assert.Contains(t, output, "literal")
	assert.Contains(t, output, "insert")
	assert.Contains(t, output, "Files Summary")
	assert.Contains(t, output, "src/server.ts")
}

func TestSummaryRenderer_FilesFirstOrder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := Options{
		Writer:       &buf,
		Color:        "never",
		SummaryOrder: config.SummaryOrderFiles,
	}

	renderer := NewSummaryRenderer(opts)
	report := &analysis.Report{
		ByKind: []analysis.KindAnalysis{
			{Kind: "literal", Ops: 1, Applied: 1, Changed: true},
		},
		ByFile: []analysis.FileAnalysis{
			{Path: "src/server.ts", Ops: 1, Applied: 1},
		},
		Totals: analysis.Totals{Ops: 1, Applied: 1, Files: 1, FilesModified: 1},
	}

	err := renderer.Render(context.Background(), report)
	require.NoError(t, err)

	output := buf.String()
	filesIdx := strings.Index(output, "Files Summary")
	kindsIdx := strings.Index(output, "Kinds Summary")

	assert.Greater(t, kindsIdx, filesIdx, "Files should come before Kinds when SummaryOrderFiles")
}

func TestSummaryRenderer_ShowsTotals(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := Options{
		Writer: &buf,
		Color:  "never",
	}

	renderer := NewSummaryRenderer(opts)
	report := &analysis.Report{
		Totals: analysis.Totals{
			Ops:     10,
			Applied: 6,
			Skipped: 3,
			Errored: 1,
			Files:   5,
		},
	}

	err := renderer.Render(context.Background(), report)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "10 ops")
	assert.Contains(t, output, "6 applied")
	assert.Contains(t, output, "3 skipped")
	assert.Contains(t, output, "1 failed")
	assert.Contains(t, output, "in 5 files")
}

func TestSummaryRenderer_ChangedIndicator(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := Options{
		Writer: &buf,
		Color:  "never",
	}

	renderer := NewSummaryRenderer(opts)
	report := &analysis.Report{
		ByKind: []analysis.KindAnalysis{
			{Kind: "literal", Ops: 1, Applied: 1, Changed: true},
			{Kind: "regex", Ops: 1, Noops: 1, Changed: false},
		},
		Totals: analysis.Totals{Ops: 2, Applied: 1, Noops: 1},
	}

	err := renderer.Render(context.Background(), report)
	require.NoError(t, err)

	output := buf.String()
	// The kind that changed content should have an indicator
	assert.Contains(t, output, "✓")
}

func TestSummaryRenderer_ShowsFailures(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := Options{
		Writer: &buf,
		Color:  "never",
	}

	renderer := NewSummaryRenderer(opts)
	report := &analysis.Report{
		Failures: []analysis.FailureEntry{
			{FilePath: "locked.ts", Error: "permission denied"},
		},
		Totals: analysis.Totals{Ops: 2, Errored: 2, FilesErrored: 1},
	}

	err := renderer.Render(context.Background(), report)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Failures")
	assert.Contains(t, output, "locked.ts")
	assert.Contains(t, output, "permission denied")
}
