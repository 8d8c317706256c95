package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotals_HasChanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		totals Totals
		want   bool
	}{
		{
			name:   "no changes",
			totals: Totals{Noops: 4},
			want:   false,
		},
		{
			name:   "has changes",
			totals: Totals{Applied: 5},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.totals.HasChanges())
		})
	}
}

func TestTotals_HasFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		totals Totals
		want   bool
	}{
		{
			name:   "no failures",
			totals: Totals{Applied: 3, Skipped: 2},
			want:   false,
		},
		{
			name:   "op failures",
			totals: Totals{Errored: 1},
			want:   true,
		},
		{
			name:   "file failures",
			totals: Totals{FilesErrored: 1},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.totals.HasFailures())
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()

	assert.True(t, opts.IncludeOutcomes)
	assert.True(t, opts.IncludeByFile)
	assert.True(t, opts.IncludeByKind)
	assert.Equal(t, SortByCount, opts.SortBy)
	assert.True(t, opts.SortDesc)
}

func TestSortField_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SortByCount.IsValid())
	assert.True(t, SortByAlpha.IsValid())
	assert.True(t, SortByOutcome.IsValid())
	assert.False(t, SortField("invalid").IsValid())
}
