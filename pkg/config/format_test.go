package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/fixsweep/pkg/config"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    config.OutputFormat
		wantErr bool
	}{
		{"text", "text", config.FormatText, false},
		{"table", "table", config.FormatTable, false},
		{"json", "json", config.FormatJSON, false},
		{"diff", "diff", config.FormatDiff, false},
		{"summary", "summary", config.FormatSummary, false},
		{"uppercase", "JSON", config.FormatJSON, false},
		{"surrounding whitespace", "  text ", config.FormatText, false},
		{"unknown", "sarif", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, "text, table, json, diff, summary", config.FormatNames())
}

func TestSummaryOrderIsValid(t *testing.T) {
	assert.True(t, config.SummaryOrderKinds.IsValid())
	assert.True(t, config.SummaryOrderFiles.IsValid())
	assert.False(t, config.SummaryOrder("rules").IsValid())
	assert.False(t, config.SummaryOrder("").IsValid())
}
