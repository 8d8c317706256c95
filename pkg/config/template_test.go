package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/fixsweep/pkg/config"
)

func TestGenerateTemplate(t *testing.T) {
	t.Run("minimal template", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)

		text := string(data)
		assert.Contains(t, text, "# fixsweep configuration")
		assert.Contains(t, text, "checker:")
		assert.Contains(t, text, "suppression:")
		assert.Contains(t, text, "//@ts-expect-error")
		// The minimal template keeps optional knobs commented out.
		assert.Contains(t, text, "# jobs: 1")
	})

	t.Run("minimal template parses as valid config", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"npx", "tsc", "--noEmit"}, cfg.Checker.Command)
		assert.Equal(t, "//@ts-expect-error", cfg.Suppression.Marker)
	})

	t.Run("full template documents every key", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
		require.NoError(t, err)

		text := string(data)
		for _, key := range []string{
			"checker:", "command:", "dir:", "timeout_seconds:",
			"suppression:", "marker:", "match_indent:", "include:",
			"ignore:", "backups:", "enabled:", "mode:",
			"require_clean:", "jobs:", "format:",
		} {
			assert.Contains(t, text, key)
		}
	})

	t.Run("full template parses as valid config", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, 600, cfg.Checker.TimeoutSeconds)
		assert.Equal(t, config.FormatText, cfg.Format)
		assert.Equal(t, "auto", cfg.Backups.Mode)
	})

	t.Run("json template is valid json", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.NoError(t, err)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal(data, &parsed))
		assert.Contains(t, parsed, "checker")
		assert.Contains(t, parsed, "suppression")
		assert.Contains(t, parsed, "ignore")
	})
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, []string{"npx", "tsc", "--noEmit"}, cfg.Checker.Command)
	assert.Equal(t, 600, cfg.Checker.TimeoutSeconds)
	assert.Equal(t, "//@ts-expect-error", cfg.Suppression.Marker)
	assert.True(t, cfg.Suppression.IndentMatching())
	assert.Equal(t, []string{"node_modules/**"}, cfg.Ignore)
	assert.False(t, cfg.Backups.Enabled)
	assert.Equal(t, "auto", cfg.Backups.Mode)
	assert.False(t, cfg.RequireClean)
	assert.Equal(t, 1, cfg.Jobs)
	assert.Equal(t, config.FormatText, cfg.Format)
}
