package configloader

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/fixsweep/pkg/config"
)

// envVarPrefix namespaces every fixsweep environment variable.
const envVarPrefix = "FIXSWEEP_"

// envVars maps a variable name, without the prefix, to the function that
// parses its value into the config. Errors come back wrapped with the
// full variable name.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]func(*config.Config, string) error{
	"MARKER": func(cfg *config.Config, value string) error {
		cfg.Suppression.Marker = value
		return nil
	},
	"CHECKER": func(cfg *config.Config, value string) error {
		parts := strings.Fields(value)
		if len(parts) == 0 {
			return errors.New("empty command")
		}
		cfg.Checker.Command = parts
		return nil
	},
	"INCLUDE": func(cfg *config.Config, value string) error {
		cfg.Suppression.Include = envList(value)
		return nil
	},
	"IGNORE": func(cfg *config.Config, value string) error {
		cfg.Ignore = envList(value)
		return nil
	},
	"FORMAT": func(cfg *config.Config, value string) error {
		cfg.Format = config.OutputFormat(value)
		return nil
	},
	"BACKUPS_MODE": func(cfg *config.Config, value string) error {
		cfg.Backups.Mode = value
		return nil
	},
	"JOBS": func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		cfg.Jobs = n
		return nil
	},
	"DRY_RUN":         boolVar(func(cfg *config.Config, b bool) { cfg.DryRun = b }),
	"NO_BACKUPS":      boolVar(func(cfg *config.Config, b bool) { cfg.NoBackups = b }),
	"REQUIRE_CLEAN":   boolVar(func(cfg *config.Config, b bool) { cfg.RequireClean = b }),
	"BACKUPS_ENABLED": boolVar(func(cfg *config.Config, b bool) { cfg.Backups.Enabled = b }),
}

// LoadFromEnv applies FIXSWEEP_* environment variables to cfg. Unset and
// empty variables change nothing.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for suffix, apply := range envVars {
		name := envVarPrefix + suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

// boolVar adapts a bool setter into an env parser.
func boolVar(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(cfg, b)
		return nil
	}
}

// envList splits a comma-separated value, trimming whitespace and
// dropping empty elements.
func envList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
