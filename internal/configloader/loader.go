// Package configloader resolves the effective fixsweep configuration.
//
// Sources merge lowest to highest precedence: built-in defaults, the
// system config, the user config under XDG_CONFIG_HOME, the project
// config found by upward search, an explicit --config file, FIXSWEEP_*
// environment variables, and finally CLI flags.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/fixsweep/pkg/config"
)

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// WorkingDir is where the project config search starts. Empty means
	// the current working directory.
	WorkingDir string

	// ExplicitPath is a config file named on the command line. A missing
	// explicit file is a load error, unlike the discovered layers.
	ExplicitPath string

	// IgnoreSystemConfig skips the system-level config file.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips the user-level config file.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips the project config search.
	IgnoreProjectConfig bool

	// IgnoreEnv skips FIXSWEEP_* environment variables.
	IgnoreEnv bool

	// CLIConfig carries flag-provided settings, the highest-precedence
	// source.
	CLIConfig *config.Config
}

// LoadResult is the resolved configuration plus where it came from.
type LoadResult struct {
	// Config is the merged, validated configuration.
	Config *config.Config

	// Paths are the discovered config file locations.
	Paths *ConfigPaths

	// LoadedFrom lists the files actually read, lowest precedence first.
	LoadedFrom []string

	// Warnings are non-fatal findings from validation.
	Warnings []string
}

// Load merges every configuration source and validates the result.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := discoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name string
		path string
		skip bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", opts.ExplicitPath, false},
	}
	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}

		layerCfg, err := readConfigFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		cfg = merge(cfg, layerCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, warning := range validation.Warnings {
		result.Warnings = append(result.Warnings, warning.Message)
	}

	result.Config = cfg
	return result, nil
}

// readConfigFile reads one YAML config layer.
func readConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return config.FromYAML(content)
}
