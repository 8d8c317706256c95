package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/samber/lo"
)

// ConfigPaths are the config file locations discovery found. An empty
// field means that layer has no file.
type ConfigPaths struct {
	// System is the machine-wide config, /etc/fixsweep on Unix.
	System string

	// User is the per-user config under XDG_CONFIG_HOME.
	User string

	// Project is the nearest project config found by upward search.
	Project string

	// Explicit is the --config override, recorded for reporting.
	Explicit string
}

// projectConfigNames are the project config file names, checked in order.
// The dotted forms come first so they win when both spellings exist.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigNames = []string{
	".fixsweep.yml",
	".fixsweep.yaml",
	"fixsweep.yml",
	"fixsweep.yaml",
}

// repoMarkers are directory names that mark a repository root.
//
//nolint:gochecknoglobals // Read-only lookup table.
var repoMarkers = []string{".git", ".hg", ".svn"}

// discoverPaths locates the system, user and project config files.
// Missing files come back as empty strings, not errors.
func discoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("config discovery cancelled: %w", err)
	}

	project, err := findProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstConfigIn(systemConfigDir()),
		User:    firstConfigIn(userConfigDir()),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return filepath.Join(programData, "fixsweep")
	}
	return "/etc/fixsweep"
}

func userConfigDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "fixsweep")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fixsweep")
}

// firstConfigIn returns the first config file present in dir, or "".
func firstConfigIn(dir string) string {
	if dir == "" {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		if path := filepath.Join(dir, name); isRegularFile(path) {
			return path
		}
	}
	return ""
}

// findProjectConfig walks from startDir toward the root looking for a
// project config file. The walk stops empty-handed at a repository root,
// at the home directory, or at the filesystem root: config above any of
// those belongs to someone else's tree.
func findProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	// Home detection is best effort; without it the walk relies on the
	// repo and filesystem boundaries.
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("config search cancelled: %w", err)
		}

		for _, name := range projectConfigNames {
			if path := filepath.Join(dir, name); isRegularFile(path) {
				return path, nil
			}
		}

		if isRepoRoot(dir) || (home != "" && dir == home) {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// isRepoRoot reports whether dir contains a VCS metadata directory.
func isRepoRoot(dir string) bool {
	return lo.SomeBy(repoMarkers, func(marker string) bool {
		info, err := os.Stat(filepath.Join(dir, marker))
		return err == nil && info.IsDir()
	})
}

// isRegularFile reports whether path exists and is not a directory.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
