package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupSuffix is appended to a file's path to name its sidecar backup.
const BackupSuffix = ".fixsweep.bak"

// BackupMode selects where backups go, if anywhere.
type BackupMode string

const (
	// BackupModeSidecar keeps a copy next to the original under BackupSuffix.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone turns backups off.
	BackupModeNone BackupMode = "none"

	// BackupModeAuto backs up only files version control would not recover.
	// The tracked-and-clean decision happens in the caller; at this level
	// auto stores sidecar-style.
	BackupModeAuto BackupMode = "auto"
)

// BackupConfig controls backup behavior.
type BackupConfig struct {
	// Enabled indicates whether backups should be created.
	Enabled bool

	// Mode specifies how backups are stored.
	Mode BackupMode
}

// DefaultBackupConfig returns the stock configuration: disabled, sidecar.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{
		Enabled: false,
		Mode:    BackupModeSidecar,
	}
}

// BackupPath names the backup location for path under the given mode. It is
// empty when the mode stores no backups.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	// Sidecar, auto, and anything unrecognized store next to the original.
	return path + BackupSuffix
}

// CreateBackup copies path to its backup location unless one is already
// there, reporting whether a new backup was written. An existing backup is
// never overwritten, so the pristine copy from the first run survives
// re-runs. A missing original is not an error.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if !cfg.Enabled || cfg.Mode == BackupModeNone {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	backupPath := BackupPath(path, cfg.Mode)
	if backupPath == "" {
		return false, nil
	}

	switch _, err := os.Stat(backupPath); {
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat backup path: %w", err)
	}

	wrote, err := copyFileAtomic(ctx, path, backupPath)
	if err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}
	return wrote, nil
}

// RestoreBackup copies the backup for path back over the original, reporting
// whether anything was restored. No backup on disk is not an error.
func RestoreBackup(ctx context.Context, path string, mode BackupMode) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("restore backup: %w", err)
	}

	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false, nil
	}

	restored, err := copyFileAtomic(ctx, backupPath, path)
	if err != nil {
		return false, fmt.Errorf("restore backup: %w", err)
	}
	return restored, nil
}

// copyFileAtomic clones src to dst with src's mode via WriteAtomic. A missing
// src reports (false, nil).
func copyFileAtomic(ctx context.Context, src, dst string) (bool, error) {
	content, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", src, err)
	}

	stat, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", src, err)
	}

	if err := WriteAtomic(ctx, dst, content, stat.Mode()); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveBackup deletes the backup for path if present, reporting whether one
// was removed.
func RemoveBackup(path string, mode BackupMode) (bool, error) {
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false, nil
	}

	switch err := os.Remove(backupPath); {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("remove backup: %w", err)
	}
}

// BackupExists reports whether path currently has a backup on disk.
func BackupExists(path string, mode BackupMode) bool {
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return false
	}
	_, err := os.Stat(backupPath)
	return err == nil
}
