package fsutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for files that do not exist yet and
// were given no explicit mode.
const DefaultFileMode os.FileMode = 0644

// WriteAtomic replaces the file at path with content in a single step. The
// bytes are staged to a temp file in the target's directory, synced and
// chmodded there, then renamed over the destination. Readers never observe a
// half-written file, and on any error the destination keeps its previous
// content. A mode of 0 selects DefaultFileMode.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	staged, err := stageContent(path, content, mode)
	if err != nil {
		return err
	}

	// Rename is atomic only when source and destination share a filesystem;
	// stageContent puts the temp file in the destination directory for that.
	if err := os.Rename(staged, path); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// stageContent writes content to a fresh temp file next to path, fully synced
// and with its final mode already set, and returns the temp file's name. On
// error the temp file is removed.
func stageContent(path string, content []byte, mode os.FileMode) (name string, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name = tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(name)
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(name, mode); err != nil {
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	return name, nil
}

// WriteAtomicIfChanged writes only when content differs from what is on disk,
// reporting whether a write happened. A missing file always gets written.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("write atomic: %w", err)
	}

	current, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(current, content) {
			return false, nil
		}
	case !os.IsNotExist(err):
		return false, fmt.Errorf("read existing: %w", err)
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}
