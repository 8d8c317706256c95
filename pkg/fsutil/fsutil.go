// Package fsutil provides the file-safety primitives fixsweep builds on:
// hashing reads, external-modification detection, atomic replacement, and
// sidecar backups.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Sentinel errors for classification via errors.Is.
var (
	ErrNilFileInfo      = errors.New("nil FileInfo")
	ErrNotFound         = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")
)

// FileInfo is a point-in-time snapshot of a file, captured at read time and
// compared again before writing to catch concurrent edits.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64

	// Hash is the SHA-256 of the content as read.
	Hash [32]byte
}

// snapshot builds a FileInfo from a stat result plus the content just read.
func snapshot(path string, stat os.FileInfo, content []byte) *FileInfo {
	return &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}
}

// ReadFile reads path and returns the content together with a snapshot for
// later modification checks. Missing files come back as ErrNotFound so
// callers can downgrade them to a skip; directories and permission problems
// get their own sentinels.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classifyPathErr(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classifyPathErr(path, err)
	}
	return content, snapshot(path, stat, content), nil
}

// classifyPathErr maps OS errors onto the package sentinels, keeping the
// original error in the chain.
func classifyPathErr(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("access %s: %w", path, err)
	}
}

// CheckModified reports whether the file changed since info was captured.
// Deletion counts as a modification. The cheap mtime+size comparison runs
// first; only when both still match is the content re-read and re-hashed,
// since a same-size in-place edit can slip past the quick check.
func CheckModified(ctx context.Context, info *FileInfo) (bool, error) {
	changed, err := quickCompare(ctx, info)
	if err != nil || changed {
		return changed, err
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", info.Path, err)
	}
	return sha256.Sum256(content) != info.Hash, nil
}

// CheckModifiedQuick runs only the mtime+size comparison. False negatives
// are possible; use CheckModified when the answer gates a write.
func CheckModifiedQuick(ctx context.Context, info *FileInfo) (bool, error) {
	return quickCompare(ctx, info)
}

// quickCompare stats info.Path and compares mtime and size against the
// snapshot. A deleted file reports changed.
func quickCompare(ctx context.Context, info *FileInfo) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}

	stat, err := os.Stat(info.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", info.Path, err)
	}

	return !stat.ModTime().Equal(info.ModTime) || stat.Size() != info.Size, nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}
