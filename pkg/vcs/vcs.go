// Package vcs provides version-control awareness for patched files.
//
// The engine uses it to decide which files git already protects: tracked,
// unmodified files can be restored with the VCS, so sidecar backups are
// redundant for them, while untracked or dirty files have state only the
// engine's own backups can preserve.
package vcs

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
)

// FileState classifies a file relative to its enclosing repository.
type FileState int

const (
	// StateUntracked means the repository does not track the file.
	StateUntracked FileState = iota

	// StateClean means the file is tracked with no uncommitted changes.
	StateClean

	// StateDirty means the file is tracked but has staged or unstaged
	// changes.
	StateDirty
)

// String returns the lowercase name of the state.
func (s FileState) String() string {
	switch s {
	case StateUntracked:
		return "untracked"
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	default:
		return "unknown"
	}
}

// Repo is an open repository with lazily computed worktree status.
type Repo struct {
	root string
	repo *git.Repository

	loadOnce sync.Once
	loadErr  error
	status   git.Status
	index    *index.Index
}

// Open locates the repository enclosing dir, searching parent directories
// the way git itself does. A nil Repo with a nil error means dir is not
// inside a repository; that is an answer, not a failure.
func Open(dir string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return nil, nil
		}
		return nil, fmt.Errorf("open worktree: %w", err)
	}

	return &Repo{
		root: wt.Filesystem.Root(),
		repo: repo,
	}, nil
}

// Root returns the worktree root directory.
func (r *Repo) Root() string {
	if r == nil {
		return ""
	}
	return r.root
}

// load computes worktree status and reads the index exactly once. Status
// walks the whole worktree, so callers that never ask for file state never
// pay for it.
func (r *Repo) load() error {
	r.loadOnce.Do(func() {
		wt, err := r.repo.Worktree()
		if err != nil {
			r.loadErr = fmt.Errorf("open worktree: %w", err)
			return
		}
		status, err := wt.Status()
		if err != nil {
			r.loadErr = fmt.Errorf("read worktree status: %w", err)
			return
		}
		idx, err := r.repo.Storer.Index()
		if err != nil {
			r.loadErr = fmt.Errorf("read index: %w", err)
			return
		}
		r.status = status
		r.index = idx
	})
	return r.loadErr
}

// FileState reports how the repository sees path. The path may be absolute
// or relative to the current directory. Files outside the worktree, and all
// files when the receiver is nil, report StateUntracked: nothing protects
// them.
func (r *Repo) FileState(path string) (FileState, error) {
	if r == nil {
		return StateUntracked, nil
	}
	if err := r.load(); err != nil {
		return StateUntracked, err
	}

	rel, err := r.relPath(path)
	if err != nil {
		return StateUntracked, nil
	}

	tracked := true
	if _, err := r.index.Entry(rel); err != nil {
		if !errors.Is(err, index.ErrEntryNotFound) {
			return StateUntracked, fmt.Errorf("index lookup %s: %w", rel, err)
		}
		tracked = false
	}

	st, inStatus := r.status[rel]
	switch {
	case !tracked:
		return StateUntracked, nil
	case inStatus && (st.Staging != git.Unmodified || st.Worktree != git.Unmodified):
		return StateDirty, nil
	default:
		return StateClean, nil
	}
}

// relPath converts path to the slash-separated worktree-relative form used
// as status and index keys.
func (r *Repo) relPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside worktree %s", path, r.root)
	}
	return filepath.ToSlash(rel), nil
}
