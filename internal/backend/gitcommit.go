package backend

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

const gitDirName = "repo.git"

// GitCommit stores snapshots as commits in a git repository whose git-dir
// lives inside the store root and whose worktree is the tracked source
// tree. Change detection is delegated to git's own diffing, so an
// unchanged tree produces no snapshot at all — the one variant where
// "did anything change" is answered by the backend itself.
type GitCommit struct {
	root string
}

// NewGitCommit returns a git-backed backend rooted at storeRoot.
func NewGitCommit(storeRoot string) *GitCommit {
	return &GitCommit{root: storeRoot}
}

func (b *GitCommit) Name() string { return "git" }

// Init is satisfied lazily: the repository is created on first Create, once
// the source root is known.
func (b *GitCommit) Init() error { return nil }

func (b *GitCommit) gitDir() string { return filepath.Join(b.root, gitDirName) }

// open opens the repository with sourceRoot as worktree, initializing it on
// first use.
func (b *GitCommit) open(sourceRoot string) (*git.Repository, error) {
	dot := osfs.New(b.gitDir())
	wt := osfs.New(sourceRoot)
	storage := filesystem.NewStorage(dot, cache.NewObjectLRUDefault())

	repo, err := git.Open(storage, wt)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.Init(storage, wt)
	}
	return repo, err
}

// openStore opens the repository for object access only; no worktree is
// needed to read a recorded commit.
func (b *GitCommit) openStore() (*git.Repository, error) {
	dot := osfs.New(b.gitDir())
	storage := filesystem.NewStorage(dot, cache.NewObjectLRUDefault())
	return git.Open(storage, nil)
}

// Create stages every current file state and commits it. When the staged
// tree is identical to the previous commit it returns ok=false instead of
// recording an empty revision.
func (b *GitCommit) Create(sourceRoot string, id int, ts time.Time) (string, bool, error) {
	repo, err := b.open(sourceRoot)
	if err != nil {
		return "", false, &OpError{Op: "create", Ref: b.gitDir(), Err: err}
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", false, &OpError{Op: "create", Ref: b.gitDir(), Err: err}
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", false, &OpError{Op: "stage", Ref: sourceRoot, Err: err}
	}
	status, err := wt.Status()
	if err != nil {
		return "", false, &OpError{Op: "status", Ref: sourceRoot, Err: err}
	}
	if status.IsClean() {
		return "", false, nil
	}

	msg := fmt.Sprintf("snapshot %d %s", id, ts.Format("2006-01-02T15:04:05"))
	sig := &object.Signature{Name: "dirsnap", Email: "dirsnap@local", When: ts}
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return "", false, &OpError{Op: "commit", Ref: sourceRoot, Err: err}
	}
	return hash.String(), true, nil
}

// Materialize writes the commit's full tree into a fresh temporary
// directory under the store root. cleanup removes it and must run on every
// exit path.
func (b *GitCommit) Materialize(locator string) (string, func(), error) {
	repo, err := b.openStore()
	if err != nil {
		return "", nil, &OpError{Op: "materialize", Ref: locator, Err: err}
	}
	commit, err := repo.CommitObject(plumbing.NewHash(locator))
	if err != nil {
		return "", nil, &OpError{Op: "materialize", Ref: locator, Err: err}
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", nil, &OpError{Op: "materialize", Ref: locator, Err: err}
	}

	dir, err := os.MkdirTemp(b.root, "checkout_")
	if err != nil {
		return "", nil, &OpError{Op: "materialize", Ref: locator, Err: err}
	}
	if err := writeTree(tree, dir); err != nil {
		os.RemoveAll(dir)
		return "", nil, &OpError{Op: "materialize", Ref: locator, Err: err}
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

func writeTree(tree *object.Tree, dest string) error {
	return tree.Files().ForEach(func(f *object.File) error {
		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if f.Mode == filemode.Symlink {
			link, err := f.Contents()
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		}
		mode, err := f.Mode.ToOSFileMode()
		if err != nil {
			return err
		}
		r, err := f.Reader()
		if err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
		if err != nil {
			r.Close()
			return err
		}
		_, copyErr := io.Copy(out, r)
		r.Close()
		if err := out.Close(); copyErr == nil {
			copyErr = err
		}
		return copyErr
	})
}

// Delete intentionally leaves history untouched: pruning a git-backed
// snapshot removes only its metadata entry, and the commit stays reachable
// in the underlying repository. History trimming is a documented non-goal
// of this variant.
func (b *GitCommit) Delete(string) error { return nil }

var _ Backend = (*GitCommit)(nil)
