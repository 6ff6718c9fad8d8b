// Package backend implements the pluggable snapshot storage variants.
package backend

import (
	"fmt"
	"time"
)

// Default is the variant used when a store does not record one.
const Default = "fullcopy"

// Backend durably stores and retrieves tree snapshots. A store is bound to
// one variant for its whole life; the variant name is recorded in store
// metadata on first use.
type Backend interface {
	// Name returns the variant identifier recorded in store metadata.
	Name() string

	// Init prepares the backend's on-disk layout. Idempotent: initializing
	// an already initialized backend is a no-op.
	Init() error

	// Create captures the tree at sourceRoot as snapshot id taken at ts.
	// ok is false when the backend determined there is nothing to snapshot
	// (only the git variant ever skips); the locator is then empty.
	Create(sourceRoot string, id int, ts time.Time) (locator string, ok bool, err error)

	// Materialize produces a directory holding the snapshot's full tree.
	// cleanup must run on every exit path once the directory is no longer
	// needed; for variants that hand out their durable storage directly it
	// is a no-op.
	Materialize(locator string) (dir string, cleanup func(), err error)

	// Delete removes the snapshot's stored data.
	Delete(locator string) error
}

// OpError is the failure surface shared by all variants: the operation that
// failed, the locator or path involved, and the underlying cause.
type OpError struct {
	Op  string
	Ref string
	Err error
}

func (e *OpError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("backend %s %s: %v", e.Op, e.Ref, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// New returns the named backend variant rooted at storeRoot.
func New(name, storeRoot string) (Backend, error) {
	switch name {
	case "fullcopy":
		return NewFullCopy(storeRoot), nil
	case "archive":
		return NewArchive(storeRoot), nil
	case "git":
		return NewGitCommit(storeRoot), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (available: fullcopy, archive, git)", name)
	}
}
