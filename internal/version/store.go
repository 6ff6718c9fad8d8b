// Package version implements the version store: the per-directory snapshot
// collection, its metadata, and the track and recover flows built on top of
// the pluggable backends.
package version

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blackwell-systems/dirsnap/internal/backend"
	"github.com/blackwell-systems/dirsnap/internal/journal"
	"github.com/blackwell-systems/dirsnap/internal/meta"
	"github.com/blackwell-systems/dirsnap/internal/pathutil"
	"github.com/blackwell-systems/dirsnap/internal/retention"
)

// ErrBindingConflict is returned when a store already tracks a different
// input path than the one given.
var ErrBindingConflict = errors.New("version store is bound to a different input path")

// ErrPathNesting is returned when the store root lies inside the tracked
// tree, which would make every snapshot include the store itself.
var ErrPathNesting = errors.New("version store cannot live inside the tracked directory")

// ErrBackendMismatch is returned when the requested backend differs from the
// one the store was created with.
var ErrBackendMismatch = errors.New("store already uses a different backend")

// Store is an open version store bound to one input directory.
type Store struct {
	// Root is the absolute store directory.
	Root string
	// Source is the absolute tracked input directory.
	Source string

	backend backend.Backend
	journal *journal.Journal

	mu   sync.Mutex // guards meta while the tracking loop runs
	meta *meta.Metadata
}

// Open opens (creating if needed) the version store at storeRoot for the
// given source directory. backendName selects the snapshot backend; an
// empty value means the store's recorded backend, or the default for a new
// store. The binding and backend choice are validated against any existing
// metadata but only persisted when the first snapshot is taken.
func Open(source, storeRoot, backendName string) (*Store, error) {
	absSource, err := pathutil.Resolve(source)
	if err != nil {
		return nil, fmt.Errorf("resolve input path: %w", err)
	}
	fi, err := os.Stat(absSource)
	if err != nil {
		return nil, fmt.Errorf("input path: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", absSource)
	}

	absRoot, err := pathutil.Resolve(storeRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	if pathutil.Contains(absSource, absRoot) {
		return nil, fmt.Errorf("%w: %s is under %s", ErrPathNesting, absRoot, absSource)
	}

	if err := os.MkdirAll(absRoot, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	m, err := meta.Load(absRoot)
	if err != nil {
		// The returned metadata is usable; prior history is gone.
		fmt.Fprintf(os.Stderr, "Warning: %v; starting with empty snapshot history\n", err)
	}

	if m.InputPath == "" {
		m.InputPath = absSource
	} else if m.InputPath != absSource {
		return nil, fmt.Errorf("%w: bound to %s, asked to track %s",
			ErrBindingConflict, m.InputPath, absSource)
	}

	name := backendName
	if name == "" {
		name = m.Backend
	}
	if name == "" {
		name = backend.Default
	}
	if m.Backend != "" && name != m.Backend {
		return nil, fmt.Errorf("%w: store uses %q, requested %q",
			ErrBackendMismatch, m.Backend, name)
	}
	m.Backend = name

	b, err := backend.New(name, absRoot)
	if err != nil {
		return nil, err
	}
	if err := b.Init(); err != nil {
		return nil, fmt.Errorf("initialize %s backend: %w", name, err)
	}

	j, err := journal.Open(filepath.Join(absRoot, "journal.db"))
	if err != nil {
		// History is a convenience; snapshots work without it.
		fmt.Fprintf(os.Stderr, "Warning: event journal unavailable: %v\n", err)
		j = nil
	}

	return &Store{
		Root:    absRoot,
		Source:  absSource,
		backend: b,
		meta:    m,
		journal: j,
	}, nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	if s.journal != nil {
		return s.journal.Close()
	}
	return nil
}

// Backend returns the variant name this store uses.
func (s *Store) Backend() string {
	return s.backend.Name()
}

// Snapshots returns the store's snapshots in ascending timestamp order.
func (s *Store) Snapshots() []meta.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]meta.Snapshot, len(s.meta.Snapshots))
	copy(out, s.meta.Snapshots)
	return out
}

// History returns the most recent journal events, newest first.
func (s *Store) History(limit int) ([]*journal.Event, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.List(limit)
}

// record appends a journal event, warning instead of failing: journal
// trouble must never abort a snapshot cycle.
func (s *Store) record(kind string, snapshotID int, detail string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(kind, snapshotID, detail); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// Capture runs one snapshot cycle: create, register, prune, persist. The
// returned ok is false when the backend found nothing to snapshot. A nil
// spec disables pruning.
func (s *Store) Capture(spec *retention.Spec) (meta.Snapshot, bool, error) {
	return s.capture(spec, journal.KindSnapshot)
}

func (s *Store) capture(spec *retention.Spec, kind string) (meta.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.meta.NextID()
	now := time.Now()

	locator, ok, err := s.backend.Create(s.Source, id, now)
	if err != nil {
		return meta.Snapshot{}, false, err
	}
	if !ok {
		return meta.Snapshot{}, false, nil
	}

	snap := meta.Snapshot{
		ID:        id,
		Timestamp: meta.TimestampOf(now),
		ISO:       meta.ISOTime(now),
		Locator:   locator,
	}
	s.meta.Append(snap)

	if spec != nil {
		s.prune(*spec, now)
	}

	if err := s.meta.Save(s.Root); err != nil {
		return meta.Snapshot{}, false, err
	}
	s.record(kind, snap.ID, "locator "+snap.Locator)
	return snap, true, nil
}

// prune removes snapshots outside the retention set. Backend deletion
// failures are warned about and the entry kept, so a later cycle retries.
// Caller holds s.mu.
func (s *Store) prune(spec retention.Spec, now time.Time) {
	keep := spec.Keep(s.meta.Snapshots, now)
	snaps := make([]meta.Snapshot, len(s.meta.Snapshots))
	copy(snaps, s.meta.Snapshots)
	for _, snap := range snaps {
		if keep[snap.ID] {
			continue
		}
		if err := s.backend.Delete(snap.Locator); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not remove snapshot %d: %v\n", snap.ID, err)
			continue
		}
		s.meta.Remove(snap.ID)
		s.record(journal.KindPrune, snap.ID, spec.String())
	}
}
