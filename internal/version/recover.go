package version

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/dirsnap/internal/journal"
	"github.com/blackwell-systems/dirsnap/internal/meta"
	"github.com/blackwell-systems/dirsnap/internal/recovery"
	"github.com/blackwell-systems/dirsnap/internal/treesync"
)

// Recover restores the bound directory to the snapshot selected by
// pointSpec and returns that snapshot. The restore synchronizes the live
// tree in place: files the snapshot lacks are removed, everything else is
// overwritten from the snapshot.
func (s *Store) Recover(pointSpec string) (meta.Snapshot, error) {
	snap, err := recovery.Resolve(pointSpec, s.Snapshots(), time.Now())
	if err != nil {
		return meta.Snapshot{}, err
	}

	dir, cleanup, err := s.backend.Materialize(snap.Locator)
	if err != nil {
		return meta.Snapshot{}, fmt.Errorf("materialize snapshot %d: %w", snap.ID, err)
	}
	defer cleanup()

	if err := treesync.Restore(s.Source, dir); err != nil {
		return meta.Snapshot{}, fmt.Errorf("restore snapshot %d: %w", snap.ID, err)
	}

	s.record(journal.KindRestore, snap.ID, fmt.Sprintf("point %q", pointSpec))
	return snap, nil
}
