package meta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissing(t *testing.T) {
	m, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load of empty dir failed: %v", err)
	}
	if m.InputPath != "" {
		t.Errorf("expected unbound store, got input path %q", m.InputPath)
	}
	if len(m.Snapshots) != 0 {
		t.Errorf("expected no snapshots, got %d", len(m.Snapshots))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := &Metadata{
		InputPath: "/data/project",
		Backend:   "fullcopy",
		Snapshots: []Snapshot{
			{ID: 2, Timestamp: 1100, ISO: "1970-01-01T00:18:20", Locator: "snapshot_000002"},
			{ID: 1, Timestamp: 1000, ISO: "1970-01-01T00:16:40", Locator: "snapshot_000001"},
		},
	}
	if err := m.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.InputPath != "/data/project" {
		t.Errorf("input path = %q, want /data/project", loaded.InputPath)
	}
	if loaded.Backend != "fullcopy" {
		t.Errorf("backend = %q, want fullcopy", loaded.Backend)
	}
	if len(loaded.Snapshots) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(loaded.Snapshots))
	}
	// Canonical order is ascending timestamp.
	if loaded.Snapshots[0].ID != 1 || loaded.Snapshots[1].ID != 2 {
		t.Errorf("snapshots not in ascending timestamp order: %+v", loaded.Snapshots)
	}

	// No leftover temp file from the atomic write.
	if _, err := os.Stat(filepath.Join(dir, FileName+".tmp")); !os.IsNotExist(err) {
		t.Error("temporary metadata file left behind")
	}
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	if m == nil || len(m.Snapshots) != 0 || m.InputPath != "" {
		t.Errorf("corrupt load should yield a fresh empty store, got %+v", m)
	}
	// The empty replacement must still be saveable.
	if err := m.Save(dir); err != nil {
		t.Errorf("Save after corrupt load failed: %v", err)
	}
}

func TestNextIDNeverReused(t *testing.T) {
	m := &Metadata{}
	if got := m.NextID(); got != 1 {
		t.Errorf("NextID on empty store = %d, want 1", got)
	}

	m.Append(Snapshot{ID: 1, Timestamp: 1000})
	m.Append(Snapshot{ID: 2, Timestamp: 1100})
	m.Append(Snapshot{ID: 3, Timestamp: 1200})
	m.Remove(1)
	m.Remove(3)

	// Only id 2 remains, but 3 was used once and must never come back.
	if got := m.NextID(); got != 3 {
		t.Errorf("NextID after pruning = %d, want 3", got)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	now := time.Date(2023, 6, 1, 12, 0, 0, 500000000, time.UTC)
	ts := TimestampOf(now)
	back := TimeOf(ts)
	if diff := back.Sub(now); diff > time.Millisecond || diff < -time.Millisecond {
		t.Errorf("round trip drifted by %v", diff)
	}
}
