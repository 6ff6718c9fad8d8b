// Package meta persists version-store metadata: the bound input path, the
// backend variant, and the ordered snapshot collection.
package meta

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileName is the metadata document stored at the root of every version store.
const FileName = "metadata.json"

// ErrCorrupt marks a metadata file that exists but cannot be read or parsed.
// The store stays usable; prior history is lost.
var ErrCorrupt = errors.New("metadata unreadable")

// Snapshot is one recorded capture of the tracked tree. The locator is
// opaque to everything except the backend that produced it.
type Snapshot struct {
	ID        int     `json:"id"`
	Timestamp float64 `json:"timestamp"`
	ISO       string  `json:"iso"`
	Locator   string  `json:"locator"`
}

// Time returns the capture time as a time.Time.
func (s Snapshot) Time() time.Time {
	return TimeOf(s.Timestamp)
}

// TimestampOf converts t to the float-seconds representation used on disk.
func TimestampOf(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// TimeOf is the inverse of TimestampOf.
func TimeOf(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// ISOTime formats t the way snapshot lines and metadata display it.
func ISOTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

// Metadata is the persisted state of one version store.
type Metadata struct {
	InputPath string     `json:"input_path"`
	Backend   string     `json:"backend,omitempty"`
	Snapshots []Snapshot `json:"snapshots"`
}

// Load reads the metadata document under root. A missing file yields an
// empty, unbound store. An unreadable or unparseable file also yields an
// empty store, with ErrCorrupt wrapped into the returned error so the
// caller can warn; the returned Metadata is always usable.
func Load(root string) (*Metadata, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty(), nil
		}
		return empty(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	m := empty()
	if err := json.Unmarshal(data, m); err != nil {
		return empty(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if m.Snapshots == nil {
		m.Snapshots = []Snapshot{}
	}
	m.Sort()
	return m, nil
}

func empty() *Metadata {
	return &Metadata{Snapshots: []Snapshot{}}
}

// Save writes the document under root via write-to-temp-then-rename so a
// crash never leaves a partial file behind.
func (m *Metadata) Save(root string) error {
	m.Sort()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	path := filepath.Join(root, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace metadata: %w", err)
	}
	return nil
}

// Sort orders the collection by ascending timestamp, the canonical order
// every consumer assumes.
func (m *Metadata) Sort() {
	sort.SliceStable(m.Snapshots, func(i, j int) bool {
		return m.Snapshots[i].Timestamp < m.Snapshots[j].Timestamp
	})
}

// NextID returns max(existing ids)+1, or 1 for an empty store. Ids are
// never reused, even after pruning.
func (m *Metadata) NextID() int {
	next := 1
	for _, s := range m.Snapshots {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return next
}

// Append records a snapshot and restores canonical order.
func (m *Metadata) Append(s Snapshot) {
	m.Snapshots = append(m.Snapshots, s)
	m.Sort()
}

// Remove drops the snapshot with the given id, if present.
func (m *Metadata) Remove(id int) {
	out := m.Snapshots[:0]
	for _, s := range m.Snapshots {
		if s.ID != id {
			out = append(out, s)
		}
	}
	m.Snapshots = out
}
