// Package debounce aggregates raw filesystem change notifications into a
// single snapshot decision per quiet period.
package debounce

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/blackwell-systems/dirsnap/internal/pathutil"
)

// Window is the default quiet period required after the last change before
// a snapshot is taken. It coalesces bursts of writes, such as an editor's
// save-to-temp-then-rename sequence, into one consistent snapshot.
const Window = 2 * time.Second

// Debouncer collects change notifications for paths under a tracked root.
// Notify is safe to call from the notification source's goroutine and never
// blocks on snapshot work; it only flips a flag under a mutex.
type Debouncer struct {
	root string // absolute

	mu      sync.Mutex
	pending bool
	last    time.Time
}

// New returns a Debouncer for the given absolute tracked root.
func New(root string) *Debouncer {
	return &Debouncer{root: root}
}

// Notify records a change at path. Paths outside the tracked root are
// ignored.
func (d *Debouncer) Notify(path string) {
	if path == "" {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil || !pathutil.Contains(d.root, abs) {
		return
	}
	d.mu.Lock()
	d.pending = true
	d.last = time.Now()
	d.mu.Unlock()
}

// ShouldSnapshot reports whether a change is pending and the quiet window
// has elapsed since the last one. A true result consumes the pending
// signal, so one quiet period yields exactly one snapshot decision.
func (d *Debouncer) ShouldSnapshot(now time.Time, window time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pending || now.Sub(d.last) < window {
		return false
	}
	d.pending = false
	return true
}
