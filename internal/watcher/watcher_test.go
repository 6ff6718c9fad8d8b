package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// recordingSink collects notified paths.
type recordingSink struct {
	mu    sync.Mutex
	paths []string
}

func (s *recordingSink) Notify(path string) {
	s.mu.Lock()
	s.paths = append(s.paths, path)
	s.mu.Unlock()
}

func (s *recordingSink) sawPrefix(prefix string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.paths {
		if p == prefix || filepath.Dir(p) == prefix || len(p) >= len(prefix) && p[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcherForwardsEvents(t *testing.T) {
	root := t.TempDir()
	sink := &recordingSink{}

	w, err := New(root, sink)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	target := filepath.Join(root, "file.txt")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 5*time.Second, func() bool { return sink.sawPrefix(target) }) {
		t.Error("write event was never forwarded to the sink")
	}
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	sink := &recordingSink{}

	w, err := New(root, sink)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	sub := filepath.Join(root, "newdir")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to register the new directory.
	if !waitFor(t, 5*time.Second, func() bool { return sink.sawPrefix(sub) }) {
		t.Fatal("directory create event was never forwarded")
	}

	inner := filepath.Join(sub, "inner.txt")
	if err := os.WriteFile(inner, []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 5*time.Second, func() bool { return sink.sawPrefix(inner) }) {
		t.Error("event inside a newly created directory was never forwarded")
	}
}
