package backend

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGitCommitCreateAndSkipUnchanged(t *testing.T) {
	store := t.TempDir()
	source := t.TempDir()
	writeFile(t, source, "a.txt", "alpha")

	b := NewGitCommit(store)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	locator, ok, err := b.Create(source, 1, time.Now())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !ok || locator == "" {
		t.Fatalf("first Create should commit, got ok=%v locator=%q", ok, locator)
	}

	// No intervening changes: the second call must report nothing to
	// snapshot rather than recording an empty revision.
	locator2, ok2, err := b.Create(source, 2, time.Now())
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if ok2 || locator2 != "" {
		t.Errorf("unchanged tree produced a snapshot: ok=%v locator=%q", ok2, locator2)
	}

	// A real change commits again, with a distinct revision.
	writeFile(t, source, "b.txt", "beta")
	locator3, ok3, err := b.Create(source, 2, time.Now())
	if err != nil {
		t.Fatalf("third Create failed: %v", err)
	}
	if !ok3 {
		t.Fatal("changed tree should produce a snapshot")
	}
	if locator3 == locator {
		t.Error("distinct snapshots must have distinct commit identifiers")
	}
}

func TestGitCommitMaterialize(t *testing.T) {
	store := t.TempDir()
	source := t.TempDir()
	writeFile(t, source, "a.txt", "v1")
	writeFile(t, source, filepath.Join("sub", "b.txt"), "keep")

	b := NewGitCommit(store)
	loc1, ok, err := b.Create(source, 1, time.Now())
	if err != nil || !ok {
		t.Fatalf("Create failed: ok=%v err=%v", ok, err)
	}

	writeFile(t, source, "a.txt", "v2")
	loc2, ok, err := b.Create(source, 2, time.Now())
	if err != nil || !ok {
		t.Fatalf("second Create failed: ok=%v err=%v", ok, err)
	}

	dir, cleanup, err := b.Materialize(loc1)
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if got := readFile(t, dir, "a.txt"); got != "v1" {
		t.Errorf("materialized a.txt = %q, want v1", got)
	}
	if got := readFile(t, dir, filepath.Join("sub", "b.txt")); got != "keep" {
		t.Errorf("materialized sub/b.txt = %q", got)
	}
	cleanup()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("cleanup did not remove the checkout directory")
	}

	// Deleting a snapshot is metadata-only for this variant; the commit
	// stays materializable.
	if err := b.Delete(loc2); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	dir2, cleanup2, err := b.Materialize(loc2)
	if err != nil {
		t.Fatalf("Materialize after Delete failed: %v", err)
	}
	defer cleanup2()
	if got := readFile(t, dir2, "a.txt"); got != "v2" {
		t.Errorf("post-delete materialize a.txt = %q, want v2", got)
	}
}

func TestGitCommitEmptyTreeSkips(t *testing.T) {
	b := NewGitCommit(t.TempDir())
	_, ok, err := b.Create(t.TempDir(), 1, time.Now())
	if err != nil {
		t.Fatalf("Create on empty tree failed: %v", err)
	}
	if ok {
		t.Error("an empty tree has nothing to snapshot")
	}
}
