package pathutil

import (
	"path/filepath"
	"testing"
)

func TestContains(t *testing.T) {
	tests := []struct {
		parent string
		child  string
		want   bool
	}{
		{"/home/user/project", "/home/user/project/src/main.go", true},
		{"/home/user/project", "/home/user/project", true},
		{"/home/user/project", "/home/user/other", false},
		{"/home/user/project", "/home/user", false},
		// A sibling whose name shares a prefix must not count as nested.
		{"/home/user/proj", "/home/user/project/file", false},
		{"/a/b", "/a/b/../c", false},
	}

	for _, tt := range tests {
		if got := Contains(tt.parent, tt.child); got != tt.want {
			t.Errorf("Contains(%q, %q) = %v, want %v", tt.parent, tt.child, got, tt.want)
		}
	}
}

func TestResolveRelative(t *testing.T) {
	got, err := Resolve("some/dir")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("Resolve(%q) = %q, want absolute path", "some/dir", got)
	}
}

func TestResolveHome(t *testing.T) {
	t.Setenv("HOME", "/home/testuser")

	got, err := Resolve("~/work")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "/home/testuser/work" {
		t.Errorf("Resolve(~/work) = %q, want /home/testuser/work", got)
	}
}
