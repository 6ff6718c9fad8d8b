package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/dirsnap/internal/treesync"
)

const fullCopyDir = "snapshots"

// FullCopy stores each snapshot as a complete copy of the source tree in a
// directory named by snapshot id.
type FullCopy struct {
	root string
}

// NewFullCopy returns a full-copy backend rooted at storeRoot.
func NewFullCopy(storeRoot string) *FullCopy {
	return &FullCopy{root: storeRoot}
}

func (b *FullCopy) Name() string { return "fullcopy" }

func (b *FullCopy) Init() error {
	if err := os.MkdirAll(filepath.Join(b.root, fullCopyDir), 0755); err != nil {
		return &OpError{Op: "init", Ref: b.root, Err: err}
	}
	return nil
}

func (b *FullCopy) dir(locator string) string {
	return filepath.Join(b.root, fullCopyDir, locator)
}

// Create copies every file under sourceRoot into a fresh snapshot
// directory. The full-copy variant never skips: an unchanged tree still
// produces a new snapshot.
func (b *FullCopy) Create(sourceRoot string, id int, _ time.Time) (string, bool, error) {
	locator := fmt.Sprintf("snapshot_%06d", id)
	dir := b.dir(locator)
	if _, err := os.Stat(dir); err == nil {
		return "", false, &OpError{Op: "create", Ref: locator, Err: fmt.Errorf("snapshot directory already exists")}
	}
	if err := treesync.CopyTree(sourceRoot, dir); err != nil {
		os.RemoveAll(dir)
		return "", false, &OpError{Op: "create", Ref: locator, Err: err}
	}
	return locator, true, nil
}

// Materialize returns the snapshot directory itself; nothing is extracted,
// so cleanup is a no-op.
func (b *FullCopy) Materialize(locator string) (string, func(), error) {
	dir := b.dir(locator)
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return "", nil, &OpError{Op: "materialize", Ref: locator, Err: fmt.Errorf("snapshot directory not found")}
	}
	return dir, func() {}, nil
}

func (b *FullCopy) Delete(locator string) error {
	if err := os.RemoveAll(b.dir(locator)); err != nil {
		return &OpError{Op: "delete", Ref: locator, Err: err}
	}
	return nil
}

var _ Backend = (*FullCopy)(nil)
