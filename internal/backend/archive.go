package backend

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const archiveDir = "archives"

// Archive stores each snapshot as a single tar.gz file named by snapshot
// id. Materialize extracts into a temporary directory the caller releases
// through the returned cleanup.
type Archive struct {
	root string
}

// NewArchive returns an archive backend rooted at storeRoot.
func NewArchive(storeRoot string) *Archive {
	return &Archive{root: storeRoot}
}

func (b *Archive) Name() string { return "archive" }

func (b *Archive) Init() error {
	if err := os.MkdirAll(filepath.Join(b.root, archiveDir), 0755); err != nil {
		return &OpError{Op: "init", Ref: b.root, Err: err}
	}
	return nil
}

func (b *Archive) path(locator string) string {
	return filepath.Join(b.root, archiveDir, locator)
}

// Create packages the source tree into one archive. Like fullcopy it never
// skips.
func (b *Archive) Create(sourceRoot string, id int, _ time.Time) (string, bool, error) {
	locator := fmt.Sprintf("snapshot_%06d.tar.gz", id)
	path := b.path(locator)
	if err := writeArchive(sourceRoot, path); err != nil {
		os.Remove(path)
		return "", false, &OpError{Op: "create", Ref: locator, Err: err}
	}
	return locator, true, nil
}

// Materialize extracts the archive into a fresh temporary directory under
// the store root. cleanup removes it and must run on every exit path.
func (b *Archive) Materialize(locator string) (string, func(), error) {
	dir, err := os.MkdirTemp(b.root, "extract_")
	if err != nil {
		return "", nil, &OpError{Op: "materialize", Ref: locator, Err: err}
	}
	if err := extractArchive(b.path(locator), dir); err != nil {
		os.RemoveAll(dir)
		return "", nil, &OpError{Op: "materialize", Ref: locator, Err: err}
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

func (b *Archive) Delete(locator string) error {
	if err := os.Remove(b.path(locator)); err != nil && !os.IsNotExist(err) {
		return &OpError{Op: "delete", Ref: locator, Err: err}
	}
	return nil
}

func writeArchive(sourceRoot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	walkErr := filepath.WalkDir(sourceRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(sourceRoot, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		var link string
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(p); err != nil {
				return err
			}
		}
		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			src, err := os.Open(p)
			if err != nil {
				return err
			}
			_, copyErr := io.Copy(tw, src)
			src.Close()
			if copyErr != nil {
				return copyErr
			}
		}
		return nil
	})

	if err := tw.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if err := gw.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if err := f.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	return walkErr
}

func extractArchive(path, dest string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gr.Close()

	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		target := filepath.Join(dest, filepath.FromSlash(hdr.Name))
		if rel, err := filepath.Rel(dest, target); err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("archive entry escapes destination: %s", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode&0777)); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode&0777))
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			if err := os.Chtimes(target, hdr.ModTime, hdr.ModTime); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		}
	}
	return nil
}

var _ Backend = (*Archive)(nil)
