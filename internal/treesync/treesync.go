// Package treesync performs one-directional directory synchronization: the
// destructive diff-and-sync step of a restore, plus the copy helpers the
// full-copy backend shares.
package treesync

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// RelFiles returns the set of root-relative file paths under root.
// Directories are not tracked as entities; only file leaves (regular files
// and symlinks) count.
func RelFiles(root string) (map[string]bool, error) {
	files := make(map[string]bool)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[rel] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// Restore makes sourceRoot's file set and contents match snapshotRoot.
// Files present only in sourceRoot are deleted first, then every snapshot
// file is copied over unconditionally, creating directories as needed and
// preserving permissions and modification times. Deletion runs before copy
// so a path that is a file on one side and a directory on the other
// resolves toward the snapshot's shape.
//
// Destructive and non-transactional: a crash mid-restore leaves the tree
// partially migrated.
func Restore(sourceRoot, snapshotRoot string) error {
	current, err := RelFiles(sourceRoot)
	if err != nil {
		return err
	}
	snap, err := RelFiles(snapshotRoot)
	if err != nil {
		return err
	}

	for rel := range current {
		if snap[rel] {
			continue
		}
		if err := os.Remove(filepath.Join(sourceRoot, rel)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete %s: %w", rel, err)
		}
	}

	for rel := range snap {
		src := filepath.Join(snapshotRoot, rel)
		dst := filepath.Join(sourceRoot, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("create directory for %s: %w", rel, err)
		}
		// A directory sitting where the snapshot has a file loses.
		if fi, err := os.Lstat(dst); err == nil && fi.IsDir() {
			if err := os.RemoveAll(dst); err != nil {
				return fmt.Errorf("replace directory %s: %w", rel, err)
			}
		}
		if err := CopyFile(src, dst); err != nil {
			return fmt.Errorf("copy %s: %w", rel, err)
		}
	}
	return nil
}

// CopyFile copies src to dst, overwriting dst, preserving the source's mode
// and modification time. Symlinks are recreated as links.
func CopyFile(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		os.Remove(dst)
		return os.Symlink(target, dst)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// CopyTree recursively copies every file under srcRoot into dstRoot,
// creating dstRoot and intermediate directories as needed.
func CopyTree(srcRoot, dstRoot string) error {
	return filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dstRoot, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return CopyFile(path, target)
	})
}
