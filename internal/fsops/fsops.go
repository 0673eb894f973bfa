package fsops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MergeDir recursively unions src onto dst: every file under src is copied
// to the same relative path under dst, overwriting what is there. Entries
// present only in dst are left alone; nothing is ever deleted.
func MergeDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFileTo(src, dst, info.Mode().Perm())
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, ent := range entries {
		if err := MergeDir(filepath.Join(src, ent.Name()), filepath.Join(dst, ent.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Simplify deletes everything at the top level of dir except the manifest
// file and the two payload directories. Deletion is recursive and final.
func Simplify(dir string) error {
	const manifest = "manifest.json"
	payload := map[string]bool{"data": true, "raw": true}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, ent := range entries {
		p := filepath.Join(dir, ent.Name())
		if ent.IsDir() {
			if !payload[ent.Name()] {
				if err := os.RemoveAll(p); err != nil {
					return err
				}
			}
		} else if ent.Name() != manifest {
			if err := os.Remove(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// CopyFileAs copies src to the exact path dst, creating parent directories.
func CopyFileAs(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return copyFileTo(src, dst, info.Mode().Perm())
}

// CopyFile copies src into dstDir under its own filename.
func CopyFile(src, dstDir string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return copyFileTo(src, filepath.Join(dstDir, filepath.Base(src)), info.Mode().Perm())
}

// CopyTree copies the directory src to dst. dst must not already exist.
func CopyTree(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("copy tree: %s already exists", dst)
	}
	return MergeDir(src, dst)
}

func copyFileTo(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
