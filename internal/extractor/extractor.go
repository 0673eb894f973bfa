package extractor

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// UnsupportedFormatError reports a source file whose extension matches no
// known archive or standalone-executable format.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported archive format: %s", e.Path)
}

// MalformedArchiveError reports an archive-tagged file that could not be
// read as its format.
type MalformedArchiveError struct {
	Path string
	Err  error
}

func (e *MalformedArchiveError) Error() string {
	return fmt.Sprintf("malformed archive %s: %v", e.Path, e.Err)
}

func (e *MalformedArchiveError) Unwrap() error { return e.Err }

// entry is one file inside an archive: its (possibly flattened) relative
// name plus its contents.
type entry struct {
	name string
	mode fs.FileMode
	data []byte
}

// Extract unpacks src into destDir, creating destDir if absent.
//
// Standalone executables (.exe) are copied in directly. Archive formats are
// enumerated, wrapper directories are flattened away, and every file entry
// is written under destDir at its relative path, overwriting anything
// already there. Any other extension fails with UnsupportedFormatError.
func Extract(src, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}
	if strings.HasSuffix(src, ".exe") {
		return copyExecutable(src, destDir)
	}
	entries, err := readArchive(src)
	if err != nil {
		return err
	}
	flatten(entries)
	for _, ent := range entries {
		if err := writeEntry(destDir, ent); err != nil {
			return err
		}
	}
	return nil
}

func readArchive(src string) ([]entry, error) {
	name := filepath.Base(src)
	switch {
	case strings.HasSuffix(name, ".zip"):
		return readZip(src)
	case strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz"):
		return readTar(src, "gz")
	case strings.HasSuffix(name, ".tar.xz") || strings.HasSuffix(name, ".txz"):
		return readTar(src, "xz")
	case strings.HasSuffix(name, ".tar.bz2"):
		return readTar(src, "bz2")
	default:
		return nil, &UnsupportedFormatError{Path: src}
	}
}

// flatten strips shared wrapper segments in place. While every entry still
// has a directory prefix and all entries agree on the first segment, that
// segment is removed. A lone entry keeps its final segment: X/Y/file.txt
// alone in an archive lands as file.txt, never as an empty name.
func flatten(entries []entry) {
	if len(entries) == 0 {
		return
	}
	for {
		root, rest, ok := strings.Cut(entries[0].name, "/")
		if !ok {
			return
		}
		for _, ent := range entries[1:] {
			r, _, ok := strings.Cut(ent.name, "/")
			if !ok || r != root {
				return
			}
		}
		entries[0].name = rest
		for i := 1; i < len(entries); i++ {
			entries[i].name = entries[i].name[len(root)+1:]
		}
	}
}

// sanitize normalizes an archive member name to a clean slash-separated
// relative path, discarding any traversal outside the destination.
func sanitize(name string) string {
	return strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(name, `\`, "/")), "/")
}

func readZip(src string) ([]entry, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, &MalformedArchiveError{Path: src, Err: err}
	}
	defer r.Close()

	var entries []entry
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &MalformedArchiveError{Path: src, Err: err}
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &MalformedArchiveError{Path: src, Err: err}
		}
		entries = append(entries, entry{name: sanitize(f.Name), mode: f.Mode(), data: data})
	}
	return entries, nil
}

func readTar(src, compression string) ([]entry, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader
	switch compression {
	case "gz":
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, &MalformedArchiveError{Path: src, Err: err}
		}
		defer gr.Close()
		r = gr
	case "bz2":
		r = bzip2.NewReader(f)
	case "xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, &MalformedArchiveError{Path: src, Err: err}
		}
		r = xr
	}

	var entries []entry
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MalformedArchiveError{Path: src, Err: err}
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, &MalformedArchiveError{Path: src, Err: err}
		}
		entries = append(entries, entry{name: sanitize(hdr.Name), mode: hdr.FileInfo().Mode(), data: data})
	}
	return entries, nil
}

func writeEntry(destDir string, ent entry) error {
	if ent.name == "" {
		return nil
	}
	target := filepath.Join(destDir, filepath.FromSlash(ent.name))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	mode := ent.mode.Perm()
	if mode == 0 {
		mode = 0644
	}
	return os.WriteFile(target, ent.data, mode)
}

func copyExecutable(src, destDir string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(destDir, filepath.Base(src)), data, 0755)
}

// ExtractNamed copies only the archive entries whose full (unflattened)
// names appear in want, writing each under destDir by its base filename.
// It returns the entry names that were actually found. Only zip archives
// are supported here.
func ExtractNamed(src, destDir string, want []string) ([]string, error) {
	if !strings.HasSuffix(src, ".zip") {
		return nil, &UnsupportedFormatError{Path: src}
	}
	wanted := make(map[string]bool, len(want))
	for _, w := range want {
		wanted[w] = true
	}

	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, &MalformedArchiveError{Path: src, Err: err}
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, err
	}

	var found []string
	for _, f := range r.File {
		if !wanted[f.Name] {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &MalformedArchiveError{Path: src, Err: err}
		}
		var buf bytes.Buffer
		_, err = io.Copy(&buf, rc)
		rc.Close()
		if err != nil {
			return nil, &MalformedArchiveError{Path: src, Err: err}
		}
		target := filepath.Join(destDir, path.Base(sanitize(f.Name)))
		if err := os.WriteFile(target, buf.Bytes(), 0644); err != nil {
			return nil, err
		}
		found = append(found, f.Name)
	}
	return found, nil
}
