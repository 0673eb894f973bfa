// Package transform holds the line-oriented rewrites applied to the small
// text configuration files inside the pack. Every rewrite is a pure
// function from old lines to new lines; file access is read-modify-write
// of the whole file, preserving the encoding it was read with.
package transform

import (
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ReadLines reads path and returns its lines without terminators. A nil
// charmap reads the bytes as-is (UTF-8).
func ReadLines(path string, enc *charmap.Charmap) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		data, err = enc.NewDecoder().Bytes(data)
		if err != nil {
			return nil, err
		}
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n"), nil
}

// WriteLines writes lines to path joined by newlines, with a trailing
// newline, encoded with enc when non-nil.
func WriteLines(path string, lines []string, enc *charmap.Charmap) error {
	data := []byte(strings.Join(lines, "\n") + "\n")
	if enc != nil {
		var err error
		data, err = enc.NewEncoder().Bytes(data)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// RewriteFile applies fn to the lines of path and writes the result back.
func RewriteFile(path string, enc *charmap.Charmap, fn func([]string) []string) error {
	lines, err := ReadLines(path, enc)
	if err != nil {
		return err
	}
	return WriteLines(path, fn(lines), enc)
}
