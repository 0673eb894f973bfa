package fsops_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packforge/internal/fsops"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestMergeDir_addsAndOverwrites(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	write(t, filepath.Join(src, "shared.txt"), "from src")
	write(t, filepath.Join(src, "sub", "new.txt"), "new")
	write(t, filepath.Join(dst, "shared.txt"), "from dst")
	write(t, filepath.Join(dst, "only-dst.txt"), "untouched")

	require.NoError(t, fsops.MergeDir(src, dst))

	assert.Equal(t, "from src", read(t, filepath.Join(dst, "shared.txt")))
	assert.Equal(t, "new", read(t, filepath.Join(dst, "sub", "new.txt")))
	// merge is purely additive: destination-only entries survive unchanged
	assert.Equal(t, "untouched", read(t, filepath.Join(dst, "only-dst.txt")))
}

func TestMergeDir_createsMissingDestination(t *testing.T) {
	src := t.TempDir()
	write(t, filepath.Join(src, "a", "b.txt"), "b")
	dst := filepath.Join(t.TempDir(), "not-yet")

	require.NoError(t, fsops.MergeDir(src, dst))
	assert.Equal(t, "b", read(t, filepath.Join(dst, "a", "b.txt")))
}

func TestSimplify_keepsOnlyPayload(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "manifest.json"), "{}")
	write(t, filepath.Join(dir, "readme.txt"), "junk")
	write(t, filepath.Join(dir, "data", "init", "init.txt"), "init")
	write(t, filepath.Join(dir, "raw", "objects.txt"), "raw")
	write(t, filepath.Join(dir, "examples", "demo.txt"), "junk")

	require.NoError(t, fsops.Simplify(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"manifest.json", "data", "raw"}, names)
	// simplify only touches the top level
	assert.Equal(t, "init", read(t, filepath.Join(dir, "data", "init", "init.txt")))
}

func TestCopyFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.txt")
	write(t, src, "hello")
	dst := filepath.Join(t.TempDir(), "deep", "dir")

	require.NoError(t, fsops.CopyFile(src, dst))
	assert.Equal(t, "hello", read(t, filepath.Join(dst, "a.txt")))
}

func TestCopyFileAs(t *testing.T) {
	src := filepath.Join(t.TempDir(), "interface.txt")
	write(t, src, "binds")
	dst := filepath.Join(t.TempDir(), "keybindings", "Vanilla DF.txt")

	require.NoError(t, fsops.CopyFileAs(src, dst))
	assert.Equal(t, "binds", read(t, dst))
}

func TestCopyTree_refusesExistingDestination(t *testing.T) {
	src := t.TempDir()
	write(t, filepath.Join(src, "a.txt"), "a")
	dst := t.TempDir()

	assert.Error(t, fsops.CopyTree(src, dst))
}
