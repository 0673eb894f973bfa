package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetainVariant(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "World Viewer")
	for _, f := range []string{
		"32bit/viewer.exe",
		"64bit/viewer.exe",
		"64bit/config.ini",
	} {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(f), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Readme.txt"), []byte("readme"), 0644))

	require.NoError(t, retainVariant(dir, "64bit", []string{"Readme.txt"}))

	// the kept variant's contents are promoted to the top level
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"viewer.exe", "config.ini", "Readme.txt"}, names)

	data, err := os.ReadFile(filepath.Join(dir, "viewer.exe"))
	require.NoError(t, err)
	assert.Equal(t, "64bit/viewer.exe", string(data))
}

func TestRetainVariant_missingVariant(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "32bit"), 0755))

	err := retainVariant(dir, "64bit", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "64bit")
}
