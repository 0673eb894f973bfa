package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"packforge/internal/paths"
)

func TestPaths(t *testing.T) {
	p := paths.Paths{Base: "base", Dist: "build", CoreVersion: "0.43.03"}

	assert.Equal(t, filepath.Join("base", "changelog.txt"), p.FromBase("changelog.txt"))
	assert.Equal(t, filepath.Join("build", "PyLNP.exe"), p.Root("PyLNP.exe"))
	assert.Equal(t, filepath.Join("build", "app", "data", "init"), p.App("data", "init"))
	assert.Equal(t, filepath.Join("build", "pack", "tilesets"), p.Pack("tilesets"))
	assert.Equal(t, filepath.Join("build", "pack", "baselines", "0.43.03", "data"), p.Baseline("data"))
	assert.Equal(t, filepath.Join("build", "pack", "utilities", "Soundsense"), p.Utilities("Soundsense"))
	assert.Equal(t, filepath.Join("build", "pack", "graphics", "Phoebus"), p.Graphics("Phoebus"))
}
