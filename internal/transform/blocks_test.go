package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"packforge/internal/transform"
)

func TestParseBlocks(t *testing.T) {
	lines := []string{
		"stray entry before any header",
		"[BIND:A:REPEAT_NOT]",
		"  [KEY:a]  ",
		"",
		"[BIND:B:REPEAT_NOT]",
		"[KEY:b]",
		"[BIND:A:REPEAT_NOT]",
		"[KEY:F1]",
	}
	blocks := transform.ParseBlocks(lines, "[BIND:")

	assert.Equal(t, []transform.Block{
		{Header: "[BIND:A:REPEAT_NOT]", Entries: []string{"[KEY:a]", "[KEY:F1]"}},
		{Header: "[BIND:B:REPEAT_NOT]", Entries: []string{"[KEY:b]"}},
	}, blocks)
}

func TestMergeBlocks(t *testing.T) {
	base := []transform.Block{
		{Header: "[BIND:A]", Entries: []string{"k1"}},
		{Header: "[BIND:B]", Entries: []string{"k2"}},
	}
	override := []transform.Block{
		{Header: "[BIND:A]", Entries: []string{"k3"}},
		{Header: "[BIND:Z]", Entries: []string{"never emitted"}},
	}

	out := transform.MergeBlocks(base, override)

	// overridden blocks take the override's entries, untouched blocks keep
	// their own, and override-only headers are dropped
	assert.Equal(t, []string{"[BIND:A]", "k3", "[BIND:B]", "k2"}, out)
}

func TestMergeBlocks_emptyOverride(t *testing.T) {
	base := []transform.Block{
		{Header: "[BIND:A]", Entries: []string{"k1"}},
	}
	out := transform.MergeBlocks(base, nil)
	assert.Equal(t, []string{"[BIND:A]", "k1"}, out)
}
