package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"packforge/internal/transform"
)

var fontRules = []transform.FieldRule{
	{Prefix: "[FONT:", Replacement: "[FONT:curses_640x300.png]", Except: []string{"CLA"}},
	{Prefix: "[PRINT_MODE:", Replacement: "[PRINT_MODE:TWBT]"},
}

func TestRewriteFields(t *testing.T) {
	lines := []string{
		"[FONT:custom.png]",
		"[PRINT_MODE:2D]",
		"[BLACK_SPACE:YES]",
	}
	out := transform.RewriteFields(lines, fontRules, "Phoebus")

	assert.Equal(t, []string{
		"[FONT:curses_640x300.png]",
		"[PRINT_MODE:TWBT]",
		"[BLACK_SPACE:YES]",
	}, out)
}

func TestRewriteFields_variantException(t *testing.T) {
	lines := []string{"[FONT:cla_font.png]", "[PRINT_MODE:2D]"}
	out := transform.RewriteFields(lines, fontRules, "CLA")

	// the FONT rule is suppressed for CLA but PRINT_MODE still rewrites
	assert.Equal(t, []string{"[FONT:cla_font.png]", "[PRINT_MODE:TWBT]"}, out)
}

func TestSubstitutePaths(t *testing.T) {
	rules := []transform.PathRule{
		{Marker: "gamelog.txt", Template: "\t<gamelog path=\"%s\"/>", File: "gamelog.txt"},
	}
	lines := []string{
		"<config>",
		"\t<gamelog path=\"./gamelog.txt\"/>",
		"</config>",
	}
	out := transform.SubstitutePaths(lines, rules, "../../app")

	assert.Equal(t, []string{
		"<config>",
		"\t<gamelog path=\"../../app/gamelog.txt\"/>",
		"</config>",
	}, out)
}

func TestSubstitutePaths_noMarkerPassesThrough(t *testing.T) {
	rules := []transform.PathRule{
		{Marker: "gamelog.txt", Template: "%s", File: "gamelog.txt"},
	}
	lines := []string{"nothing to see"}
	assert.Equal(t, lines, transform.SubstitutePaths(lines, rules, ".."))
}
