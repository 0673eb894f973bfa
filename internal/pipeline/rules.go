package pipeline

import (
	"packforge/internal/catalog"
	"packforge/internal/transform"
)

// The per-item special cases live here as small declarative tables rather
// than conditionals buried in the steps. A rule whose component is absent
// from the catalog is skipped.

// bindMarker opens a block in the application's keybinding files.
const bindMarker = "[BIND:"

// Toolkit fixups applied after extraction into the application directory.
const (
	toolkitInitExample = "dfhack.init-example"
	toolkitInit        = "dfhack.init"
	toolkitPluginDir   = "hack/plugins"
)

// overlayPlugins are pulled out of the overlay archive, which packs one
// build per toolkit version as <version>/<plugin>.plug.dll.
var overlayPlugins = []string{"automaterial", "mousequery", "resume", "twbt"}

// Launcher executable rename plus the config file it ships that gets
// rebuilt from the base template.
const (
	launcherExe        = "PyLNP.exe"
	launcherExeRenamed = "Starter Pack Launcher (PyLNP).exe"
	launcherConfig     = "PyLNP.json"
	launcherTemplate   = "PyLNP-json.yml"
	launcherLegacyInit = "PyLNP_dfhack_onLoad.init"
	launcherLegacyVer  = "0.10b"
)

// assetDirs are copied verbatim from the base assets directory into the
// pack area.
var assetDirs = []string{"colors", "embarks", "extras", "tilesets"}

// sharedTilesets come from the pristine baseline's art directory and are
// installed for every graphics pack to reference.
var sharedTilesets = []string{
	"curses_640x300.png",
	"curses_800x600.png",
	"curses_square_16x16.png",
	"mouse.png",
}

// bonusExtraction merges one extra catalog archive into an already
// installed utility.
type bonusExtraction struct {
	Component string
	Utility   string
	Subdir    string
}

var bonusExtractions = []bonusExtraction{
	{Component: "PerfectWorld XML", Utility: "PerfectWorld"},
	{Component: "Quickfort Blueprints", Utility: "Quickfort", Subdir: "blueprints"},
}

// variantRetention keeps exactly one top-level variant of an extracted
// component and discards the rest.
type variantRetention struct {
	Area      string // catalog category, selects the pack area
	Name      string
	Keep      string   // glob over top-level entries
	CopyFiles []string // extra top-level files carried into the kept variant
}

var variantRetentions = []variantRetention{
	{Area: catalog.CategoryUtilities, Name: "World Viewer", Keep: "64bit", CopyFiles: []string{"Readme.txt"}},
	{Area: catalog.CategoryGraphics, Name: "Gemset", Keep: "*_24px"},
}

// pathSubstitution rewrites a utility config file that embeds paths into
// the application directory.
type pathSubstitution struct {
	Utility string
	File    string
	Rules   []transform.PathRule
}

var pathSubstitutions = []pathSubstitution{
	{
		Utility: "Soundsense",
		File:    "configuration.xml",
		Rules: []transform.PathRule{
			{Marker: "gamelog.txt", Template: "\t<gamelog encoding=\"Cp850\" path=\"%s\"/>", File: "gamelog.txt"},
			{Marker: "ss_fix.log", Template: "\t\t<item path=\"%s\"/>", File: "ss_fix.log"},
		},
	},
}

// indexOverride fixes a utility's index lines instead of detecting its
// executable. {tooltip} is replaced with the component tooltip.
var indexOverrides = map[string][]string{
	"Quickfort": {
		"[Quickfort.exe:Quickfort:{tooltip}]",
		"[qfconvert.exe:EXCLUDE]",
	},
}

// graphicsFieldRules point every pack at the shared tileset and the
// overlay renderer. CLA ships its own font and keeps it.
var graphicsFieldRules = []transform.FieldRule{
	{Prefix: "[FONT:", Replacement: "[FONT:curses_640x300.png]", Except: []string{"CLA"}},
	{Prefix: "[FULLFONT:", Replacement: "[FULLFONT:curses_640x300.png]", Except: []string{"CLA"}},
	{Prefix: "[PRINT_MODE:", Replacement: "[PRINT_MODE:TWBT]"},
}

// fieldRewriteExempt packs keep their init files untouched: ASCII is the
// unmodified application art and Gemset drives the renderer itself.
var fieldRewriteExempt = map[string]bool{"ASCII": true, "Gemset": true}

// asciiPack is synthesized from the core application archive rather than a
// catalog download.
const asciiPack = "ASCII"

var asciiManifest = map[string]string{
	"author":  "ToadyOne",
	"tooltip": "Default graphics for DF, exactly as they come.",
}
