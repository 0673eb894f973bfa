package pipeline

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"

	"packforge/internal/catalog"
	"packforge/internal/extractor"
	"packforge/internal/fsops"
	"packforge/internal/transform"
)

// createAppDir extracts the core application plus its toolkit and stock
// settings, then installs the overlay renderer plugins that match the
// toolkit version.
func (b *Builder) createAppDir() error {
	roles := b.Catalog.Roles
	core := b.Catalog.MustGet(roles.Core)
	toolkit := b.Catalog.MustGet(roles.Toolkit)
	stock := b.Catalog.MustGet(roles.Stock)

	if err := extractor.Extract(core.File, b.Paths.App()); err != nil {
		return err
	}
	if err := extractor.Extract(toolkit.File, b.Paths.App()); err != nil {
		return err
	}
	if err := extractor.Extract(stock.File, b.Paths.App("stocksettings")); err != nil {
		return err
	}
	if err := os.Rename(b.Paths.App(toolkitInitExample), b.Paths.App(toolkitInit)); err != nil {
		return err
	}

	if roles.Overlay == "" {
		return nil
	}
	overlay := b.Catalog.MustGet(roles.Overlay)
	version := strings.TrimPrefix(toolkit.Version, "v")
	want := make([]string, len(overlayPlugins))
	for i, plug := range overlayPlugins {
		want[i] = fmt.Sprintf("%s/%s.plug.dll", version, plug)
	}
	found, err := extractor.ExtractNamed(overlay.File, b.Paths.App(toolkitPluginDir), want)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		b.warnf("%s not installed; no build for %s %s", overlay.Name, toolkit.Name, toolkit.Version)
	}
	return nil
}

// createBaselines keeps a pristine, simplified copy of the core
// application for later steps to reference.
func (b *Builder) createBaselines() error {
	core := b.Catalog.MustGet(b.Catalog.Roles.Core)
	if err := extractor.Extract(core.File, b.Paths.Baseline()); err != nil {
		return err
	}
	return fsops.Simplify(b.Paths.Baseline())
}

// installAssetDirs copies the curated asset directories into the pack and
// pushes extras and the shared tilesets onto the application tree.
func (b *Builder) installAssetDirs() error {
	for _, d := range assetDirs {
		if err := fsops.CopyTree(b.Paths.FromBase(d), b.Paths.Pack(d)); err != nil {
			return err
		}
	}
	if err := fsops.MergeDir(b.Paths.Pack("extras"), b.Paths.App()); err != nil {
		return err
	}
	for _, img := range sharedTilesets {
		if err := fsops.CopyFile(b.Paths.Baseline("data", "art", img), b.Paths.Pack("tilesets")); err != nil {
			return err
		}
	}
	return fsops.MergeDir(b.Paths.Pack("tilesets"), b.Paths.App("data", "art"))
}

// createUtilities extracts every utility, applies the per-utility fixup
// rules, and writes the derived utilities.txt index.
func (b *Builder) createUtilities() error {
	for _, comp := range b.Catalog.Utilities() {
		if err := extractor.Extract(comp.File, b.Paths.Pack(comp.Category, comp.Name)); err != nil {
			return err
		}
	}

	for _, sub := range pathSubstitutions {
		if _, ok := b.Catalog.Get(sub.Utility); !ok {
			continue
		}
		rel, err := filepath.Rel(b.Paths.Utilities(sub.Utility), b.Paths.App())
		if err != nil {
			return err
		}
		err = transform.RewriteFile(b.Paths.Utilities(sub.Utility, sub.File), nil, func(lines []string) []string {
			return transform.SubstitutePaths(lines, sub.Rules, rel)
		})
		if err != nil {
			return err
		}
	}

	for _, r := range variantRetentions {
		if r.Area != catalog.CategoryUtilities {
			continue
		}
		if _, ok := b.Catalog.Get(r.Name); !ok {
			continue
		}
		if err := retainVariant(b.Paths.Utilities(r.Name), r.Keep, r.CopyFiles); err != nil {
			return err
		}
	}

	for _, bonus := range bonusExtractions {
		comp, ok := b.Catalog.Get(bonus.Component)
		if !ok {
			continue
		}
		dest := b.Paths.Utilities(bonus.Utility)
		if bonus.Subdir != "" {
			dest = filepath.Join(dest, bonus.Subdir)
		}
		if err := extractor.Extract(comp.File, dest); err != nil {
			return err
		}
	}

	return b.writeUtilityIndex()
}

// retainVariant keeps the single top-level entry of dir matching keep,
// carries copyFiles into it, and drops everything else.
func retainVariant(dir, keep string, copyFiles []string) error {
	matches, err := filepath.Glob(filepath.Join(dir, keep))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no %q variant under %s", keep, dir)
	}
	tmp := dir + ".retain"
	if err := os.Rename(matches[0], tmp); err != nil {
		return err
	}
	for _, f := range copyFiles {
		if err := fsops.CopyFile(filepath.Join(dir, f), tmp); err != nil {
			return err
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.Rename(tmp, dir)
}

// writeUtilityIndex emits utilities.txt: one [exe:name:tooltip] line per
// utility with exactly one detected executable, [jar:EXCLUDE] lines for
// archive-packaged secondary executables, and fixed lines for utilities
// with an index override.
func (b *Builder) writeUtilityIndex() error {
	var sb strings.Builder
	for _, util := range b.Catalog.Utilities() {
		if lines, ok := indexOverrides[util.Name]; ok {
			for _, line := range lines {
				sb.WriteString(strings.ReplaceAll(line, "{tooltip}", util.Tooltip) + "\n")
			}
			continue
		}
		var exes, jars []string
		err := filepath.WalkDir(b.Paths.Utilities(util.Name), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			switch {
			case d.IsDir():
			case strings.HasSuffix(d.Name(), ".exe"):
				exes = append(exes, d.Name())
			case strings.HasSuffix(d.Name(), ".jar"):
				jars = append(jars, d.Name())
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, j := range jars {
			fmt.Fprintf(&sb, "[%s:EXCLUDE]\n", j)
		}
		if len(exes) == 1 {
			fmt.Fprintf(&sb, "[%s:%s:%s]\n", exes[0], util.Name, util.Tooltip)
		} else {
			b.warnf("found %v in %s", exes, util.Name)
		}
	}
	return os.WriteFile(b.Paths.Utilities("utilities.txt"), []byte(sb.String()), 0644)
}

// createGraphics extracts every graphics pack, synthesizes the ASCII pack
// from the core archive, then shrinks and rewrites each pack.
func (b *Builder) createGraphics() error {
	for _, comp := range b.Catalog.Graphics() {
		if err := extractor.Extract(comp.File, b.Paths.Pack(comp.Category, comp.Name)); err != nil {
			return err
		}
	}
	if err := b.makeASCIIGraphics(); err != nil {
		return err
	}

	for _, r := range variantRetentions {
		if r.Area != catalog.CategoryGraphics {
			continue
		}
		if _, ok := b.Catalog.Get(r.Name); !ok {
			continue
		}
		if err := retainVariant(b.Paths.Graphics(r.Name), r.Keep, r.CopyFiles); err != nil {
			return err
		}
	}

	tilesets, err := dirNames(b.Paths.Pack("tilesets"))
	if err != nil {
		return err
	}
	packs, err := os.ReadDir(b.Paths.Graphics())
	if err != nil {
		return err
	}
	for _, pack := range packs {
		if err := b.finishGraphicsPack(pack.Name(), tilesets); err != nil {
			return err
		}
	}
	return nil
}

// finishGraphicsPack simplifies one pack, strips art the shared tilesets
// already provide, sanity-checks the layout, and applies the renderer
// rewrite.
func (b *Builder) finishGraphicsPack(pack string, tilesets map[string]bool) error {
	if err := fsops.Simplify(b.Paths.Graphics(pack)); err != nil {
		return err
	}

	art, err := os.ReadDir(b.Paths.Graphics(pack, "data", "art"))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, f := range art {
		if tilesets[f.Name()] || strings.HasSuffix(f.Name(), ".bmp") {
			if err := os.Remove(b.Paths.Graphics(pack, "data", "art", f.Name())); err != nil {
				return err
			}
		}
	}

	entries, err := os.ReadDir(b.Paths.Graphics(pack))
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name()] = true
	}
	if !names["data"] || !names["raw"] {
		b.warnf("%s graphics pack malformed", pack)
	} else if len(entries) > 3 {
		b.warnf("%s graphics pack not simplified", pack)
	}

	if fieldRewriteExempt[pack] {
		return nil
	}
	return transform.RewriteFile(b.Paths.Graphics(pack, "data", "init", "init.txt"), nil, func(lines []string) []string {
		return transform.RewriteFields(lines, graphicsFieldRules, pack)
	})
}

// makeASCIIGraphics builds the ASCII pack straight from the core
// application archive, with a generated manifest.
func (b *Builder) makeASCIIGraphics() error {
	core := b.Catalog.MustGet(b.Catalog.Roles.Core)
	if err := extractor.Extract(core.File, b.Paths.Graphics(asciiPack)); err != nil {
		return err
	}
	manifest := map[string]string{"content_version": core.Version}
	for k, v := range asciiManifest {
		manifest[k] = v
	}
	data, err := json.MarshalIndent(manifest, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(b.Paths.Graphics(asciiPack, "manifest.json"), data, 0644)
}

// installDefaultGraphics merges the designated pack onto the application
// tree as the active default.
func (b *Builder) installDefaultGraphics() error {
	return fsops.MergeDir(b.Paths.Graphics(b.Catalog.Roles.DefaultGraphics), b.Paths.App())
}

// setupLauncher extracts the launcher, renames its executable, and
// rebuilds its configuration from the base template plus the pack version.
func (b *Builder) setupLauncher() error {
	launcher := b.Catalog.MustGet(b.Catalog.Roles.Launcher)
	if err := extractor.Extract(launcher.File, b.Paths.Root()); err != nil {
		return err
	}
	if err := os.Rename(b.Paths.Root(launcherExe), b.Paths.Root(launcherExeRenamed)); err != nil {
		return err
	}
	if err := os.Remove(b.Paths.Root(launcherConfig)); err != nil {
		return err
	}

	raw, err := os.ReadFile(b.Paths.FromBase(launcherTemplate))
	if err != nil {
		return err
	}
	var conf map[string]any
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return fmt.Errorf("parse %s: %w", launcherTemplate, err)
	}
	updates, ok := conf["updates"].(map[string]any)
	if !ok {
		updates = make(map[string]any)
		conf["updates"] = updates
	}
	updates["packVersion"] = b.Catalog.Pack.Version
	out, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(b.Paths.Pack(launcherConfig), out, 0644); err != nil {
		return err
	}

	if launcher.Version == launcherLegacyVer {
		return os.WriteFile(b.Paths.App(launcherLegacyInit), []byte("# Placeholder file.\n"), 0644)
	}
	b.Logger.Info().Msg("legacy launcher init shim no longer needed")
	return nil
}

// createAbout builds the about area: static about file, changelog with a
// generated version header, and the contents listing from the catalog.
func (b *Builder) createAbout() error {
	about := b.Paths.Pack("about")
	if err := os.MkdirAll(about, 0755); err != nil {
		return err
	}
	if err := fsops.CopyFile(b.Paths.FromBase("about.txt"), about); err != nil {
		return err
	}

	lines, err := transform.ReadLines(b.Paths.FromBase("changelog.txt"), nil)
	if err != nil {
		return err
	}
	header := fmt.Sprintf("Version %s (%s)", b.Catalog.Pack.Version, b.now().Format("2006-01-02"))
	out := append([]string{header}, lines...)
	if err := transform.WriteLines(filepath.Join(about, "changelog.txt"), out, nil); err != nil {
		return err
	}
	return b.writeContents()
}

// writeContents fills the contents template with a BBCode link per
// component, grouped by category.
func (b *Builder) writeContents() error {
	values := make(map[string]string)
	for _, comp := range b.Catalog.Files() {
		values[comp.Name] = componentLink(comp.Name, comp.Version, comp.Page, true, "")
	}
	var graphics, utilities []string
	for _, comp := range b.Catalog.Graphics() {
		graphics = append(graphics, componentLink(comp.Name, comp.Version, comp.Page, false, " - "))
	}
	for _, comp := range b.Catalog.Utilities() {
		utilities = append(utilities, componentLink(comp.Name, comp.Version, comp.Page, true, " - "))
	}
	values["graphics"] = strings.Join(graphics, "\n")
	values["utilities"] = strings.Join(utilities, "\n")

	changelog, err := os.ReadFile(b.Paths.FromBase("changelog.txt"))
	if err != nil {
		return err
	}
	sections := strings.Split(string(changelog), "\n\n")
	if len(sections) > 5 {
		sections = sections[:5]
	}
	values["changelogs"] = strings.Join(sections, "\n\n")

	template, err := os.ReadFile(b.Paths.FromBase("contents.txt"))
	if err != nil {
		return err
	}
	filled, err := transform.Fill(string(template), values)
	if err != nil {
		return err
	}
	return os.WriteFile(b.Paths.Pack("about", "contents.txt"), []byte(filled), 0644)
}

func componentLink(name, version, page string, withVersion bool, dash string) string {
	if withVersion {
		name += " " + version
	}
	return fmt.Sprintf("%s[url=%s]%s[/url]", dash, page, name)
}

// makeDefaults assembles the defaults directory and merges it onto the
// application's own init directory.
func (b *Builder) makeDefaults() error {
	def := b.Paths.Pack("defaults")
	if err := os.MkdirAll(def, 0755); err != nil {
		return err
	}
	if err := fsops.CopyFile(b.Paths.Pack("embarks", "default_profiles.txt"), def); err != nil {
		return err
	}
	for _, f := range []string{"init.txt", "d_init.txt"} {
		if err := fsops.CopyFile(b.Paths.Graphics(b.Catalog.Roles.DefaultGraphics, "data", "init", f), def); err != nil {
			return err
		}
	}
	return fsops.MergeDir(def, b.Paths.App("data", "init"))
}

// makeKeybindings copies the application's native bindings as a reference
// profile, then block-merges each base profile against them. Binding files
// are CP437 on disk.
func (b *Builder) makeKeybindings() error {
	dir := b.Paths.Pack("keybindings")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	native := b.Paths.App("data", "init", "interface.txt")
	if err := fsops.CopyFileAs(native, filepath.Join(dir, "Vanilla DF.txt")); err != nil {
		return err
	}

	nativeLines, err := transform.ReadLines(native, charmap.CodePage437)
	if err != nil {
		return err
	}
	nativeBlocks := transform.ParseBlocks(nativeLines, bindMarker)

	profiles, err := os.ReadDir(b.Paths.FromBase("keybindings"))
	if err != nil {
		return err
	}
	for _, profile := range profiles {
		lines, err := transform.ReadLines(b.Paths.FromBase("keybindings", profile.Name()), nil)
		if err != nil {
			return err
		}
		merged := transform.MergeBlocks(nativeBlocks, transform.ParseBlocks(lines, bindMarker))
		// the native format wants a blank first line
		out := append([]string{""}, merged...)
		if err := transform.WriteLines(filepath.Join(dir, profile.Name()), out, charmap.CodePage437); err != nil {
			return err
		}
	}
	return nil
}

func dirNames(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name()] = true
	}
	return names, nil
}
