package paths

import "path/filepath"

// Paths resolves locations inside the destination tree and the base assets
// directory. All methods are pure path joins; nothing here touches the
// disk.
type Paths struct {
	// Base is the directory holding local templates and asset subdirs
	// (about.txt, changelog.txt, contents.txt, keybindings/, colors/, ...).
	Base string
	// Dist is the destination root. Wiped at the start of every run.
	Dist string
	// CoreVersion selects the baseline subdirectory.
	CoreVersion string
}

func join(root string, parts []string) string {
	return filepath.Join(append([]string{root}, parts...)...)
}

// FromBase returns a path under the base assets directory.
func (p Paths) FromBase(parts ...string) string {
	return join(p.Base, parts)
}

// Root returns a path under the destination root.
func (p Paths) Root(parts ...string) string {
	return join(p.Dist, parts)
}

// App returns a path under the core application directory.
func (p Paths) App(parts ...string) string {
	return join(filepath.Join(p.Dist, "app"), parts)
}

// Pack returns a path under the pack content area.
func (p Paths) Pack(parts ...string) string {
	return join(filepath.Join(p.Dist, "pack"), parts)
}

// Baseline returns a path under the pristine baseline for the core version.
func (p Paths) Baseline(parts ...string) string {
	return join(p.Pack("baselines", p.CoreVersion), parts)
}

// Utilities returns a path under the utilities area.
func (p Paths) Utilities(parts ...string) string {
	return join(p.Pack("utilities"), parts)
}

// Graphics returns a path under the graphics area.
func (p Paths) Graphics(parts ...string) string {
	return join(p.Pack("graphics"), parts)
}
