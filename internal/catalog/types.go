package catalog

// Component categories. Category names double as subdirectory names in the
// assembled pack.
const (
	CategoryFiles     = "files"
	CategoryUtilities = "utilities"
	CategoryGraphics  = "graphics"
)

// Component is a single installable entry from catalog.toml.
type Component struct {
	Name     string // populated from the TOML table key
	Category string `toml:"category"`
	File     string `toml:"file"`
	Version  string `toml:"version"`
	Tooltip  string `toml:"tooltip"`
	Page     string `toml:"page"`
}

// Pack holds pack-wide metadata from the [pack] table.
type Pack struct {
	Version string `toml:"version"`
	Base    string `toml:"base"`
	Dist    string `toml:"dist"`
}

// Roles binds catalog entries to the fixed roles the pipeline needs.
// Every named component must exist in the catalog.
type Roles struct {
	Core            string `toml:"core"`
	Toolkit         string `toml:"toolkit"`
	Stock           string `toml:"stock"`
	Overlay         string `toml:"overlay"`
	Launcher        string `toml:"launcher"`
	DefaultGraphics string `toml:"default_graphics"`
}

// Catalog is the parsed, validated catalog.toml. Immutable after Load.
type Catalog struct {
	Pack  Pack
	Roles Roles

	components []Component
	byName     map[string]Component
}

// Get looks a component up by name.
func (c *Catalog) Get(name string) (Component, bool) {
	comp, ok := c.byName[name]
	return comp, ok
}

// All returns every component in deterministic order.
func (c *Catalog) All() []Component {
	return c.components
}

func (c *Catalog) category(cat string) []Component {
	var out []Component
	for _, comp := range c.components {
		if comp.Category == cat {
			out = append(out, comp)
		}
	}
	return out
}

// Files returns the core and auxiliary file components.
func (c *Catalog) Files() []Component { return c.category(CategoryFiles) }

// Utilities returns the utility components.
func (c *Catalog) Utilities() []Component { return c.category(CategoryUtilities) }

// Graphics returns the graphics pack components.
func (c *Catalog) Graphics() []Component { return c.category(CategoryGraphics) }
