package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

var categories = map[string]bool{
	CategoryFiles:     true,
	CategoryUtilities: true,
	CategoryGraphics:  true,
}

// Load parses catalog.toml at path and returns a validated Catalog.
// Components are ordered by category then name, so every iteration over the
// catalog is deterministic regardless of TOML table order.
func Load(path string) (*Catalog, error) {
	var raw struct {
		Pack       Pack                 `toml:"pack"`
		Roles      Roles                `toml:"roles"`
		Components map[string]Component `toml:"components"`
	}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	var errs []string
	var components []Component

	for name, comp := range raw.Components {
		comp.Name = name
		var fieldErrs []string
		if !categories[comp.Category] {
			fieldErrs = append(fieldErrs, fmt.Sprintf("unknown category %q", comp.Category))
		}
		if comp.File == "" {
			fieldErrs = append(fieldErrs, "file is required")
		}
		if comp.Version == "" {
			fieldErrs = append(fieldErrs, "version is required")
		}
		// tooltip and page are optional; they only affect generated docs
		if len(fieldErrs) > 0 {
			errs = append(errs, fmt.Sprintf("[%s]: %s", name, strings.Join(fieldErrs, ", ")))
			continue
		}
		components = append(components, comp)
	}

	if raw.Pack.Version == "" {
		errs = append(errs, "[pack]: version is required")
	}
	if raw.Pack.Base == "" {
		errs = append(errs, "[pack]: base is required")
	}
	if raw.Pack.Dist == "" {
		errs = append(errs, "[pack]: dist is required")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("catalog validation errors:\n%s", strings.Join(errs, "\n"))
	}

	sort.Slice(components, func(i, j int) bool {
		if components[i].Category != components[j].Category {
			return components[i].Category < components[j].Category
		}
		return components[i].Name < components[j].Name
	})

	cat := &Catalog{
		Pack:       raw.Pack,
		Roles:      raw.Roles,
		components: components,
		byName:     make(map[string]Component, len(components)),
	}
	for _, comp := range components {
		cat.byName[comp.Name] = comp
	}

	if err := cat.resolveRoles(); err != nil {
		return nil, err
	}
	return cat, nil
}

// resolveRoles checks that every bound role names a catalog entry. The
// overlay role is optional; the rest are not.
func (c *Catalog) resolveRoles() error {
	required := map[string]string{
		"core":             c.Roles.Core,
		"toolkit":          c.Roles.Toolkit,
		"stock":            c.Roles.Stock,
		"launcher":         c.Roles.Launcher,
		"default_graphics": c.Roles.DefaultGraphics,
	}
	var errs []string
	for role, name := range required {
		if name == "" {
			errs = append(errs, fmt.Sprintf("[roles]: %s is required", role))
			continue
		}
		if _, ok := c.byName[name]; !ok {
			errs = append(errs, fmt.Sprintf("[roles]: %s names unknown component %q", role, name))
		}
	}
	if c.Roles.Overlay != "" {
		if _, ok := c.byName[c.Roles.Overlay]; !ok {
			errs = append(errs, fmt.Sprintf("[roles]: overlay names unknown component %q", c.Roles.Overlay))
		}
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("catalog validation errors:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

// MustGet is Get for components the roles table already guaranteed to exist.
func (c *Catalog) MustGet(name string) Component {
	comp, ok := c.byName[name]
	if !ok {
		panic(fmt.Sprintf("catalog: no component %q", name))
	}
	return comp
}
