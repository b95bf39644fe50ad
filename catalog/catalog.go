// Package catalog describes the hardware modules to synthesize.
package catalog

import (
	"slices"

	"github.com/sarchlab/synthgen"
)

// A ModuleSpec describes one hardware module.
type ModuleSpec struct {
	// Name uniquely identifies the module in a catalog.
	Name string

	// SourcePath points to the HDL source of the module. It is never read.
	SourcePath string

	// TopName is the elaboration entry point.
	TopName string

	// MemoryDeps lists the structural models of the memory macros the
	// module instantiates. They must be loaded in this order.
	MemoryDeps []string
}

// HasMemoryDeps returns true if the module instantiates memory macros.
func (m ModuleSpec) HasMemoryDeps() bool {
	return len(m.MemoryDeps) > 0
}

// A Catalog is an ordered, immutable list of modules.
type Catalog struct {
	entries []ModuleSpec
	index   map[string]int
}

// New creates a catalog. If two specs share a name, lookups return the
// first one.
func New(specs ...ModuleSpec) *Catalog {
	c := &Catalog{
		entries: make([]ModuleSpec, 0, len(specs)),
		index:   make(map[string]int, len(specs)),
	}

	for _, s := range specs {
		s.MemoryDeps = slices.Clone(s.MemoryDeps)
		c.entries = append(c.entries, s)

		if _, ok := c.index[s.Name]; !ok {
			c.index[s.Name] = len(c.entries) - 1
		}
	}

	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns the modules in declaration order.
func (c *Catalog) Entries() []ModuleSpec {
	out := make([]ModuleSpec, len(c.entries))
	for i, e := range c.entries {
		e.MemoryDeps = slices.Clone(e.MemoryDeps)
		out[i] = e
	}

	return out
}

// Names returns the module names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}

	return names
}

// Lookup finds a module by name.
func (c *Catalog) Lookup(name string) (ModuleSpec, error) {
	i, ok := c.index[name]
	if !ok {
		return ModuleSpec{}, synthgen.NotFoundf("catalog lookup",
			"module %q is not in the catalog", name)
	}

	e := c.entries[i]
	e.MemoryDeps = slices.Clone(e.MemoryDeps)

	return e, nil
}

// MacroDeps returns every macro model referenced by the catalog, in the
// order they first appear.
func (c *Catalog) MacroDeps() []string {
	seen := make(map[string]bool)

	var deps []string

	for _, e := range c.entries {
		for _, d := range e.MemoryDeps {
			if seen[d] {
				continue
			}

			seen[d] = true
			deps = append(deps, d)
		}
	}

	return deps
}
