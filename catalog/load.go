package catalog

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sarchlab/synthgen"
)

type fileDecl struct {
	Module []moduleEntry `toml:"module"`
}

type moduleEntry struct {
	Name       string   `toml:"name"`
	Source     string   `toml:"source"`
	Top        string   `toml:"top"`
	MemoryDeps []string `toml:"memory_deps"`
}

// Load reads a catalog declared in a TOML file:
//
//	[[module]]
//	name = "l2_cache_new"
//	source = "rtl/memory/l2_cache_new.v"
//	top = "l2_cache_new"
//	memory_deps = ["sram_l2_cache_way.v", "sram_tlb.v"]
//
// Relative sources are resolved against the directory of the file. When top
// is omitted, the module name is used.
func Load(path string) (*Catalog, error) {
	const op = "load catalog"

	var decl fileDecl

	meta, err := toml.DecodeFile(path, &decl)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, synthgen.WrapIO(op, err)
		}

		return nil, synthgen.Configurationf(op, "%s: failed to parse TOML: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}

		return nil, synthgen.Configurationf(op, "%s: unknown keys: %s",
			path, strings.Join(keys, ", "))
	}

	if len(decl.Module) == 0 {
		return nil, synthgen.Configurationf(op, "%s: no module declared", path)
	}

	baseDir := filepath.Dir(path)
	seen := make(map[string]bool, len(decl.Module))
	specs := make([]ModuleSpec, 0, len(decl.Module))

	for i, m := range decl.Module {
		if m.Name == "" {
			return nil, synthgen.Configurationf(op, "%s: module #%d has no name", path, i+1)
		}

		if seen[m.Name] {
			return nil, synthgen.Configurationf(op, "%s: duplicate module %q", path, m.Name)
		}

		seen[m.Name] = true

		src := m.Source
		if src != "" && !filepath.IsAbs(src) {
			src = filepath.Join(baseDir, src)
		}

		top := m.Top
		if top == "" {
			top = m.Name
		}

		specs = append(specs, ModuleSpec{
			Name:       m.Name,
			SourcePath: src,
			TopName:    top,
			MemoryDeps: m.MemoryDeps,
		})
	}

	return New(specs...), nil
}
