package catalog

import "path/filepath"

type moduleDecl struct {
	group string
	name  string
	deps  []string
}

var processorModules = []moduleDecl{
	{group: "execution", name: "simple_alu"},
	{group: "execution", name: "complex_alu"},
	{group: "execution", name: "mul_div_unit"},
	{group: "execution", name: "fpu_unit"},
	{group: "execution", name: "vector_unit"},
	{group: "execution", name: "lsu"},
	{group: "predictor", name: "gshare_predictor"},
	{group: "predictor", name: "bimodal_predictor"},
	{group: "predictor", name: "tournament_selector"},
	{group: "predictor", name: "btb"},
	{group: "predictor", name: "ras"},
	{group: "ooo", name: "register_rename"},
	{group: "ooo", name: "reservation_station"},
	{group: "ooo", name: "reorder_buffer"},
	{group: "memory", name: "l1_icache",
		deps: []string{"sram_l1_icache_way.v"}},
	{group: "memory", name: "l1_dcache_new",
		deps: []string{"sram_l1_dcache_way.v"}},
	{group: "memory", name: "l2_cache_new",
		deps: []string{"sram_l2_cache_way.v", "sram_tlb.v"}},
}

// Default returns the modules of the processor, with sources under
// designDir/rtl.
func Default(designDir string) *Catalog {
	specs := make([]ModuleSpec, 0, len(processorModules))

	for _, m := range processorModules {
		specs = append(specs, ModuleSpec{
			Name:       m.name,
			SourcePath: filepath.Join(designDir, "rtl", m.group, m.name+".v"),
			TopName:    m.name,
			MemoryDeps: m.deps,
		})
	}

	return New(specs...)
}
