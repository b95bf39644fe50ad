package geometry

// A Structure is a named cache or TLB whose storage is built from memory
// macros.
type Structure struct {
	// Name identifies the structure, e.g. "l2_cache".
	Name string

	// OutputName is the name of the macro the memory compiler generates.
	// Modules that use the structure load "<OutputName>.v".
	OutputName string

	Builder Builder
}

// MacroFile returns the filename of the structural model of the macro.
func (s Structure) MacroFile() string {
	return s.OutputName + ".v"
}

// Layout derives the layout of the structure.
func (s Structure) Layout() (Layout, error) {
	return s.Builder.Build()
}

// DefaultStructures returns the memory structures of the processor.
func DefaultStructures() []Structure {
	l1 := MakeBuilder().
		WithCapacity(32 * KB).
		WithWayAssociativity(4).
		WithLineSize(64).
		WithWordSize(64).
		WithWriteSize(8)

	return []Structure{
		{
			Name:       "l1_icache",
			OutputName: "sram_l1_icache_way",
			Builder:    l1,
		},
		{
			Name:       "l1_dcache",
			OutputName: "sram_l1_dcache_way",
			Builder:    l1,
		},
		{
			Name:       "l2_cache",
			OutputName: "sram_l2_cache_way",
			Builder: MakeBuilder().
				WithCapacity(256 * KB).
				WithWayAssociativity(8).
				WithLineSize(64).
				WithWordSize(64).
				WithWriteSize(8),
		},
		{
			// VPN, PPN and flags, padded to 64 bits. The second port serves
			// lookups while the first one handles updates.
			Name:       "tlb",
			OutputName: "sram_tlb",
			Builder: MakeBuilder().
				WithNumEntries(64).
				WithEntrySize(8).
				WithWordSize(64).
				WithWriteSize(64).
				WithPorts(PortConfig{ReadWrite: 1, ReadOnly: 1}),
		},
	}
}
