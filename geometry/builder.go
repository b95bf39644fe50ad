package geometry

import (
	"math/bits"

	"github.com/sarchlab/synthgen"
)

// Builder can build memory layouts.
type Builder struct {
	cacheByteSize    uint64
	wayAssociativity uint64
	lineByteSize     uint64
	wordBitSize      uint64
	writeBitSize     uint64
	numBanks         int
	ports            PortConfig
	numEntries       uint64
}

// MakeBuilder creates a new builder with the geometry of a 32KB 4-way cache
// with 64-byte lines stored in 64-bit words with byte write enables.
func MakeBuilder() Builder {
	return Builder{
		cacheByteSize:    32 * KB,
		wayAssociativity: 4,
		lineByteSize:     64,
		wordBitSize:      64,
		writeBitSize:     8,
		numBanks:         1,
		ports:            PortConfig{ReadWrite: 1},
	}
}

// WithCapacity sets the total byte size of the structure.
func (b Builder) WithCapacity(byteSize uint64) Builder {
	b.cacheByteSize = byteSize
	return b
}

// WithWayAssociativity sets the number of ways.
func (b Builder) WithWayAssociativity(n uint64) Builder {
	b.wayAssociativity = n
	return b
}

// WithLineSize sets the cache line size in bytes.
func (b Builder) WithLineSize(byteSize uint64) Builder {
	b.lineByteSize = byteSize
	return b
}

// WithWordSize sets the word width of a macro in bits.
func (b Builder) WithWordSize(bits uint64) Builder {
	b.wordBitSize = bits
	return b
}

// WithWriteSize sets the write granularity in bits.
func (b Builder) WithWriteSize(bits uint64) Builder {
	b.writeBitSize = bits
	return b
}

// WithNumBanks sets the number of banks of a macro.
func (b Builder) WithNumBanks(n int) Builder {
	b.numBanks = n
	return b
}

// WithPorts sets the port configuration of a macro.
func (b Builder) WithPorts(ports PortConfig) Builder {
	b.ports = ports
	return b
}

// WithNumEntries configures a table-lookup structure, such as a TLB, with n
// entries. The structure has a single way and the line size is the entry
// width.
func (b Builder) WithNumEntries(n uint64) Builder {
	b.numEntries = n
	return b
}

// WithEntrySize sets the entry width in bytes of a table-lookup structure.
func (b Builder) WithEntrySize(byteSize uint64) Builder {
	b.lineByteSize = byteSize
	return b
}

// Build derives the layout.
func (b Builder) Build() (Layout, error) {
	capacity, ways := b.cacheByteSize, b.wayAssociativity
	if b.numEntries > 0 {
		hi, lo := bits.Mul64(b.numEntries, b.lineByteSize)
		if hi != 0 {
			return Layout{}, synthgen.Configurationf("build geometry",
				"%d entries of %d bytes overflow the capacity",
				b.numEntries, b.lineByteSize)
		}

		capacity, ways = lo, 1
	}

	spec, perWay, err := Derive(
		capacity,
		ways,
		b.lineByteSize,
		b.wordBitSize,
		b.writeBitSize,
	)
	if err != nil {
		return Layout{}, err
	}

	spec.NumBanks = b.numBanks
	spec.Ports = b.ports

	if err := spec.Validate(); err != nil {
		return Layout{}, err
	}

	return Layout{
		Spec:            spec,
		InstancesPerWay: perWay,
		Ways:            ways,
	}, nil
}
