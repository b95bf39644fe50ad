// Package geometry derives the memory-macro geometry of caches and TLBs.
//
// A cache way is stored across several narrow SRAM macros, because the
// memory compiler handles word widths much smaller than a cache line. Derive
// works out how many macros one way needs and what each macro looks like.
package geometry

import (
	"math"

	"github.com/sarchlab/synthgen"
)

// Byte size units.
const (
	KB uint64 = 1 << 10
	MB uint64 = 1 << 20
)

// PortConfig counts the ports of a memory macro.
type PortConfig struct {
	ReadWrite int
	ReadOnly  int
	WriteOnly int
}

// Total returns the number of ports.
func (p PortConfig) Total() int {
	return p.ReadWrite + p.ReadOnly + p.WriteOnly
}

// Spec describes one physical memory array to compile.
type Spec struct {
	WordSize  uint64
	NumWords  uint64
	NumBanks  int
	Ports     PortConfig
	WriteSize uint64
}

// Validate checks the invariants of a macro spec.
func (s Spec) Validate() error {
	const op = "validate geometry"

	switch {
	case s.WordSize == 0:
		return synthgen.Configurationf(op, "word size must be positive")
	case s.NumWords == 0:
		return synthgen.Configurationf(op, "word count must be positive")
	case s.NumBanks <= 0:
		return synthgen.Configurationf(op, "bank count must be positive")
	case s.WriteSize == 0:
		return synthgen.Configurationf(op, "write size must be positive")
	case s.WordSize%s.WriteSize != 0:
		return synthgen.Configurationf(op,
			"write size %d does not divide word size %d", s.WriteSize, s.WordSize)
	case s.Ports.ReadWrite < 0 || s.Ports.ReadOnly < 0 || s.Ports.WriteOnly < 0:
		return synthgen.Configurationf(op, "port counts must not be negative")
	case s.Ports.Total() == 0:
		return synthgen.Configurationf(op, "at least one port is required")
	}

	return nil
}

// WriteMaskBits returns the number of write-enable segments of a word.
func (s Spec) WriteMaskBits() uint64 {
	return s.WordSize / s.WriteSize
}

// Layout is the macro spec of a structure together with how many instances
// realize it.
type Layout struct {
	Spec
	InstancesPerWay uint64
	Ways            uint64
}

// TotalInstances returns the number of macros of the whole structure.
func (l Layout) TotalInstances() uint64 {
	return l.InstancesPerWay * l.Ways
}

// Derive maps the architectural parameters of a cache to the spec of one
// memory macro and the number of macros per way. Table-lookup structures use
// an associativity of 1 and the entry width as the line size.
//
// The returned spec has a single bank and a single read/write port.
func Derive(
	capacityBytes, associativity, lineBytes, wordBits, writeBits uint64,
) (Spec, uint64, error) {
	const op = "derive geometry"

	switch {
	case capacityBytes == 0:
		return Spec{}, 0, synthgen.Configurationf(op, "capacity must be positive")
	case associativity == 0:
		return Spec{}, 0, synthgen.Configurationf(op, "associativity must be positive")
	case lineBytes == 0:
		return Spec{}, 0, synthgen.Configurationf(op, "line size must be positive")
	case wordBits == 0:
		return Spec{}, 0, synthgen.Configurationf(op, "word size must be positive")
	case lineBytes > math.MaxUint64/8:
		return Spec{}, 0, synthgen.Configurationf(op,
			"line size %d bytes does not fit in bits", lineBytes)
	}

	if capacityBytes%associativity != 0 {
		return Spec{}, 0, synthgen.Configurationf(op,
			"capacity %d is not divisible by associativity %d",
			capacityBytes, associativity)
	}

	wayBytes := capacityBytes / associativity

	if wayBytes%lineBytes != 0 {
		return Spec{}, 0, synthgen.Configurationf(op,
			"way size %d is not divisible by line size %d",
			wayBytes, lineBytes)
	}

	lineBits := lineBytes * 8
	instancesPerWay := lineBits / wordBits
	if lineBits%wordBits != 0 {
		instancesPerWay++
	}

	spec := Spec{
		WordSize:  wordBits,
		NumWords:  wayBytes / lineBytes,
		NumBanks:  1,
		Ports:     PortConfig{ReadWrite: 1},
		WriteSize: writeBits,
	}

	if err := spec.Validate(); err != nil {
		return Spec{}, 0, err
	}

	return spec, instancesPerWay, nil
}
