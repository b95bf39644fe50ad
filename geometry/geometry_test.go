package geometry_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/synthgen"
	"github.com/sarchlab/synthgen/geometry"
)

var _ = Describe("Derive", func() {
	It("should derive a 32KB 4-way L1 cache", func() {
		spec, perWay, err := geometry.Derive(32*geometry.KB, 4, 64, 64, 8)

		Expect(err).NotTo(HaveOccurred())
		Expect(spec.WordSize).To(Equal(uint64(64)))
		Expect(spec.NumWords).To(Equal(uint64(128)))
		Expect(spec.WriteSize).To(Equal(uint64(8)))
		Expect(spec.WriteMaskBits()).To(Equal(uint64(8)))
		Expect(perWay).To(Equal(uint64(8)))
		Expect(perWay * 4).To(Equal(uint64(32)))
	})

	It("should derive a 256KB 8-way L2 cache", func() {
		spec, perWay, err := geometry.Derive(256*geometry.KB, 8, 64, 64, 8)

		Expect(err).NotTo(HaveOccurred())
		Expect(spec.WordSize).To(Equal(uint64(64)))
		Expect(spec.NumWords).To(Equal(uint64(512)))
		Expect(perWay).To(Equal(uint64(8)))
		Expect(perWay * 8).To(Equal(uint64(64)))
	})

	It("should derive a 64-entry table", func() {
		spec, perWay, err := geometry.Derive(64*8, 1, 8, 64, 64)

		Expect(err).NotTo(HaveOccurred())
		Expect(perWay).To(Equal(uint64(1)))
		Expect(spec.NumWords).To(Equal(uint64(64)))
		Expect(spec.WriteSize).To(Equal(uint64(64)))
		Expect(spec.WriteMaskBits()).To(Equal(uint64(1)))
	})

	It("should round the instance count up", func() {
		_, perWay, err := geometry.Derive(48, 1, 6, 32, 8)

		Expect(err).NotTo(HaveOccurred())
		Expect(perWay).To(Equal(uint64(2)))
	})

	It("should not overflow on very wide words", func() {
		spec, perWay, err := geometry.Derive(
			32*geometry.KB, 4, 64, math.MaxUint64, math.MaxUint64)

		Expect(err).NotTo(HaveOccurred())
		Expect(perWay).To(Equal(uint64(1)))
		Expect(spec.WordSize).To(Equal(uint64(math.MaxUint64)))
	})

	It("should reject a line too wide to count in bits", func() {
		_, perWay, err := geometry.Derive(1<<61, 1, 1<<61, 64, 8)

		Expect(err).To(MatchError(synthgen.ErrConfiguration))
		Expect(err.Error()).To(ContainSubstring("does not fit in bits"))
		Expect(perWay).To(BeZero())
	})

	It("should hold the instance formula for all divisible inputs", func() {
		for _, ways := range []uint64{1, 2, 4, 8, 16} {
			for _, line := range []uint64{8, 16, 32, 64, 128} {
				for _, word := range []uint64{8, 24, 32, 64, 100} {
					capacity := ways * line * 32

					spec, perWay, err := geometry.Derive(capacity, ways, line, word, 8)
					if word%8 != 0 {
						Expect(err).To(MatchError(synthgen.ErrConfiguration))
						continue
					}

					Expect(err).NotTo(HaveOccurred())
					Expect(perWay).To(Equal((line*8 + word - 1) / word))
					Expect(spec.NumWords).To(Equal(uint64(32)))
				}
			}
		}
	})

	DescribeTable("should reject non-divisible or empty parameters",
		func(capacity, ways, line, word, write uint64) {
			spec, perWay, err := geometry.Derive(capacity, ways, line, word, write)

			Expect(err).To(MatchError(synthgen.ErrConfiguration))
			Expect(synthgen.KindOf(err)).To(Equal(synthgen.KindConfiguration))
			Expect(spec).To(BeZero())
			Expect(perWay).To(BeZero())
		},
		Entry("capacity not divisible by ways", uint64(1000), uint64(3), uint64(8), uint64(64), uint64(8)),
		Entry("way not divisible by line", uint64(4096), uint64(4), uint64(48), uint64(64), uint64(8)),
		Entry("zero associativity", uint64(4096), uint64(0), uint64(64), uint64(64), uint64(8)),
		Entry("zero line size", uint64(4096), uint64(4), uint64(0), uint64(64), uint64(8)),
		Entry("zero word size", uint64(4096), uint64(4), uint64(64), uint64(0), uint64(8)),
		Entry("zero capacity", uint64(0), uint64(4), uint64(64), uint64(64), uint64(8)),
		Entry("zero write size", uint64(4096), uint64(4), uint64(64), uint64(64), uint64(0)),
		Entry("write size not dividing word", uint64(4096), uint64(4), uint64(64), uint64(64), uint64(24)),
	)
})

var _ = Describe("Spec", func() {
	valid := geometry.Spec{
		WordSize:  64,
		NumWords:  128,
		NumBanks:  1,
		Ports:     geometry.PortConfig{ReadWrite: 1},
		WriteSize: 8,
	}

	It("should accept a valid spec", func() {
		Expect(valid.Validate()).To(Succeed())
	})

	It("should require at least one port", func() {
		s := valid
		s.Ports = geometry.PortConfig{}

		Expect(s.Validate()).To(MatchError(synthgen.ErrConfiguration))
	})

	It("should require a bank", func() {
		s := valid
		s.NumBanks = 0

		Expect(s.Validate()).To(MatchError(synthgen.ErrConfiguration))
	})
})
