package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/synthgen/geometry"
)

func newGeometryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "geometry",
		Short: "Print the memory macro layout of a cache or table.",
		Long: "`geometry --capacity 32768 --ways 4 --line 64` prints how many " +
			"macros realize the structure and the spec of each macro. Use " +
			"--entries for a table-lookup structure such as a TLB.",
		Args: cobra.NoArgs,
		RunE: runGeometry,
	}

	c.Flags().Uint64("capacity", 32*geometry.KB, "total capacity in bytes")
	c.Flags().Uint64("ways", 4, "associativity")
	c.Flags().Uint64("line", 64, "line size in bytes, or entry size with --entries")
	c.Flags().Uint64("word", 64, "macro word width in bits")
	c.Flags().Uint64("write", 8, "write granularity in bits")
	c.Flags().Uint64("entries", 0, "number of entries of a table-lookup structure")
	c.Flags().Int("rw-ports", 1, "read/write ports")
	c.Flags().Int("r-ports", 0, "read-only ports")
	c.Flags().Int("w-ports", 0, "write-only ports")
	c.Flags().Int("banks", 1, "number of banks")

	return c
}

func runGeometry(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	f := cmd.Flags()
	capacity, _ := f.GetUint64("capacity")
	ways, _ := f.GetUint64("ways")
	line, _ := f.GetUint64("line")
	word, _ := f.GetUint64("word")
	write, _ := f.GetUint64("write")
	entries, _ := f.GetUint64("entries")
	rw, _ := f.GetInt("rw-ports")
	r, _ := f.GetInt("r-ports")
	w, _ := f.GetInt("w-ports")
	banks, _ := f.GetInt("banks")

	b := geometry.MakeBuilder().
		WithCapacity(capacity).
		WithWayAssociativity(ways).
		WithLineSize(line).
		WithWordSize(word).
		WithWriteSize(write).
		WithNumBanks(banks).
		WithPorts(geometry.PortConfig{ReadWrite: rw, ReadOnly: r, WriteOnly: w})

	if entries > 0 {
		b = b.WithNumEntries(entries)
	}

	l, err := b.Build()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "word_size       %d\n", l.WordSize)
	fmt.Fprintf(out, "num_words       %d\n", l.NumWords)
	fmt.Fprintf(out, "num_banks       %d\n", l.NumBanks)
	fmt.Fprintf(out, "write_size      %d\n", l.WriteSize)
	fmt.Fprintf(out, "write_mask_bits %d\n", l.WriteMaskBits())
	fmt.Fprintf(out, "ports           %d rw, %d r, %d w\n",
		l.Ports.ReadWrite, l.Ports.ReadOnly, l.Ports.WriteOnly)
	fmt.Fprintf(out, "instances/way   %d\n", l.InstancesPerWay)
	fmt.Fprintf(out, "ways            %d\n", l.Ways)
	fmt.Fprintf(out, "total instances %d\n", l.TotalInstances())

	return nil
}
