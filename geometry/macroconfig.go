package geometry

import (
	"bytes"
	"fmt"

	"github.com/sarchlab/synthgen"
)

// A MacroConfig is the record handed to the memory compiler for one
// structure.
type MacroConfig struct {
	Structure  string
	Technology string
	OutputName string
	OutputPath string
	Layout     Layout
}

// NewMacroConfig derives the layout of a structure and wraps it in a config
// record.
func NewMacroConfig(s Structure, technology, outputPath string) (MacroConfig, error) {
	if technology == "" {
		return MacroConfig{}, synthgen.Configurationf("macro config",
			"%s: technology must not be empty", s.Name)
	}

	if s.OutputName == "" {
		return MacroConfig{}, synthgen.Configurationf("macro config",
			"%s: output name must not be empty", s.Name)
	}

	layout, err := s.Layout()
	if err != nil {
		return MacroConfig{}, fmt.Errorf("%s: %w", s.Name, err)
	}

	return MacroConfig{
		Structure:  s.Name,
		Technology: technology,
		OutputName: s.OutputName,
		OutputPath: outputPath,
		Layout:     layout,
	}, nil
}

// Filename returns the name of the config file.
func (c MacroConfig) Filename() string {
	return c.Structure + "_config.py"
}

// Render writes the config in the OpenRAM Python config format.
func (c MacroConfig) Render() []byte {
	l := c.Layout
	buf := new(bytes.Buffer)

	fmt.Fprintf(buf, "# OpenRAM configuration for %s\n", c.Structure)
	fmt.Fprintf(buf, "# %d instances per way x %d ways = %d instances\n",
		l.InstancesPerWay, l.Ways, l.TotalInstances())
	fmt.Fprintf(buf, "# %d write mask bits per word\n\n", l.WriteMaskBits())

	fmt.Fprintf(buf, "technology_name = %q\n", c.Technology)
	fmt.Fprintf(buf, "output_name = %q\n", c.OutputName)
	fmt.Fprintf(buf, "output_path = %q\n\n", c.OutputPath)

	fmt.Fprintf(buf, "word_size = %d\n", l.WordSize)
	fmt.Fprintf(buf, "num_words = %d\n", l.NumWords)
	fmt.Fprintf(buf, "num_banks = %d\n\n", l.NumBanks)

	fmt.Fprintf(buf, "num_rw_ports = %d\n", l.Ports.ReadWrite)
	fmt.Fprintf(buf, "num_r_ports = %d\n", l.Ports.ReadOnly)
	fmt.Fprintf(buf, "num_w_ports = %d\n\n", l.Ports.WriteOnly)

	fmt.Fprintf(buf, "write_size = %d\n", l.WriteSize)

	return buf.Bytes()
}
