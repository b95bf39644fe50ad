// Package script renders Yosys synthesis scripts for catalog modules.
//
// Every script runs the same stage sequence. The only difference between
// modules is whether memory macro models are loaded as blackboxes before the
// module source.
package script

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/sarchlab/synthgen"
	"github.com/sarchlab/synthgen/catalog"
)

// A Directive is one Yosys command.
type Directive struct {
	Command string
	Args    []string
}

// String renders the command line. Arguments that hold whitespace or
// characters Yosys treats as separators are double-quoted.
func (d Directive) String() string {
	var sb strings.Builder

	sb.WriteString(d.Command)

	for _, a := range d.Args {
		sb.WriteByte(' ')
		sb.WriteString(quoteArg(a))
	}

	return sb.String()
}

func quoteArg(a string) string {
	if a == "" || !strings.ContainsAny(a, " \t\r\n;#\"") {
		return a
	}

	return `"` + strings.ReplaceAll(a, `"`, `\"`) + `"`
}

// Toolchain names the libraries that scripts load.
type Toolchain struct {
	// Liberty is the standard cell library.
	Liberty string

	// MacroDir is the directory of the memory macro models. If empty, the
	// dependency references are used as they are.
	MacroDir string
}

// An Artifact is a rendered script.
type Artifact struct {
	Module     string
	Filename   string
	Directives []Directive
}

// Bytes serializes the script, one directive per line.
func (a Artifact) Bytes() []byte {
	buf := new(bytes.Buffer)
	for _, d := range a.Directives {
		buf.WriteString(d.String())
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// ScriptFilename returns the script filename of a module.
func ScriptFilename(module string) string {
	return "synth_" + module + ".ys"
}

// NetlistFilename returns the name of the netlist a script writes.
func NetlistFilename(basename string) string {
	return basename + "_synth.v"
}

// Render builds the script of a module. The netlist is written to
// "<basename>_synth.v".
func Render(spec catalog.ModuleSpec, tc Toolchain, basename string) (Artifact, error) {
	if err := check(spec, tc, basename); err != nil {
		return Artifact{}, err
	}

	directives := make([]Directive, 0, 3+len(spec.MemoryDeps)+len(fixedStages))

	directives = append(directives,
		Directive{Command: "read_liberty", Args: []string{"-lib", tc.Liberty}})

	for _, dep := range spec.MemoryDeps {
		directives = append(directives,
			Directive{Command: "read_verilog", Args: []string{"-lib", macroPath(tc, dep)}})
	}

	directives = append(directives,
		Directive{Command: "read_verilog", Args: []string{"-sv", spec.SourcePath}})
	directives = append(directives, Stages(spec.TopName, tc.Liberty)...)
	directives = append(directives,
		Directive{Command: "write_verilog", Args: []string{"-noattr", NetlistFilename(basename)}})

	return Artifact{
		Module:     spec.Name,
		Filename:   ScriptFilename(spec.Name),
		Directives: directives,
	}, nil
}

func check(spec catalog.ModuleSpec, tc Toolchain, basename string) error {
	const op = "render script"

	switch {
	case spec.SourcePath == "":
		return synthgen.Configurationf(op, "%s: empty source path", spec.Name)
	case spec.TopName == "":
		return synthgen.Configurationf(op, "%s: empty top name", spec.Name)
	case tc.Liberty == "":
		return synthgen.Configurationf(op, "%s: empty liberty path", spec.Name)
	case basename == "":
		return synthgen.Configurationf(op, "%s: empty output basename", spec.Name)
	}

	for i, dep := range spec.MemoryDeps {
		if dep == "" {
			return synthgen.Configurationf(op, "%s: memory dependency #%d is empty", spec.Name, i+1)
		}
	}

	return nil
}

func macroPath(tc Toolchain, dep string) string {
	if tc.MacroDir == "" || filepath.IsAbs(dep) {
		return dep
	}

	return filepath.Join(tc.MacroDir, dep)
}
