package generator

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sarchlab/synthgen"
)

// A Failure is an artifact that could not be generated.
type Failure struct {
	Module string
	Kind   synthgen.ErrorKind
	Err    error
}

// A Report lists what a run wrote and what failed, in catalog order.
type Report struct {
	Written  []string
	Failures []Failure
}

// OK returns true if nothing failed.
func (r Report) OK() bool {
	return len(r.Failures) == 0
}

// Failed maps each failed module to its error kind.
func (r Report) Failed() map[string]synthgen.ErrorKind {
	m := make(map[string]synthgen.ErrorKind, len(r.Failures))
	for _, f := range r.Failures {
		m[f.Module] = f.Kind
	}

	return m
}

// Merge appends the content of other.
func (r Report) Merge(other Report) Report {
	return Report{
		Written:  append(append([]string(nil), r.Written...), other.Written...),
		Failures: append(append([]Failure(nil), r.Failures...), other.Failures...),
	}
}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	kindColor = color.New(color.FgYellow)
)

// Summary prints the report.
func (r Report) Summary(w io.Writer) {
	okColor.Fprintf(w, "%d artifacts written\n", len(r.Written))

	if r.OK() {
		return
	}

	failColor.Fprintf(w, "%d artifacts failed\n", len(r.Failures))

	for _, f := range r.Failures {
		fmt.Fprintf(w, "  %s: %s: %v\n", f.Module, kindColor.Sprint(f.Kind), f.Err)
	}
}
