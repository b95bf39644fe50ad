// Package generator writes the synthesis scripts of a catalog and the memory
// compiler configs of the memory structures.
package generator

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/synthgen"
	"github.com/sarchlab/synthgen/catalog"
	"github.com/sarchlab/synthgen/geometry"
	"github.com/sarchlab/synthgen/script"
)

// Builder can build generators.
type Builder struct {
	toolchain       script.Toolchain
	scriptDir       string
	macroConfigDir  string
	technology      string
	macroOutputPath string
	numWorkers      int
	sink            Sink
	recorder        ArtifactRecorder
	logger          *log.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		scriptDir:       "hierarchical_synth",
		macroConfigDir:  "openram_configs",
		technology:      "sky130",
		macroOutputPath: "../macros/openram_output",
		numWorkers:      runtime.GOMAXPROCS(0),
	}
}

// WithToolchain sets the libraries the scripts load.
func (b Builder) WithToolchain(tc script.Toolchain) Builder {
	b.toolchain = tc
	return b
}

// WithScriptDir sets the directory the scripts are written to.
func (b Builder) WithScriptDir(dir string) Builder {
	b.scriptDir = dir
	return b
}

// WithMacroConfigDir sets the directory the memory compiler configs are
// written to.
func (b Builder) WithMacroConfigDir(dir string) Builder {
	b.macroConfigDir = dir
	return b
}

// WithTechnology sets the technology the memory compiler targets.
func (b Builder) WithTechnology(tech string) Builder {
	b.technology = tech
	return b
}

// WithMacroOutputPath sets where the memory compiler puts the macros.
func (b Builder) WithMacroOutputPath(path string) Builder {
	b.macroOutputPath = path
	return b
}

// WithNumWorkers sets how many artifacts are generated at the same time.
func (b Builder) WithNumWorkers(n int) Builder {
	b.numWorkers = n
	return b
}

// WithSink sets where artifacts are written. The local filesystem is used by
// default.
func (b Builder) WithSink(s Sink) Builder {
	b.sink = s
	return b
}

// WithRecorder sets a recorder that is told about every artifact.
func (b Builder) WithRecorder(r ArtifactRecorder) Builder {
	b.recorder = r
	return b
}

// WithLogger sets the logger that progress is reported to.
func (b Builder) WithLogger(l *log.Logger) Builder {
	b.logger = l
	return b
}

// Build creates a generator.
func (b Builder) Build() *Generator {
	g := &Generator{
		toolchain:       b.toolchain,
		scriptDir:       b.scriptDir,
		macroConfigDir:  b.macroConfigDir,
		technology:      b.technology,
		macroOutputPath: b.macroOutputPath,
		numWorkers:      b.numWorkers,
		sink:            b.sink,
		recorder:        b.recorder,
		logger:          b.logger,
	}

	if g.numWorkers <= 0 {
		g.numWorkers = runtime.GOMAXPROCS(0)
	}

	if g.sink == nil {
		g.sink = NewFileSink()
	}

	if g.logger == nil {
		g.logger = log.New(io.Discard, "", 0)
	}

	return g
}

// A Generator writes artifacts.
type Generator struct {
	toolchain       script.Toolchain
	scriptDir       string
	macroConfigDir  string
	technology      string
	macroOutputPath string
	numWorkers      int
	sink            Sink
	recorder        ArtifactRecorder
	logger          *log.Logger
}

type job struct {
	module   string
	filename string
	render   func() ([]byte, error)
}

type result struct {
	filename string
	err      error
}

// Run writes "<scriptDir>/synth_<name>.ys" for every module of the catalog.
// Failing modules are listed in the report and do not stop the others. An
// error is returned only if the script directory cannot be created.
func (g *Generator) Run(ctx context.Context, cat *catalog.Catalog) (Report, error) {
	entries := cat.Entries()
	jobs := make([]job, 0, len(entries))

	for _, e := range entries {
		jobs = append(jobs, job{
			module:   e.Name,
			filename: script.ScriptFilename(e.Name),
			render: func() ([]byte, error) {
				a, err := script.Render(e, g.toolchain, e.Name)
				if err != nil {
					return nil, err
				}

				return a.Bytes(), nil
			},
		})
	}

	return g.runJobs(ctx, g.scriptDir, jobs)
}

// RunMacros writes "<macroConfigDir>/<structure>_config.py" for every
// structure.
func (g *Generator) RunMacros(
	ctx context.Context,
	structures []geometry.Structure,
) (Report, error) {
	jobs := make([]job, 0, len(structures))

	for _, s := range structures {
		jobs = append(jobs, job{
			module:   s.Name,
			filename: s.Name + "_config.py",
			render: func() ([]byte, error) {
				c, err := geometry.NewMacroConfig(s, g.technology, g.macroOutputPath)
				if err != nil {
					return nil, err
				}

				return c.Render(), nil
			},
		})
	}

	return g.runJobs(ctx, g.macroConfigDir, jobs)
}

func (g *Generator) runJobs(ctx context.Context, dir string, jobs []job) (Report, error) {
	if err := g.sink.EnsureDir(dir); err != nil {
		return Report{}, synthgen.WrapIO("create output directory", err)
	}

	results := make([]result, len(jobs))

	var eg errgroup.Group
	eg.SetLimit(max(1, min(g.numWorkers, len(jobs))))

	for i, j := range jobs {
		eg.Go(func() error {
			results[i] = g.runJob(ctx, dir, j)
			return nil
		})
	}

	_ = eg.Wait()

	return g.report(jobs, results), nil
}

func (g *Generator) runJob(ctx context.Context, dir string, j job) result {
	r := result{filename: j.filename}

	if err := ctx.Err(); err != nil {
		r.err = synthgen.WrapIO("generate "+j.filename, err)
		g.record(j, nil, r.err)

		return r
	}

	data, err := j.render()
	if err == nil {
		err = synthgen.WrapIO("write "+j.filename,
			g.sink.WriteFile(filepath.Join(dir, j.filename), data))
	}

	r.err = err
	g.record(j, data, err)

	return r
}

func (g *Generator) record(j job, data []byte, err error) {
	if g.recorder != nil {
		g.recorder.RecordArtifact(j.module, j.filename, data, err)
	}
}

func (g *Generator) report(jobs []job, results []result) Report {
	var rep Report

	for i, r := range results {
		if r.err != nil {
			g.logger.Printf("Failed %s: %v", r.filename, r.err)
			rep.Failures = append(rep.Failures, Failure{
				Module: jobs[i].module,
				Kind:   synthgen.KindOf(r.err),
				Err:    r.err,
			})

			continue
		}

		g.logger.Printf("Generated %s", r.filename)
		rep.Written = append(rep.Written, r.filename)
	}

	return rep
}
