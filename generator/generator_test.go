package generator_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/synthgen"
	"github.com/sarchlab/synthgen/catalog"
	"github.com/sarchlab/synthgen/generator"
	"github.com/sarchlab/synthgen/geometry"
	"github.com/sarchlab/synthgen/script"
)

var tc = script.Toolchain{
	Liberty:  "/pdk/sky130_fd_sc_hd__tt_025C_1v80.lib",
	MacroDir: "/design/macros/openram_output",
}

func readDir(dir string) map[string][]byte {
	files := map[string][]byte{}

	entries, err := os.ReadDir(dir)
	Expect(err).NotTo(HaveOccurred())

	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		Expect(err).NotTo(HaveOccurred())
		files[e.Name()] = data
	}

	return files
}

var _ = Describe("Generator on the filesystem", func() {
	var (
		outDir string
		logBuf *bytes.Buffer
		g      *generator.Generator
		cat    *catalog.Catalog
	)

	BeforeEach(func() {
		outDir = filepath.Join(GinkgoT().TempDir(), "hierarchical_synth")
		logBuf = new(bytes.Buffer)
		cat = catalog.Default("/design")

		g = generator.MakeBuilder().
			WithToolchain(tc).
			WithScriptDir(outDir).
			WithMacroConfigDir(filepath.Join(outDir, "openram")).
			WithNumWorkers(4).
			WithLogger(log.New(logBuf, "", 0)).
			Build()
	})

	It("should write one script per module", func() {
		rep, err := g.Run(context.Background(), cat)

		Expect(err).NotTo(HaveOccurred())
		Expect(rep.OK()).To(BeTrue())
		Expect(rep.Written).To(HaveLen(17))
		Expect(rep.Written[0]).To(Equal("synth_simple_alu.ys"))
		Expect(rep.Written[16]).To(Equal("synth_l2_cache_new.ys"))

		files := readDir(outDir)
		Expect(files).To(HaveLen(17))

		for _, e := range cat.Entries() {
			a, err := script.Render(e, tc, e.Name)
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(HaveKeyWithValue(a.Filename, a.Bytes()))
		}
	})

	It("should report progress in catalog order", func() {
		_, err := g.Run(context.Background(), cat)
		Expect(err).NotTo(HaveOccurred())

		lines := bytes.Split(bytes.TrimSpace(logBuf.Bytes()), []byte("\n"))
		Expect(lines).To(HaveLen(17))
		for i, name := range cat.Names() {
			Expect(string(lines[i])).To(Equal("Generated synth_" + name + ".ys"))
		}
	})

	It("should produce identical artifacts on a second run", func() {
		_, err := g.Run(context.Background(), cat)
		Expect(err).NotTo(HaveOccurred())
		first := readDir(outDir)

		_, err = g.Run(context.Background(), cat)
		Expect(err).NotTo(HaveOccurred())

		Expect(readDir(outDir)).To(Equal(first))
	})

	It("should replace existing scripts", func() {
		Expect(os.MkdirAll(outDir, 0o755)).To(Succeed())
		stale := filepath.Join(outDir, "synth_lsu.ys")
		Expect(os.WriteFile(stale, []byte("stale"), 0o644)).To(Succeed())

		_, err := g.Run(context.Background(), cat)
		Expect(err).NotTo(HaveOccurred())

		data, err := os.ReadFile(stale)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix("read_liberty -lib "))
	})

	It("should keep going when a module is malformed", func() {
		bad := catalog.New(
			catalog.ModuleSpec{Name: "a", SourcePath: "a.v", TopName: "a"},
			catalog.ModuleSpec{Name: "broken", SourcePath: "b.v"},
			catalog.ModuleSpec{Name: "c", SourcePath: "c.v", TopName: "c"},
		)

		rep, err := g.Run(context.Background(), bad)

		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Written).To(Equal([]string{"synth_a.ys", "synth_c.ys"}))
		Expect(rep.Failed()).To(Equal(map[string]synthgen.ErrorKind{
			"broken": synthgen.KindConfiguration,
		}))
		Expect(filepath.Join(outDir, "synth_broken.ys")).NotTo(BeAnExistingFile())
	})

	It("should fail when the output directory cannot be created", func() {
		file := filepath.Join(GinkgoT().TempDir(), "file")
		Expect(os.WriteFile(file, nil, 0o644)).To(Succeed())

		g = generator.MakeBuilder().
			WithToolchain(tc).
			WithScriptDir(filepath.Join(file, "sub")).
			Build()

		_, err := g.Run(context.Background(), cat)

		Expect(err).To(MatchError(synthgen.ErrIO))
	})

	It("should write the memory compiler configs", func() {
		rep, err := g.RunMacros(context.Background(), geometry.DefaultStructures())

		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Written).To(Equal([]string{
			"l1_icache_config.py",
			"l1_dcache_config.py",
			"l2_cache_config.py",
			"tlb_config.py",
		}))

		files := readDir(filepath.Join(outDir, "openram"))
		Expect(string(files["tlb_config.py"])).To(ContainSubstring("num_words = 64\n"))
		Expect(string(files["tlb_config.py"])).To(ContainSubstring("num_r_ports = 1\n"))
		Expect(string(files["l1_dcache_config.py"])).To(ContainSubstring("num_words = 128\n"))
	})

	It("should report every entry as failed when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		rep, err := g.Run(ctx, cat)

		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Written).To(BeEmpty())
		Expect(rep.Failures).To(HaveLen(17))
		Expect(rep.Failures[0].Err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Generator with a mocked sink", func() {
	var (
		mockCtrl *gomock.Controller
		sink     *MockSink
		recorder *MockArtifactRecorder
		g        *generator.Generator
		cat      *catalog.Catalog
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		sink = NewMockSink(mockCtrl)
		recorder = NewMockArtifactRecorder(mockCtrl)

		cat = catalog.New(
			catalog.ModuleSpec{Name: "a", SourcePath: "a.v", TopName: "a"},
			catalog.ModuleSpec{Name: "b", SourcePath: "b.v", TopName: "b"},
			catalog.ModuleSpec{Name: "c", SourcePath: "c.v", TopName: "c"},
		)

		g = generator.MakeBuilder().
			WithToolchain(tc).
			WithScriptDir("out").
			WithNumWorkers(2).
			WithSink(sink).
			WithRecorder(recorder).
			Build()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record a write failure and continue", func() {
		diskFull := errors.New("disk full")

		sink.EXPECT().EnsureDir("out").Return(nil)
		sink.EXPECT().WriteFile(filepath.Join("out", "synth_a.ys"), gomock.Any()).Return(nil)
		sink.EXPECT().WriteFile(filepath.Join("out", "synth_b.ys"), gomock.Any()).Return(diskFull)
		sink.EXPECT().WriteFile(filepath.Join("out", "synth_c.ys"), gomock.Any()).Return(nil)

		recorder.EXPECT().RecordArtifact("a", "synth_a.ys", gomock.Not(gomock.Nil()), nil)
		recorder.EXPECT().RecordArtifact("b", "synth_b.ys", gomock.Any(), gomock.Not(gomock.Nil()))
		recorder.EXPECT().RecordArtifact("c", "synth_c.ys", gomock.Not(gomock.Nil()), nil)

		rep, err := g.Run(context.Background(), cat)

		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Written).To(Equal([]string{"synth_a.ys", "synth_c.ys"}))
		Expect(rep.Failures).To(HaveLen(1))
		Expect(rep.Failures[0].Module).To(Equal("b"))
		Expect(rep.Failures[0].Kind).To(Equal(synthgen.KindIO))
		Expect(rep.Failures[0].Err).To(MatchError(diskFull))
	})

	It("should not write anything if the directory cannot be created", func() {
		sink.EXPECT().EnsureDir("out").Return(os.ErrPermission)

		_, err := g.Run(context.Background(), cat)

		Expect(err).To(MatchError(synthgen.ErrIO))
		Expect(err).To(MatchError(os.ErrPermission))
	})
})

var _ = Describe("Report", func() {
	It("should summarize failures", func() {
		rep := generator.Report{
			Written: []string{"synth_a.ys"},
			Failures: []generator.Failure{{
				Module: "b",
				Kind:   synthgen.KindConfiguration,
				Err:    errors.New("empty top name"),
			}},
		}

		buf := new(bytes.Buffer)
		rep.Summary(buf)

		Expect(buf.String()).To(ContainSubstring("1 artifacts written"))
		Expect(buf.String()).To(ContainSubstring("1 artifacts failed"))
		Expect(buf.String()).To(ContainSubstring("b: "))
		Expect(buf.String()).To(ContainSubstring("ConfigurationError"))
	})

	It("should merge reports", func() {
		a := generator.Report{Written: []string{"x"}}
		b := generator.Report{Failures: []generator.Failure{{Module: "y"}}}

		m := a.Merge(b)

		Expect(m.Written).To(Equal([]string{"x"}))
		Expect(m.Failures).To(HaveLen(1))
		Expect(a.Failures).To(BeEmpty())
	})
})
