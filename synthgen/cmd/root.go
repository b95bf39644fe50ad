// Package cmd provides the command-line interface of synthgen.
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/synthgen/catalog"
	"github.com/sarchlab/synthgen/config"
	"github.com/sarchlab/synthgen/generator"
	"github.com/sarchlab/synthgen/geometry"
	"github.com/sarchlab/synthgen/runlog"
	"github.com/sarchlab/synthgen/script"
)

// rootCmd regenerates every artifact when called without a subcommand.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "synthgen",
		Short: "Generate Yosys synthesis scripts and OpenRAM configs.",
		Long: `synthgen writes one Yosys script per hardware module of the ` +
			`processor into the output directory, and one OpenRAM config per ` +
			`cache or TLB. Settings come from the environment (SYNTHGEN_*), ` +
			`a .env file and the flags below.`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	c.Flags().String("catalog", "", "TOML module catalog, instead of the built-in one")
	c.Flags().String("out", "", "output directory of the synthesis scripts")
	c.Flags().String("design-dir", "", "root directory of the processor design")
	c.Flags().String("liberty", "", "standard cell liberty file")
	c.Flags().String("macro-dir", "", "directory of the memory macro models")
	c.Flags().String("macro-config-dir", "", "output directory of the OpenRAM configs")
	c.Flags().Int("jobs", 0, "number of artifacts generated at the same time")
	c.Flags().String("record", "", "create a SQLite ledger of the run at this path")

	c.AddCommand(newGeometryCmd())

	return c
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	strFlags := map[string]*string{
		"catalog":          &cfg.CatalogPath,
		"out":              &cfg.OutDir,
		"design-dir":       &cfg.DesignDir,
		"liberty":          &cfg.PDKLib,
		"macro-dir":        &cfg.MacroDir,
		"macro-config-dir": &cfg.MacroConfigDir,
		"record":           &cfg.RecordPath,
	}

	for name, field := range strFlags {
		if flags.Changed(name) {
			*field, _ = flags.GetString(name)
		}
	}

	if flags.Changed("jobs") {
		cfg.Jobs, _ = flags.GetInt("jobs")
	}

	return cfg, nil
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(cfg.DesignDir), nil
	}

	return catalog.Load(cfg.CatalogPath)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	b := generator.MakeBuilder().
		WithToolchain(script.Toolchain{
			Liberty:  cfg.PDKLib,
			MacroDir: cfg.MacroModelDir(),
		}).
		WithScriptDir(cfg.OutDir).
		WithMacroConfigDir(cfg.MacroConfigOutDir()).
		WithTechnology(cfg.Technology).
		WithMacroOutputPath(cfg.MacroOutputPath()).
		WithNumWorkers(cfg.Jobs).
		WithLogger(log.New(out, "", 0))

	if cfg.RecordPath != "" {
		ledger, err := runlog.Open(cfg.RecordPath)
		if err != nil {
			log.Printf("Warning: run ledger disabled: %v", err)
		} else {
			defer func() {
				if err := ledger.Close(); err != nil {
					log.Printf("Warning: %v", err)
				}
			}()

			if err := ledger.Start(); err != nil {
				log.Printf("Warning: %v", err)
			}

			b = b.WithRecorder(ledger)
		}
	}

	g := b.Build()

	rep, err := g.Run(cmd.Context(), cat)
	if err != nil {
		return err
	}

	macroRep, err := g.RunMacros(cmd.Context(), geometry.DefaultStructures())
	if err != nil {
		rep.Summary(out)
		return err
	}

	fmt.Fprintf(out, "\nAll synthesis scripts generated in %s/\n", cfg.OutDir)
	rep.Merge(macroRep).Summary(out)

	return nil
}
