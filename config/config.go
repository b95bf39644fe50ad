// Package config holds the settings of a generation run.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sarchlab/synthgen"
)

// Environment variables that override the defaults.
const (
	EnvPDKLib         = "SYNTHGEN_PDK_LIB"
	EnvDesignDir      = "SYNTHGEN_DESIGN_DIR"
	EnvOutDir         = "SYNTHGEN_OUT_DIR"
	EnvMacroDir       = "SYNTHGEN_MACRO_DIR"
	EnvMacroConfigDir = "SYNTHGEN_MACRO_CONFIG_DIR"
	EnvTechnology     = "SYNTHGEN_TECH"
	EnvJobs           = "SYNTHGEN_JOBS"
	EnvCatalog        = "SYNTHGEN_CATALOG"
)

// Config is the settings of a generation run.
type Config struct {
	// PDKLib is the liberty file of the standard cells.
	PDKLib string

	// DesignDir is the root of the processor design.
	DesignDir string

	// MacroDir holds the structural models of the memory macros. Defaults
	// to DesignDir/macros/openram_output.
	MacroDir string

	// OutDir receives the synthesis scripts.
	OutDir string

	// MacroConfigDir receives the memory compiler configs. Defaults to
	// DesignDir/openram_configs.
	MacroConfigDir string

	// Technology is the process the memory compiler targets.
	Technology string

	// CatalogPath optionally points to a TOML module catalog. The built-in
	// catalog is used when it is empty.
	CatalogPath string

	// RecordPath optionally points to a SQLite run ledger to create.
	RecordPath string

	// Jobs is the number of artifacts generated at the same time. Zero means
	// one per CPU.
	Jobs int
}

// Default returns the settings of the processor build.
func Default() Config {
	return Config{
		PDKLib: "/usr/share/pdk/sky130A/libs.ref/sky130_fd_sc_hd/lib/" +
			"sky130_fd_sc_hd__tt_025C_1v80.lib",
		DesignDir:  ".",
		OutDir:     "hierarchical_synth",
		Technology: "sky130",
	}
}

// Load reads the .env file in the working directory, if any, and overlays the
// environment onto the defaults.
func Load() (Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, synthgen.Configurationf("load config", ".env: %w", err)
	}

	return FromEnv(Default())
}

// FromEnv overlays the environment onto c.
func FromEnv(c Config) (Config, error) {
	overlay := map[string]*string{
		EnvPDKLib:         &c.PDKLib,
		EnvDesignDir:      &c.DesignDir,
		EnvOutDir:         &c.OutDir,
		EnvMacroDir:       &c.MacroDir,
		EnvMacroConfigDir: &c.MacroConfigDir,
		EnvTechnology:     &c.Technology,
		EnvCatalog:        &c.CatalogPath,
	}

	for name, field := range overlay {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*field = v
		}
	}

	if v, ok := os.LookupEnv(EnvJobs); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, synthgen.Configurationf("load config",
				"%s must be a non-negative integer, got %q", EnvJobs, v)
		}

		c.Jobs = n
	}

	return c, nil
}

// MacroModelDir returns the directory of the memory macro models.
func (c Config) MacroModelDir() string {
	if c.MacroDir != "" {
		return c.MacroDir
	}

	return filepath.Join(c.DesignDir, "macros", "openram_output")
}

// MacroConfigOutDir returns the directory the memory compiler configs are
// written to.
func (c Config) MacroConfigOutDir() string {
	if c.MacroConfigDir != "" {
		return c.MacroConfigDir
	}

	return filepath.Join(c.DesignDir, "openram_configs")
}

// MacroOutputPath returns the macro output path written into the memory
// compiler configs, relative to the config directory.
func (c Config) MacroOutputPath() string {
	rel, err := filepath.Rel(c.MacroConfigOutDir(), c.MacroModelDir())
	if err != nil {
		return c.MacroModelDir()
	}

	return rel
}
