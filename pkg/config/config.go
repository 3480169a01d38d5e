// pkg/config/config.go

// Package config defines the simulation run configuration and its on-disk
// yaml form. Configurations are explicit: every field is named and typed,
// and unknown keys in a config file are rejected at load time.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfiguration indicates a configuration that cannot be executed, such
// as a source-language mode the chosen simulator does not support.
var ErrConfiguration = errors.New("invalid configuration")

// Source-language modes for the toplevel unit.
const (
	LangVerilog = "verilog"
	LangVHDL    = "vhdl"
)

// Define is one preprocessor define passed to the HDL compiler. Order is
// preserved: defines reach the compiler in the order they were given.
type Define struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
}

// Flag renders the define as NAME or NAME=VALUE.
func (d Define) Flag() string {
	if d.Value == "" {
		return d.Name
	}
	return d.Name + "=" + d.Value
}

// SimulationConfig describes one simulation run. It is constructed once per
// run and not modified afterwards; the orchestrator only borrows it.
type SimulationConfig struct {
	Toplevel     string `yaml:"toplevel"`      // Toplevel module/entity name
	ToplevelLang string `yaml:"toplevel_lang"` // "verilog" (default) or "vhdl"
	Module       string `yaml:"module"`        // Test module the embedded runtime loads

	VerilogSources []string `yaml:"verilog_sources"`
	VHDLSources    []string `yaml:"vhdl_sources"`
	Includes       []string `yaml:"includes"`
	Defines        []Define `yaml:"defines"`

	CompileArgs []string `yaml:"compile_args"` // Extra compile-time arguments
	SimArgs     []string `yaml:"sim_args"`     // Extra run-time arguments
	ExtraArgs   []string `yaml:"extra_args"`   // Appended to both of the above
	PlusArgs    []string `yaml:"plus_args"`    // Passed to the simulated design

	PythonSearch []string `yaml:"python_search"` // Extra module search directories

	WorkDir  string `yaml:"work_dir"`  // Working directory for subprocesses
	BuildDir string `yaml:"sim_build"` // Build output directory

	Seed         *int64 `yaml:"seed"`          // Fixed random seed, nil for unseeded
	Testcase     string `yaml:"testcase"`      // Single testcase selector
	ForceCompile bool   `yaml:"force_compile"` // Recompile even when up to date
	CompileOnly  bool   `yaml:"compile_only"`  // Stop after compilation
	GUI          bool   `yaml:"gui"`           // Launch the simulator's GUI where supported

	ExtraEnv map[string]string `yaml:"extra_env"` // Overlaid on the child environment
}

// DefaultBuildDir is the build directory used when none is configured.
const DefaultBuildDir = "sim_build"

// Load reads a SimulationConfig from a yaml file. Unknown keys are an
// error, not silently accepted attributes.
func Load(path string) (*SimulationConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var cfg SimulationConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return &cfg, nil
}

// Normalize validates the configuration, fills in defaults and makes every
// path absolute, resolving relative ones against the current directory.
func (c *SimulationConfig) Normalize() error {
	if c.Toplevel == "" {
		return fmt.Errorf("%w: toplevel is required", ErrConfiguration)
	}
	if c.Module == "" {
		return fmt.Errorf("%w: module is required", ErrConfiguration)
	}

	if c.ToplevelLang == "" {
		c.ToplevelLang = LangVerilog
	}
	if c.ToplevelLang != LangVerilog && c.ToplevelLang != LangVHDL {
		return fmt.Errorf("%w: unknown toplevel language %q", ErrConfiguration, c.ToplevelLang)
	}

	if c.BuildDir == "" {
		c.BuildDir = DefaultBuildDir
	}
	var err error
	if c.BuildDir, err = filepath.Abs(c.BuildDir); err != nil {
		return fmt.Errorf("resolving build directory: %w", err)
	}

	if c.WorkDir == "" {
		c.WorkDir = c.BuildDir
	} else if c.WorkDir, err = filepath.Abs(c.WorkDir); err != nil {
		return fmt.Errorf("resolving work directory: %w", err)
	}

	for _, paths := range []*[]string{&c.VerilogSources, &c.VHDLSources, &c.Includes, &c.PythonSearch} {
		if *paths, err = absAll(*paths); err != nil {
			return err
		}
	}

	return nil
}

// AllCompileArgs returns the compile-time arguments with the shared extras
// appended, preserving order.
func (c *SimulationConfig) AllCompileArgs() []string {
	return concat(c.CompileArgs, c.ExtraArgs)
}

// AllSimArgs returns the run-time arguments with the shared extras
// appended, preserving order.
func (c *SimulationConfig) AllSimArgs() []string {
	return concat(c.SimArgs, c.ExtraArgs)
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func absAll(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving path %s: %w", p, err)
		}
		out[i] = abs
	}
	return out, nil
}
