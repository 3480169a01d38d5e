// simbridge.go

// Package simbridge prepares and drives co-simulation runs against
// third-party HDL simulators: it compiles the per-backend matrix of bridge
// shared libraries and orchestrates simulation runs end-to-end, from
// incremental compilation through subprocess execution to structured result
// reporting.
package simbridge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hdl-tools/simbridge/pkg/config"
	"github.com/hdl-tools/simbridge/pkg/matrix"
	"github.com/hdl-tools/simbridge/pkg/results"
	"github.com/hdl-tools/simbridge/pkg/runner"
	"github.com/hdl-tools/simbridge/pkg/simulator"
	"github.com/hdl-tools/simbridge/pkg/toolchain"
)

// Re-export the core types for convenience
type (
	BackendID        = toolchain.BackendID
	Descriptor       = toolchain.Descriptor
	SimulationConfig = config.SimulationConfig
	Define           = config.Define
	RunResult        = results.RunResult
	Failure          = results.Failure
	Artifact         = matrix.Artifact
	BuildSpec        = matrix.BuildSpec
)

// Re-export the backend identifiers
const (
	Icarus    = toolchain.Icarus
	Questa    = toolchain.Questa
	GHDL      = toolchain.GHDL
	IUS       = toolchain.IUS
	VCS       = toolchain.VCS
	Aldec     = toolchain.Aldec
	Verilator = toolchain.Verilator
)

// RunOptions configures one simulation run beyond its SimulationConfig.
type RunOptions struct {
	// Backend selects the simulator; empty falls back to the SIM
	// environment variable, then to icarus.
	Backend BackendID

	// LibDir is the directory holding the backend's bridge libraries;
	// empty resolves to DefaultLibDir()/<backend>.
	LibDir string

	Logger *slog.Logger
}

// Run executes one simulation run end-to-end and returns its parsed result.
// In compile-only mode the result is nil. A non-passing run returns the
// result together with an error enumerating every failed test.
func Run(ctx context.Context, cfg *SimulationConfig, opts *RunOptions) (*RunResult, error) {
	if opts == nil {
		opts = &RunOptions{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	backend := opts.Backend
	if backend == "" {
		backend = BackendID(os.Getenv(runner.EnvSim))
	}
	if backend == "" {
		backend = Icarus
	}

	libDir := opts.LibDir
	if libDir == "" {
		libDir = filepath.Join(DefaultLibDir(), string(backend))
	}

	adapter, err := simulator.ForBackend(backend, libDir)
	if err != nil {
		return nil, &Error{Op: "run", Backend: string(backend), Err: err}
	}

	orch := runner.New(adapter, cfg, runner.Options{
		Logger: opts.Logger,
		LibDir: libDir,
	})
	return orch.Run(ctx)
}

// BuildOptions configures a library matrix build pass.
type BuildOptions struct {
	// OutputRoot is where per-backend artifact directories are created;
	// empty resolves to DefaultLibDir().
	OutputRoot string

	// ShareDir is the bridge source tree root; default "share".
	ShareDir string

	// OverridesPath points at a toolchains.toml with probe overrides.
	OverridesPath string

	Logger *slog.Logger
}

// BuildLibraries compiles the bridge library matrix for every simulator
// toolchain found on the host and returns the artifacts per backend.
func BuildLibraries(ctx context.Context, opts *BuildOptions) (map[BackendID][]Artifact, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	outputRoot := opts.OutputRoot
	if outputRoot == "" {
		outputRoot = DefaultLibDir()
	}

	overrides, err := toolchain.LoadRegistry(opts.OverridesPath)
	if err != nil {
		return nil, &Error{Op: "build", Err: err}
	}

	builder := matrix.New(matrix.Config{
		ShareDir: opts.ShareDir,
		Logger:   opts.Logger,
		Prober:   toolchain.NewProber(opts.Logger, overrides),
	})

	built, err := builder.BuildAll(ctx, outputRoot)
	if err != nil {
		return nil, &Error{Op: "build", Err: err}
	}
	return built, nil
}

// Probe reports the availability of every supported backend on this host.
func Probe(logger *slog.Logger, overridesPath string) (map[BackendID]*Descriptor, error) {
	overrides, err := toolchain.LoadRegistry(overridesPath)
	if err != nil {
		return nil, err
	}

	prober := toolchain.NewProber(logger, overrides)
	found := make(map[BackendID]*Descriptor)
	for _, id := range toolchain.All() {
		if d, ok := prober.Probe(id); ok {
			found[id] = d
		}
	}
	return found, nil
}

// DefaultLibDir returns the directory the bridge library matrix is built
// into: $SIMBRIDGE_LIB_DIR when set, otherwise libs/ next to the running
// executable.
func DefaultLibDir() string {
	if dir := os.Getenv("SIMBRIDGE_LIB_DIR"); dir != "" {
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return "libs"
	}
	return filepath.Join(filepath.Dir(exe), "libs")
}

// Clean removes the configured build directory. With recursive set it also
// removes every default-named build directory below dir.
func Clean(dir string, recursive bool) error {
	rm := func(d string) error {
		target := filepath.Join(d, config.DefaultBuildDir)
		if _, err := os.Stat(target); err != nil {
			return nil
		}
		return os.RemoveAll(target)
	}

	if err := rm(dir); err != nil {
		return fmt.Errorf("cleaning %s: %w", dir, err)
	}
	if !recursive {
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		return rm(path)
	})
}
