// pkg/simulator/types.go

// Package simulator provides the per-backend adapter behavior: validating a
// configuration against a simulator's capabilities and turning it into
// deterministic compile and run command vectors. The set of adapters is
// closed; adding a simulator means adding a variant here.
package simulator

import (
	"fmt"
	"strings"

	"github.com/hdl-tools/simbridge/pkg/config"
	"github.com/hdl-tools/simbridge/pkg/toolchain"
)

// Adapter is the capability set every concrete simulator backend implements.
type Adapter interface {
	// Name returns the backend identity.
	Name() string

	// Validate fails with a configuration error when the backend cannot
	// execute the given configuration, e.g. an unsupported source language.
	Validate(cfg *config.SimulationConfig) error

	// Artifact returns the path of the compiled simulation output.
	Artifact(cfg *config.SimulationConfig) string

	// CompileDeps returns the dependency paths whose modification makes the
	// artifact stale.
	CompileDeps(cfg *config.SimulationConfig) []string

	// CompileCommand returns the argv that compiles the design.
	CompileCommand(cfg *config.SimulationConfig) []string

	// RunCommand returns the argv that executes the compiled design under
	// the bridge libraries.
	RunCommand(cfg *config.SimulationConfig) []string
}

// ForBackend returns the adapter for a backend. libDir is the directory
// holding that backend's bridge-library artifacts.
func ForBackend(id toolchain.BackendID, libDir string) (Adapter, error) {
	switch id {
	case toolchain.Icarus:
		return NewIcarus(libDir), nil
	case toolchain.GHDL:
		return NewGHDL(libDir), nil
	default:
		return nil, fmt.Errorf("unsupported simulator %q (supported: %s)",
			id, supportedNames())
	}
}

func supportedNames() string {
	names := []string{string(toolchain.Icarus), string(toolchain.GHDL)}
	return strings.Join(names, ", ")
}
