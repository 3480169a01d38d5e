// pkg/simulator/ghdl.go
package simulator

import (
	"fmt"
	"path/filepath"

	"github.com/hdl-tools/simbridge/pkg/artifact"
	"github.com/hdl-tools/simbridge/pkg/config"
)

// GHDL drives the GHDL VHDL simulator: one combined analyze/elaborate pass
// produces an executable image, which is then run with the VPI bridge
// loaded through GHDL's plugin option.
type GHDL struct {
	libDir string
	namer  *artifact.Namer
}

// NewGHDL creates the GHDL adapter. libDir is the directory holding the
// GHDL bridge-library artifacts.
func NewGHDL(libDir string) *GHDL {
	return &GHDL{libDir: libDir, namer: artifact.New()}
}

// Name returns the backend identity.
func (s *GHDL) Name() string {
	return "ghdl"
}

// Validate rejects configurations GHDL cannot execute. GHDL is a VHDL-only
// simulator.
func (s *GHDL) Validate(cfg *config.SimulationConfig) error {
	if len(cfg.VerilogSources) > 0 {
		return fmt.Errorf("%w: ghdl does not support Verilog sources", config.ErrConfiguration)
	}
	return nil
}

// Artifact returns the elaborated executable path.
func (s *GHDL) Artifact(cfg *config.SimulationConfig) string {
	return filepath.Join(cfg.BuildDir, cfg.Toplevel)
}

// CompileDeps returns the inputs whose change makes the image stale.
func (s *GHDL) CompileDeps(cfg *config.SimulationConfig) []string {
	return cfg.VHDLSources
}

// CompileCommand builds the combined analyze/elaborate invocation. GHDL has
// no preprocessor; defines are mapped to toplevel generics.
func (s *GHDL) CompileCommand(cfg *config.SimulationConfig) []string {
	cmd := []string{"ghdl", "-c", "--std=08", "--workdir=" + cfg.BuildDir, "-o", s.Artifact(cfg)}
	for _, d := range cfg.Defines {
		cmd = append(cmd, "-g"+d.Flag())
	}
	cmd = append(cmd, cfg.AllCompileArgs()...)
	cmd = append(cmd, cfg.VHDLSources...)
	return append(cmd, "-e", cfg.Toplevel)
}

// RunCommand builds the simulation invocation: the elaborated image with
// the VPI bridge plugin, extra run arguments, then the plus-args in order.
func (s *GHDL) RunCommand(cfg *config.SimulationConfig) []string {
	plugin := filepath.Join(s.libDir, s.namer.Canonical("libbridgevpi"))
	cmd := []string{s.Artifact(cfg), "--vpi=" + plugin}
	cmd = append(cmd, cfg.AllSimArgs()...)
	return append(cmd, cfg.PlusArgs...)
}
