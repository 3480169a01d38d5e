// pkg/simulator/icarus.go
package simulator

import (
	"fmt"
	"path/filepath"

	"github.com/hdl-tools/simbridge/pkg/config"
)

// Icarus drives the Icarus Verilog simulator: iverilog compiles the design
// into a vvp image, and the vvp runtime executes it with the VPI bridge
// plugin loaded.
type Icarus struct {
	libDir string
}

// NewIcarus creates the Icarus adapter. libDir is the directory holding the
// Icarus bridge-library artifacts.
func NewIcarus(libDir string) *Icarus {
	return &Icarus{libDir: libDir}
}

// Name returns the backend identity.
func (s *Icarus) Name() string {
	return "icarus"
}

// Validate rejects configurations Icarus cannot execute. Icarus is a
// Verilog-only simulator.
func (s *Icarus) Validate(cfg *config.SimulationConfig) error {
	if len(cfg.VHDLSources) > 0 {
		return fmt.Errorf("%w: icarus does not support VHDL sources", config.ErrConfiguration)
	}
	return nil
}

// Artifact returns the compiled vvp image path.
func (s *Icarus) Artifact(cfg *config.SimulationConfig) string {
	return filepath.Join(cfg.BuildDir, cfg.Toplevel+".vvp")
}

// CompileDeps returns the inputs whose change makes the vvp image stale.
func (s *Icarus) CompileDeps(cfg *config.SimulationConfig) []string {
	return cfg.VerilogSources
}

// CompileCommand builds the iverilog invocation: output path, toplevel
// selection, language standard, then defines, includes, extra arguments and
// sources, each in configuration order.
func (s *Icarus) CompileCommand(cfg *config.SimulationConfig) []string {
	cmd := []string{"iverilog", "-o", s.Artifact(cfg), "-s", cfg.Toplevel, "-g2012"}
	for _, d := range cfg.Defines {
		cmd = append(cmd, "-D", d.Flag())
	}
	for _, inc := range cfg.Includes {
		cmd = append(cmd, "-I", inc)
	}
	cmd = append(cmd, cfg.AllCompileArgs()...)
	return append(cmd, cfg.VerilogSources...)
}

// RunCommand builds the vvp invocation: the bridge-library directory as the
// module search path, the VPI bridge as the loaded module, extra run
// arguments, the compiled image, then the plus-args in order.
func (s *Icarus) RunCommand(cfg *config.SimulationConfig) []string {
	cmd := []string{"vvp", "-M", s.libDir, "-m", "bridgevpi"}
	cmd = append(cmd, cfg.AllSimArgs()...)
	cmd = append(cmd, s.Artifact(cfg))
	return append(cmd, cfg.PlusArgs...)
}
