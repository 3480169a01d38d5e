// pkg/simulator/icarus_test.go
package simulator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdl-tools/simbridge/pkg/config"
)

func icarusConfig() *config.SimulationConfig {
	return &config.SimulationConfig{
		Toplevel:       "dff",
		Module:         "test_dff",
		BuildDir:       "/build",
		VerilogSources: []string{"/src/dff.v", "/src/dff_tb.v"},
	}
}

func TestIcarusValidateRejectsVHDL(t *testing.T) {
	s := NewIcarus("/libs/icarus")

	cfg := icarusConfig()
	cfg.VHDLSources = []string{"/src/dff.vhd"}

	err := s.Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfiguration)
}

func TestIcarusValidateAcceptsVerilog(t *testing.T) {
	s := NewIcarus("/libs/icarus")
	assert.NoError(t, s.Validate(icarusConfig()))
}

func TestIcarusArtifact(t *testing.T) {
	s := NewIcarus("/libs/icarus")
	assert.Equal(t, filepath.Join("/build", "dff.vvp"), s.Artifact(icarusConfig()))
}

func TestIcarusCompileCommandOrder(t *testing.T) {
	s := NewIcarus("/libs/icarus")

	cfg := icarusConfig()
	cfg.Defines = []config.Define{
		{Name: "WIDTH", Value: "8"},
		{Name: "SYNTHESIS"},
	}
	cfg.Includes = []string{"/inc/a", "/inc/b"}
	cfg.CompileArgs = []string{"-Wall"}
	cfg.ExtraArgs = []string{"-v"}

	want := []string{
		"iverilog", "-o", filepath.Join("/build", "dff.vvp"), "-s", "dff", "-g2012",
		"-D", "WIDTH=8",
		"-D", "SYNTHESIS",
		"-I", "/inc/a",
		"-I", "/inc/b",
		"-Wall", "-v",
		"/src/dff.v", "/src/dff_tb.v",
	}
	assert.Equal(t, want, s.CompileCommand(cfg))
}

func TestIcarusRunCommandOrder(t *testing.T) {
	s := NewIcarus("/libs/icarus")

	cfg := icarusConfig()
	cfg.SimArgs = []string{"-none"}
	cfg.PlusArgs = []string{"+verbose", "+trace=on"}

	want := []string{
		"vvp", "-M", "/libs/icarus", "-m", "bridgevpi",
		"-none",
		filepath.Join("/build", "dff.vvp"),
		"+verbose", "+trace=on",
	}
	assert.Equal(t, want, s.RunCommand(cfg))
}

func TestIcarusCompileDeps(t *testing.T) {
	s := NewIcarus("/libs/icarus")
	cfg := icarusConfig()
	assert.Equal(t, cfg.VerilogSources, s.CompileDeps(cfg))
}
