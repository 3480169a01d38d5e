// internal/cli/run.go
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hdl-tools/simbridge"
	"github.com/hdl-tools/simbridge/pkg/config"
)

var (
	runBackend      string
	runLibDir       string
	runToplevel     string
	runModule       string
	runTestcase     string
	runSeed         int64
	runSeedSet      bool
	runForce        bool
	runCompileOnly  bool
	runVerilogFiles []string
	runVHDLFiles    []string
)

var runCmd = &cobra.Command{
	Use:   "run [config.yaml]",
	Short: "Execute one simulation run",
	Long: `Execute a simulation run described by a yaml configuration file,
with flag overrides. The SIM environment variable selects the backend when
--sim is not given.

Examples:
  simbridge run sim.yaml
  simbridge run sim.yaml --sim icarus --force-compile
  simbridge run --toplevel dff --module test_dff -v dff.v`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runBackend, "sim", "", "simulator backend")
	runCmd.Flags().StringVar(&runLibDir, "lib-dir", "", "bridge library directory")
	runCmd.Flags().StringVar(&runToplevel, "toplevel", "", "toplevel module/entity name")
	runCmd.Flags().StringVar(&runModule, "module", "", "test module to load")
	runCmd.Flags().StringVar(&runTestcase, "testcase", "", "single testcase selector")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "fixed random seed")
	runCmd.Flags().BoolVar(&runForce, "force-compile", false, "recompile even when up to date")
	runCmd.Flags().BoolVar(&runCompileOnly, "compile-only", false, "stop after compilation")
	runCmd.Flags().StringSliceVarP(&runVerilogFiles, "verilog", "v", nil, "verilog source file")
	runCmd.Flags().StringSliceVar(&runVHDLFiles, "vhdl", nil, "vhdl source file")
}

func runRun(cmd *cobra.Command, args []string) error {
	runSeedSet = cmd.Flags().Changed("seed")

	cfg := &config.SimulationConfig{}
	if len(args) == 1 {
		loaded, err := config.Load(args[0])
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if runToplevel != "" {
		cfg.Toplevel = runToplevel
	}
	if runModule != "" {
		cfg.Module = runModule
	}
	if runTestcase != "" {
		cfg.Testcase = runTestcase
	}
	if runSeedSet {
		seed := runSeed
		cfg.Seed = &seed
	}
	if runForce {
		cfg.ForceCompile = true
	}
	if runCompileOnly {
		cfg.CompileOnly = true
	}
	cfg.VerilogSources = append(cfg.VerilogSources, runVerilogFiles...)
	cfg.VHDLSources = append(cfg.VHDLSources, runVHDLFiles...)

	res, err := simbridge.Run(cmd.Context(), cfg, &simbridge.RunOptions{
		Backend: simbridge.BackendID(runBackend),
		LibDir:  runLibDir,
		Logger:  logger,
	})
	if err != nil {
		if errors.Is(err, simbridge.ErrTestFailure) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return err
	}

	if res != nil {
		fmt.Printf("Results file: %s\n", res.Path)
	}
	return nil
}
