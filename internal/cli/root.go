// internal/cli/root.go
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	debug     bool
	overrides string
	logger    *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "simbridge",
	Short: "HDL co-simulation bridge builder and run orchestrator",
	Long: `simbridge - HDL co-simulation tooling

Compiles the per-simulator matrix of bridge shared libraries and drives
simulation runs end-to-end: incremental compilation, environment setup,
simulator invocation and structured result reporting.`,
	Version: "0.1.0",
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogger)

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&overrides, "toolchains", "toolchains.toml", "toolchain probe overrides file")

	// Add commands
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)
}

func initLogger() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
