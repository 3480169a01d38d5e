// internal/cli/build.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hdl-tools/simbridge"
	"github.com/hdl-tools/simbridge/pkg/matrix"
)

var (
	buildOutput string
	buildShare  string
	buildPack   string
	buildUnpack string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the bridge library matrix",
	Long: `Compile the simulator bridge libraries for every toolchain found on
this host. Missing toolchains are skipped with a warning.

Examples:
  simbridge build
  simbridge build --output /opt/simbridge/libs
  simbridge build --pack bridges.tar.xz
  simbridge build --unpack bridges.tar.xz`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildOutput, "output", "", "artifact output root (default: executable-relative libs/)")
	buildCmd.Flags().StringVar(&buildShare, "share", "share", "bridge source tree root")
	buildCmd.Flags().StringVar(&buildPack, "pack", "", "after building, pack the matrix into a tar.xz bundle")
	buildCmd.Flags().StringVar(&buildUnpack, "unpack", "", "skip building, unpack a prebuilt bundle instead")
}

func runBuild(cmd *cobra.Command, args []string) error {
	output := buildOutput
	if output == "" {
		output = simbridge.DefaultLibDir()
	}

	if buildUnpack != "" {
		if err := matrix.Unpack(buildUnpack, output); err != nil {
			return err
		}
		fmt.Printf("Unpacked %s into %s\n", buildUnpack, output)
		return nil
	}

	built, err := simbridge.BuildLibraries(cmd.Context(), &simbridge.BuildOptions{
		OutputRoot:    output,
		ShareDir:      buildShare,
		OverridesPath: overrides,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	for backend, arts := range built {
		fmt.Printf("%s: %d artifacts\n", backend, len(arts))
		for _, a := range arts {
			fmt.Printf("  %s\n", a.Path)
		}
	}

	if buildPack != "" {
		if err := matrix.Pack(output, buildPack); err != nil {
			return err
		}
		fmt.Printf("Packed matrix into %s\n", buildPack)
	}

	return nil
}
