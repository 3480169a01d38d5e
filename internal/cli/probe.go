// internal/cli/probe.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hdl-tools/simbridge"
	"github.com/hdl-tools/simbridge/pkg/toolchain"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Report simulator toolchain availability",
	Long:  `Probe the host for every supported simulator toolchain and report what was found.`,
	RunE:  runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	found, err := simbridge.Probe(logger, overrides)
	if err != nil {
		return err
	}

	for _, id := range toolchain.All() {
		d, ok := found[id]
		if !ok {
			fmt.Printf("  %-10s not found\n", id)
			continue
		}

		var protos []string
		if d.VPI {
			protos = append(protos, "VPI")
		}
		if d.VHPI {
			protos = append(protos, "VHPI")
		}
		if d.FLI {
			protos = append(protos, "FLI")
		}
		fmt.Printf("* %-10s %s (%s)\n", id, d.ToolRoot, strings.Join(protos, ", "))
	}

	fmt.Println("\n* = toolchain available")
	return nil
}
