// internal/cli/clean.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/hdl-tools/simbridge"
)

var cleanRecursive bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove simulation build directories",
	Long: `Remove the build directory under the current directory. With
--recursive, every build directory in the tree below is removed as well.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&cleanRecursive, "recursive", "r", false, "clean recursively")
}

func runClean(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	if err := simbridge.Clean(dir, cleanRecursive); err != nil {
		return err
	}

	fmt.Println("Cleaned.")
	return nil
}
