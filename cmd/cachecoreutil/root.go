// Package cachecoreutil provides the cachecoreutil command-line
// interface: running a demo cache hierarchy and serving its live
// monitoring endpoint.
package cachecoreutil

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cachecoreutil",
	Short: "cachecoreutil drives and inspects cachecore cache hierarchies.",
	Long: `cachecoreutil drives and inspects cachecore cache hierarchies. ` +
		`It can run a small demo hierarchy to completion and print its ` +
		`stats, or serve a live monitoring endpoint over a running one.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
