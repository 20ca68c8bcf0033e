package commands

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time; falls back to module info.
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		v := version
		if v == "" {
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				v = info.Main.Version
			} else {
				v = "dev"
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "voxid %s\n", v)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
