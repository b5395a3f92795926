package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fenix-io/kayak-calc-sub001/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of kayakcalc",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, version.String())
		fmt.Fprintln(w, "Hull Hydrostatics and Stability Calculator")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
