package cmd

import (
	"fmt"

	"github.com/MinterTeam/minter-coffee/version"
	"github.com/spf13/cobra"
)

var Version = &cobra.Command{
	Use:   "version",
	Short: "Show this node's version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (state v%d)\n", version.Version, version.AppVer)
		return nil
	},
}
