package main

import (
	"os"

	"github.com/MinterTeam/minter-coffee/cmd/coffee/cmd"
	"github.com/MinterTeam/minter-coffee/cmd/utils"
)

func main() {
	rootCmd := cmd.RootCmd
	rootCmd.PersistentFlags().StringVar(&utils.CoffeeHome, "home-dir", "", "base dir (default is $HOME/.coffee)")
	rootCmd.PersistentFlags().StringVar(&utils.CoffeeConfig, "config", "", "path to config (default is $(home-dir)/config/config.toml)")
	rootCmd.PersistentFlags().Bool("testnet", false, "use the test network")

	rootCmd.AddCommand(
		cmd.RunNode,
		cmd.Keygen,
		cmd.TxCommand,
		cmd.ExportCommand,
		cmd.Version)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
