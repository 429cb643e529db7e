package cmd

import (
	"github.com/MinterTeam/minter-coffee/cmd/utils"
	"github.com/MinterTeam/minter-coffee/config"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:          "coffee",
	Short:        "Buy me a coffee node",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		v.SetConfigFile(utils.GetCoffeeConfigPath())
		cfg = config.GetConfig()

		if err := v.ReadInConfig(); err != nil {
			return errors.Wrap(err, "read config")
		}

		if err := v.Unmarshal(cfg); err != nil {
			return errors.Wrap(err, "parse config")
		}

		if err := cfg.ValidateBasic(); err != nil {
			return errors.Wrap(err, "config")
		}

		isTestnet, _ := cmd.Flags().GetBool("testnet")
		if isTestnet {
			types.CurrentChainID = types.ChainTestnet
			version.Version += "-testnet"
		}

		return nil
	},
}
