package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/MinterTeam/minter-coffee/crypto"
	"github.com/spf13/cobra"
)

var Keygen = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new account key",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := crypto.GenerateKey()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Address:     %s\n", crypto.PubkeyToAddress(key.PubKey()))
		fmt.Fprintf(out, "Private key: %s\n", hex.EncodeToString(crypto.FromECDSA(key)))
		return nil
	},
}
