package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MinterTeam/minter-coffee/core/node"
	"github.com/MinterTeam/minter-coffee/genesis"
	"github.com/spf13/cobra"
	tmLog "github.com/tendermint/tendermint/libs/log"
)

var ExportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export the committed state as a genesis document",
	RunE:  export,
}

func init() {
	ExportCommand.Flags().String("output", "", "write the document to this file instead of stdout")
}

func export(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	db, err := node.OpenDB(cfg)
	if err != nil {
		return err
	}

	app, err := node.NewNode(cfg, db, tmLog.NewNopLogger(), nil)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer app.Close()

	appState, err := app.Export()
	if err != nil {
		return err
	}

	if output != "" {
		if err := genesis.Save(output, appState); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported height %d to %s\n", app.Height(), output)
		return nil
	}

	data, err := json.MarshalIndent(appState, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
