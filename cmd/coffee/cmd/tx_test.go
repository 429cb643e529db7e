package cmd

import (
	"bytes"
	"encoding/hex"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MinterTeam/minter-coffee/api"
	"github.com/MinterTeam/minter-coffee/config"
	"github.com/MinterTeam/minter-coffee/core/node"
	"github.com/MinterTeam/minter-coffee/core/transaction"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/crypto"
	"github.com/btcsuite/btcd/btcec"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	dbm "github.com/tendermint/tm-db"
)

var testToken = types.HexToAddress("Mx00000000000000000000000000000000000000b1")

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

func execTx(t *testing.T, args ...string) (string, error) {
	resetFlags(TxCommand)

	out := new(bytes.Buffer)
	TxCommand.SetOut(out)
	TxCommand.SetErr(out)
	TxCommand.SetArgs(args)
	err := TxCommand.Execute()
	return out.String(), err
}

func keyHex(key *btcec.PrivateKey) string {
	return hex.EncodeToString(crypto.FromECDSA(key))
}

func decodeOutput(t *testing.T, out string) *transaction.Transaction {
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "Tx:") {
			continue
		}
		raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(line, "Tx:")), "Mt"))
		require.NoError(t, err)

		tx, err := transaction.NewExecutor(nil, transaction.GetData, log.NewNopLogger()).DecodeFromBytes(raw)
		require.NoError(t, err)
		return tx
	}

	t.Fatalf("no transaction in output %q", out)
	return nil
}

func TestTxCommand_SponsoredContribution(t *testing.T) {
	sponsor, err := crypto.GenerateKey()
	require.NoError(t, err)
	supporter, err := crypto.GenerateKey()
	require.NoError(t, err)
	contract := types.HexToAddress("Mx00000000000000000000000000000000000000cc")

	out, err := execTx(t, "contribute",
		"--key", keyHex(sponsor),
		"--supporter-key", keyHex(supporter),
		"--nonce", "3",
		"--contract", contract.String(),
		"--amount", "25",
		"--payload", "thanks")
	require.NoError(t, err)

	tx := decodeOutput(t, out)
	assert.Equal(t, uint64(3), tx.Nonce)
	assert.Equal(t, []byte("thanks"), tx.Payload)

	data := tx.GetDecodedData().(*transaction.BuyCoffeeData)
	assert.Equal(t, contract, data.Contract)
	assert.Equal(t, crypto.PubkeyToAddress(supporter.PubKey()), data.From)
	assert.Equal(t, "25", data.Amount.String())

	signers, err := tx.Signers()
	require.NoError(t, err)
	assert.Equal(t, []types.Address{
		crypto.PubkeyToAddress(sponsor.PubKey()),
		crypto.PubkeyToAddress(supporter.PubKey()),
	}, signers)
}

func TestTxCommand_Errors(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	_, err = execTx(t, "withdraw", "--contract", testToken.String(), "--nonce", "1")
	assert.Error(t, err)

	_, err = execTx(t, "withdraw", "--key", keyHex(key), "--contract", testToken.String())
	assert.Error(t, err)

	_, err = execTx(t, "withdraw", "--key", keyHex(key), "--contract", "nope", "--nonce", "1")
	assert.Error(t, err)

	_, err = execTx(t, "transfer", "--key", keyHex(key), "--token", testToken.String(), "--to", testToken.String(), "--amount", "-1", "--nonce", "1")
	assert.Error(t, err)
}

func TestTxCommand_Send(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PubKey())
	recipient := types.HexToAddress("Mx0000000000000000000000000000000000000042")

	nodeCfg := config.DefaultConfig()
	nodeCfg.DBBackend = "memdb"
	nodeCfg.StateCacheSize = 1024
	app, err := node.NewNode(nodeCfg, dbm.NewMemDB(), log.NewNopLogger(), nil)
	require.NoError(t, err)
	_, err = app.InitChain(types.AppState{
		Tokens: []types.Token{{
			Address:  testToken,
			Symbol:   "BEAN",
			Balances: []types.Balance{{Address: sender, Value: "100"}},
		}},
		Contracts: []types.Contract{},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(api.NewServer(app, nil, log.NewNopLogger()).Handler())
	defer srv.Close()

	for i := 0; i < 2; i++ {
		out, err := execTx(t, "transfer",
			"--key", keyHex(key),
			"--send", srv.URL,
			"--token", testToken.String(),
			"--to", recipient.String(),
			"--amount", "30")
		require.NoError(t, err, out)
	}

	balance, err := app.TokenBalance(testToken, recipient)
	require.NoError(t, err)
	assert.Equal(t, "60", balance.String())
	assert.Equal(t, uint64(2), app.Nonce(sender))

	out, err := execTx(t, "transfer",
		"--key", keyHex(key),
		"--send", srv.URL,
		"--token", testToken.String(),
		"--to", recipient.String(),
		"--amount", "50")
	assert.Error(t, err)
	assert.Contains(t, out, `"code": 107`)
}
