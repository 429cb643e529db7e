package cmd

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MinterTeam/minter-coffee/api"
	"github.com/MinterTeam/minter-coffee/core/transaction"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/crypto"
	"github.com/MinterTeam/minter-coffee/helpers"
	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// TxCommand builds and signs transactions offline. With --send the result is posted to a
// running node.
var TxCommand = &cobra.Command{
	Use:   "tx",
	Short: "Build, sign and optionally send a transaction",
}

var (
	txDeploy = &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a coffee contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := addressFlag(cmd, "owner")
			if err != nil {
				return err
			}
			token, err := addressFlag(cmd, "token")
			if err != nil {
				return err
			}
			return runTx(cmd, transaction.DeployData{Owner: owner, Token: token})
		},
	}
	txContribute = &cobra.Command{
		Use:   "contribute",
		Short: "Buy a coffee: contribute tokens to a contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			contract, err := addressFlag(cmd, "contract")
			if err != nil {
				return err
			}
			amount, err := amountFlag(cmd)
			if err != nil {
				return err
			}
			return runTx(cmd, transaction.BuyCoffeeData{Contract: contract, Amount: amount})
		},
	}
	txWithdraw = &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw the balance of a contract to its owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			contract, err := addressFlag(cmd, "contract")
			if err != nil {
				return err
			}
			return runTx(cmd, transaction.WithdrawData{Contract: contract})
		},
	}
	txTransfer = &cobra.Command{
		Use:   "transfer",
		Short: "Transfer tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := addressFlag(cmd, "token")
			if err != nil {
				return err
			}
			to, err := addressFlag(cmd, "to")
			if err != nil {
				return err
			}
			amount, err := amountFlag(cmd)
			if err != nil {
				return err
			}
			return runTx(cmd, transaction.TransferData{Token: token, To: to, Amount: amount})
		},
	}
)

func init() {
	TxCommand.PersistentFlags().String("key", "", "hex private key of the sender")
	TxCommand.PersistentFlags().Uint64("nonce", 0, "nonce of the transaction, fetched from --send when omitted")
	TxCommand.PersistentFlags().String("payload", "", "arbitrary message attached to the transaction")
	TxCommand.PersistentFlags().String("send", "", "API address of a node to send the transaction to, e.g. http://127.0.0.1:8841")

	txDeploy.Flags().String("owner", "", "owner of the contract")
	txDeploy.Flags().String("token", "", "token contract the coffee contract accepts")

	txContribute.Flags().String("contract", "", "coffee contract")
	txContribute.Flags().String("amount", "", "amount in base units")
	txContribute.Flags().String("supporter-key", "", "hex private key of the supporter when the sender only sponsors the transaction")

	txWithdraw.Flags().String("contract", "", "coffee contract")

	txTransfer.Flags().String("token", "", "token contract")
	txTransfer.Flags().String("to", "", "recipient")
	txTransfer.Flags().String("amount", "", "amount in base units")

	TxCommand.AddCommand(txDeploy, txContribute, txWithdraw, txTransfer)
}

func runTx(cmd *cobra.Command, data transaction.Data) error {
	key, err := keyFlag(cmd, "key")
	if err != nil {
		return err
	}
	sender := crypto.PubkeyToAddress(key.PubKey())

	signers := []*btcec.PrivateKey{key}
	if contribution, ok := data.(transaction.BuyCoffeeData); ok {
		contribution.From = sender
		if supporterKey, _ := cmd.Flags().GetString("supporter-key"); supporterKey != "" {
			supporter, err := keyFlag(cmd, "supporter-key")
			if err != nil {
				return err
			}
			contribution.From = crypto.PubkeyToAddress(supporter.PubKey())
			signers = append(signers, supporter)
		}
		data = contribution
	}

	nodeAddr, _ := cmd.Flags().GetString("send")
	nonce, _ := cmd.Flags().GetUint64("nonce")
	if nonce == 0 {
		if nodeAddr == "" {
			return errors.New("either --nonce or --send is required")
		}
		if nonce, err = fetchNextNonce(nodeAddr, sender); err != nil {
			return err
		}
	}

	payload, _ := cmd.Flags().GetString("payload")
	tx, err := transaction.Encode(nonce, types.CurrentChainID, data, []byte(payload))
	if err != nil {
		return err
	}
	for _, signer := range signers {
		if err := tx.Sign(signer); err != nil {
			return err
		}
	}

	raw, err := tx.Serialize()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Hash: %s\n", tx.Hash())
	fmt.Fprintf(out, "Tx:   Mt%s\n", hex.EncodeToString(raw))

	if nodeAddr == "" {
		return nil
	}

	response, err := sendTx(nodeAddr, raw)
	if err != nil {
		return err
	}
	result, _ := json.MarshalIndent(response, "", "  ")
	fmt.Fprintln(out, string(result))
	if response.Code != 0 {
		return fmt.Errorf("transaction failed with code %d: %s", response.Code, response.Log)
	}
	return nil
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

func fetchNextNonce(nodeAddr string, address types.Address) (uint64, error) {
	resp, err := httpClient.Get(strings.TrimRight(nodeAddr, "/") + "/api/v1/nonce/" + address.String())
	if err != nil {
		return 0, errors.Wrap(err, "fetch nonce")
	}
	defer resp.Body.Close()

	var response struct {
		api.Response
		Result api.NonceResponse `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return 0, errors.Wrap(err, "decode nonce")
	}
	if response.Code != 0 {
		return 0, fmt.Errorf("fetch nonce: %s", response.Log)
	}

	return strconv.ParseUint(response.Result.Next, 10, 64)
}

func sendTx(nodeAddr string, raw []byte) (*api.Response, error) {
	body, err := json.Marshal(api.SendTransactionRequest{Transaction: "Mt" + hex.EncodeToString(raw)})
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Post(strings.TrimRight(nodeAddr, "/")+"/api/v1/send_transaction", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "send transaction")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var response api.Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, errors.Wrapf(err, "decode response %q", data)
	}
	return &response, nil
}

func keyFlag(cmd *cobra.Command, name string) (*btcec.PrivateKey, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, fmt.Errorf("--%s is required", name)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(value, "0x"))
	if err != nil {
		return nil, errors.Wrapf(err, "--%s", name)
	}
	return key, nil
}

func addressFlag(cmd *cobra.Command, name string) (types.Address, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return types.Address{}, err
	}
	if !types.IsHexAddress(value) {
		return types.Address{}, fmt.Errorf("--%s: invalid address %q", name, value)
	}
	return types.HexToAddress(value), nil
}

func amountFlag(cmd *cobra.Command) (types.Int128, error) {
	value, err := cmd.Flags().GetString("amount")
	if err != nil {
		return types.Int128{}, err
	}

	amount, err := helpers.ParseAmount(value)
	if err != nil {
		return types.Int128{}, errors.Wrap(err, "--amount")
	}
	return amount, nil
}
