package encoder

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/MinterTeam/minter-coffee/core/transaction"
	"github.com/MinterTeam/minter-coffee/core/types"
)

// SymbolResolver returns the symbol of a token contract, or an empty string.
type SymbolResolver func(token types.Address) string

type TxEncoderJSON struct {
	symbols SymbolResolver
}

type TransactionResponse struct {
	Hash    string            `json:"hash"`
	RawTx   string            `json:"raw_tx,omitempty"`
	From    string            `json:"from"`
	Signers []string          `json:"signers"`
	Nonce   uint64            `json:"nonce"`
	ChainID uint8             `json:"chain_id"`
	Type    uint8             `json:"type"`
	Data    json.RawMessage   `json:"data"`
	Payload []byte            `json:"payload"`
	Tags    map[string]string `json:"tags,omitempty"`
	Code    uint32            `json:"code"`
	Log     string            `json:"log,omitempty"`
}

var resourcesConfig = map[transaction.TxType]TxDataResource{
	transaction.TypeDeploy:    new(DeployDataResource),
	transaction.TypeBuyCoffee: new(BuyCoffeeDataResource),
	transaction.TypeWithdraw:  new(WithdrawDataResource),
	transaction.TypeTransfer:  new(TransferDataResource),
}

func NewTxEncoderJSON(symbols SymbolResolver) *TxEncoderJSON {
	if symbols == nil {
		symbols = func(types.Address) string { return "" }
	}
	return &TxEncoderJSON{symbols: symbols}
}

// Encode renders a decoded transaction together with the result of running it. result may be nil.
func (encoder *TxEncoderJSON) Encode(tx *transaction.Transaction, rawTx []byte, result *transaction.Response) (json.RawMessage, error) {
	data, err := encoder.EncodeData(tx)
	if err != nil {
		return nil, err
	}

	signers, err := tx.Signers()
	if err != nil {
		return nil, err
	}

	response := TransactionResponse{
		Hash:    tx.Hash().String(),
		RawTx:   hex.EncodeToString(rawTx),
		From:    signers[0].String(),
		Nonce:   tx.Nonce,
		ChainID: uint8(tx.ChainID),
		Type:    uint8(tx.Type),
		Data:    data,
		Payload: tx.Payload,
	}
	for _, signer := range signers {
		response.Signers = append(response.Signers, signer.String())
	}

	if result != nil {
		response.Code = result.Code
		response.Log = result.Log
		response.Tags = map[string]string{}
		for _, event := range result.Events {
			for _, tag := range event.Attributes {
				response.Tags[event.Type+"."+string(tag.Key)] = string(tag.Value)
			}
		}
	}

	return json.Marshal(response)
}

func (encoder *TxEncoderJSON) EncodeData(decodedTx *transaction.Transaction) ([]byte, error) {
	if resource, exists := resourcesConfig[decodedTx.Type]; exists {
		return json.Marshal(
			resource.Transform(decodedTx.GetDecodedData(), encoder.symbols),
		)
	}

	return nil, fmt.Errorf("unknown tx type %s", decodedTx.Type)
}
