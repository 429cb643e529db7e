package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/host"
	"github.com/MinterTeam/minter-coffee/core/state/accounts"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/pkg/errors"
	abcTypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	maxPayloadLength = 1024
	maxTxLength      = 4096 + maxPayloadLength
)

const EventTx = "tx"

// Response represents standard response from tx delivery
type Response struct {
	Code   uint32           `json:"code"`
	Data   []byte           `json:"data,omitempty"`
	Log    string           `json:"log,omitempty"`
	Info   string           `json:"info,omitempty"`
	Hash   types.Hash       `json:"hash"`
	Events []abcTypes.Event `json:"events,omitempty"`
}

type Executor struct {
	host         *host.Host
	decodeTxFunc func(txType TxType) (Data, bool)
	logger       log.Logger
}

func NewExecutor(h *host.Host, decodeTxFunc func(txType TxType) (Data, bool), logger log.Logger) *Executor {
	return &Executor{host: h, decodeTxFunc: decodeTxFunc, logger: logger}
}

// RunTx checks the transaction, runs its invocation and commits the result. A transaction
// that passed the checks always consumes its nonce, even when the invocation fails.
func (e *Executor) RunTx(rawTx []byte) Response {
	lenRawTx := len(rawTx)
	if lenRawTx > maxTxLength {
		return Response{
			Code: code.TxTooLarge,
			Log:  fmt.Sprintf("TX length is over %d bytes", maxTxLength),
			Info: EncodeError(code.NewTxTooLarge(fmt.Sprintf("%d", maxTxLength), fmt.Sprintf("%d", lenRawTx))),
		}
	}

	tx, err := e.DecodeFromBytes(rawTx)
	if err != nil {
		var codeErr *code.Error
		if errors.As(err, &codeErr) {
			return Response{Code: codeErr.Code, Log: codeErr.Log, Info: EncodeError(codeErr.Info)}
		}
		return Response{
			Code: code.DecodeError,
			Log:  err.Error(),
			Info: EncodeError(code.NewDecodeError()),
		}
	}

	if tx.ChainID != types.CurrentChainID {
		return Response{
			Code: code.WrongChainID,
			Log:  "Wrong chain id",
			Info: EncodeError(code.NewWrongChainID(fmt.Sprintf("%d", types.CurrentChainID), fmt.Sprintf("%d", tx.ChainID))),
		}
	}

	lenPayload := len(tx.Payload)
	if lenPayload > maxPayloadLength {
		return Response{
			Code: code.TxPayloadTooLarge,
			Log:  fmt.Sprintf("TX payload length is over %d bytes", maxPayloadLength),
			Info: EncodeError(code.NewTxPayloadTooLarge(fmt.Sprintf("%d", maxPayloadLength), fmt.Sprintf("%d", lenPayload))),
		}
	}

	if len(tx.Signatures) > maxSignatures {
		return Response{
			Code: code.TooManySignatures,
			Log:  fmt.Sprintf("Too many signatures, max %d", maxSignatures),
			Info: EncodeError(code.NewTooManySignatures(fmt.Sprintf("%d", maxSignatures), fmt.Sprintf("%d", len(tx.Signatures)))),
		}
	}

	signers, err := tx.Signers()
	if err != nil {
		return Response{
			Code: code.IncorrectSignature,
			Log:  err.Error(),
			Info: EncodeError(code.NewIncorrectSignature()),
		}
	}

	usedAccounts := map[types.Address]bool{}
	for _, signer := range signers {
		if usedAccounts[signer] {
			return Response{
				Code: code.DuplicatedAddresses,
				Log:  "Duplicated signer addresses",
				Info: EncodeError(code.NewDuplicatedAddresses(signer.String())),
			}
		}
		usedAccounts[signer] = true
	}
	sender := signers[0]

	session := e.host.Begin()
	defer session.Discard()

	if expectedNonce := session.State().Accounts.GetNonce(sender) + 1; expectedNonce != tx.Nonce {
		return Response{
			Code: code.WrongNonce,
			Log:  fmt.Sprintf("Unexpected nonce. Expected: %d, got %d.", expectedNonce, tx.Nonce),
			Info: EncodeError(code.NewWrongNonce(fmt.Sprintf("%d", expectedNonce), fmt.Sprintf("%d", tx.Nonce))),
		}
	}

	events, runErr := session.Invoke(signers, func(inv *host.Invocation) error {
		return tx.decodedData.Run(tx, inv)
	})

	session.State().Accounts.SetNonce(sender, tx.Nonce)
	if _, err := session.Commit(); err != nil {
		e.logger.Error("Failed to commit state", "tx", tx.Hash(), "err", err)
		return Response{
			Code: code.InternalError,
			Log:  fmt.Sprintf("commit failed: %s", err),
			Hash: tx.Hash(),
		}
	}

	response := ResponseFromError(runErr, e.logger)
	response.Hash = tx.Hash()
	if runErr == nil {
		response.Events = events
		if tx.Type == TypeDeploy {
			response.Data = accounts.CreateContractAddress(sender, tx.Nonce).Bytes()
		}
	}

	response.Events = append(response.Events, abcTypes.Event{
		Type: EventTx,
		Attributes: []abcTypes.EventAttribute{
			{Key: []byte("tx.hash"), Value: []byte(tx.Hash().String()), Index: true},
			{Key: []byte("tx.from"), Value: []byte(sender.String()), Index: true},
			{Key: []byte("tx.type"), Value: []byte(tx.Type.String()), Index: true},
		},
	})

	return response
}

type infoError interface {
	Info() interface{}
}

// ResponseFromError maps an invocation error onto a response. Errors without a code are
// internal failures.
func ResponseFromError(err error, logger log.Logger) Response {
	if err == nil {
		return Response{Code: code.OK}
	}

	var codeErr *code.Error
	if errors.As(err, &codeErr) {
		response := Response{Code: codeErr.Code, Log: codeErr.Log}
		if codeErr.Info != nil {
			response.Info = EncodeError(codeErr.Info)
		}
		return response
	}

	var coder code.Coder
	if errors.As(err, &coder) {
		response := Response{Code: coder.ErrorCode(), Log: err.Error()}
		var withInfo infoError
		if errors.As(err, &withInfo) {
			response.Info = EncodeError(withInfo.Info())
		}
		return response
	}

	logger.Error("Invocation failed", "err", err)
	return Response{Code: code.InternalError, Log: err.Error()}
}

// EncodeError encodes error to json
func EncodeError(data interface{}) string {
	marshaled, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return string(marshaled)
}
