package encoder

import (
	"github.com/MinterTeam/minter-coffee/core/transaction"
	"github.com/MinterTeam/minter-coffee/core/types"
)

type TxDataResource interface {
	Transform(txData interface{}, symbols SymbolResolver) TxDataResource
}

type TokenResource struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol,omitempty"`
}

func tokenResource(token types.Address, symbols SymbolResolver) TokenResource {
	return TokenResource{Address: token.String(), Symbol: symbols(token)}
}

// TxType 0x01

type DeployDataResource struct {
	Owner string        `json:"owner"`
	Token TokenResource `json:"token"`
}

func (DeployDataResource) Transform(txData interface{}, symbols SymbolResolver) TxDataResource {
	data := txData.(*transaction.DeployData)

	return DeployDataResource{
		Owner: data.Owner.String(),
		Token: tokenResource(data.Token, symbols),
	}
}

// TxType 0x02

type BuyCoffeeDataResource struct {
	Contract string `json:"contract"`
	From     string `json:"from"`
	Amount   string `json:"amount"`
}

func (BuyCoffeeDataResource) Transform(txData interface{}, symbols SymbolResolver) TxDataResource {
	data := txData.(*transaction.BuyCoffeeData)

	return BuyCoffeeDataResource{
		Contract: data.Contract.String(),
		From:     data.From.String(),
		Amount:   data.Amount.String(),
	}
}

// TxType 0x03

type WithdrawDataResource struct {
	Contract string `json:"contract"`
}

func (WithdrawDataResource) Transform(txData interface{}, symbols SymbolResolver) TxDataResource {
	data := txData.(*transaction.WithdrawData)

	return WithdrawDataResource{Contract: data.Contract.String()}
}

// TxType 0x04

type TransferDataResource struct {
	Token  TokenResource `json:"token"`
	To     string        `json:"to"`
	Amount string        `json:"amount"`
}

func (TransferDataResource) Transform(txData interface{}, symbols SymbolResolver) TxDataResource {
	data := txData.(*transaction.TransferData)

	return TransferDataResource{
		Token:  tokenResource(data.Token, symbols),
		To:     data.To.String(),
		Amount: data.Amount.String(),
	}
}
