// Package token is the fungible token contract coffee contracts move funds through.
package token

import (
	"fmt"
	"math/big"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	EventTransfer = "token/transfer"
	EventAllocate = "token/allocate"
)

var (
	symbolKey     = []byte("Symbol")
	balancePrefix = []byte("Balance")
)

func balanceKey(holder types.Address) []byte {
	return append(append([]byte{}, balancePrefix...), holder.Bytes()...)
}

// Initialize sets up a token contract at its deployment.
func Initialize(e env.Env, symbol string) error {
	if e.Instance().Has(symbolKey) {
		return code.NewError(code.AlreadyInitialized,
			fmt.Sprintf("token %s is already initialized", e.CurrentContractAddress()),
			code.NewAlreadyInitialized(e.CurrentContractAddress().String()))
	}
	return e.Instance().Set(symbolKey, symbol)
}

func Symbol(e env.Env) (string, error) {
	var symbol string
	if err := e.Instance().Get(symbolKey, &symbol); err != nil {
		return "", err
	}
	return symbol, nil
}

// Balance returns the balance of holder, zero when the holder never received tokens.
func Balance(e env.Env, holder types.Address) (*big.Int, error) {
	key := balanceKey(holder)
	if !e.Persistent().Has(key) {
		return big.NewInt(0), nil
	}

	balance := new(big.Int)
	if err := e.Persistent().Get(key, balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// Transfer moves amount from one holder to another. The sender must authorize it.
func Transfer(e env.Env, from, to types.Address, amount *big.Int) error {
	if err := e.RequireAuth(from); err != nil {
		return err
	}

	if amount.Sign() < 0 {
		return code.NewError(code.NegativeAmount,
			fmt.Sprintf("negative transfer amount %s", amount),
			code.NewNegativeAmount(amount.String()))
	}

	fromBalance, err := Balance(e, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return code.NewError(code.InsufficientFunds,
			fmt.Sprintf("insufficient funds for sender account: %s. Wanted %s %s", from, amount, e.CurrentContractAddress()),
			code.NewInsufficientFunds(from.String(), amount.String(), e.CurrentContractAddress().String()))
	}
	if err := setBalance(e, from, new(big.Int).Sub(fromBalance, amount)); err != nil {
		return err
	}

	if err := addBalance(e, to, amount); err != nil {
		return err
	}

	e.Emit(EventTransfer,
		env.Attribute("from", from.String()),
		env.Attribute("to", to.String()),
		env.Attribute("amount", amount.String()),
	)
	return nil
}

// Allocate credits amount to holder without a sender. Only genesis import calls it.
func Allocate(e env.Env, to types.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return code.NewError(code.NegativeAmount,
			fmt.Sprintf("negative allocation amount %s", amount),
			code.NewNegativeAmount(amount.String()))
	}

	if err := addBalance(e, to, amount); err != nil {
		return err
	}

	e.Emit(EventAllocate,
		env.Attribute("to", to.String()),
		env.Attribute("amount", amount.String()),
	)
	return nil
}

// Export lists every non-zero balance in holder order.
func Export(e env.Env) ([]types.Balance, error) {
	var (
		balances []types.Balance
		err      error
	)
	e.Persistent().Iterate(balancePrefix, func(key []byte, value []byte) bool {
		holder := types.BytesToAddress(key[len(balancePrefix):])

		balance := new(big.Int)
		if err = rlp.DecodeBytes(value, balance); err != nil {
			return true
		}
		if balance.Sign() != 0 {
			balances = append(balances, types.Balance{Address: holder, Value: balance.String()})
		}
		return false
	})

	return balances, err
}

func addBalance(e env.Env, holder types.Address, amount *big.Int) error {
	balance, err := Balance(e, holder)
	if err != nil {
		return err
	}

	balance.Add(balance, amount)
	if !types.IsInt128(balance) {
		return code.NewError(code.BalanceOverflow,
			fmt.Sprintf("balance of %s in token %s overflows", holder, e.CurrentContractAddress()),
			code.NewBalanceOverflow(holder.String(), e.CurrentContractAddress().String()))
	}

	return setBalance(e, holder, balance)
}

func setBalance(e env.Env, holder types.Address, balance *big.Int) error {
	return e.Persistent().Set(balanceKey(holder), balance)
}
