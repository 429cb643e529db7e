package types

import (
	"fmt"
	"math/big"
)

// AppState is the genesis (and export) document of the node.
type AppState struct {
	Tokens    []Token    `json:"tokens"`
	Contracts []Contract `json:"contracts"`
	Accounts  []Account  `json:"accounts,omitempty"`
}

type Token struct {
	Address  Address   `json:"address"`
	Symbol   string    `json:"symbol"`
	Balances []Balance `json:"balances"`
}

type Balance struct {
	Address Address `json:"address"`
	Value   string  `json:"value"`
}

type Contract struct {
	Address    Address     `json:"address"`
	Owner      Address     `json:"owner"`
	Token      Address     `json:"token"`
	Supporters []Supporter `json:"supporters,omitempty"`
}

type Supporter struct {
	Address Address `json:"address"`
	Amount  Int128  `json:"amount"`
}

type Account struct {
	Address Address `json:"address"`
	Nonce   uint64  `json:"nonce"`
}

func (s *AppState) Verify() error {
	addresses := map[Address]struct{}{}
	claim := func(address Address) error {
		if address.IsZero() {
			return fmt.Errorf("zero contract address")
		}
		if _, exists := addresses[address]; exists {
			return fmt.Errorf("duplicate contract address %s", address)
		}
		addresses[address] = struct{}{}
		return nil
	}

	for _, token := range s.Tokens {
		if err := claim(token.Address); err != nil {
			return err
		}

		holders := map[Address]struct{}{}
		total := big.NewInt(0)
		for _, balance := range token.Balances {
			if _, exists := holders[balance.Address]; exists {
				return fmt.Errorf("duplicate balance of %s in token %s", balance.Address, token.Address)
			}
			holders[balance.Address] = struct{}{}

			value, ok := new(big.Int).SetString(balance.Value, 10)
			if !ok || value.Sign() < 0 {
				return fmt.Errorf("wrong balance %q of %s in token %s", balance.Value, balance.Address, token.Address)
			}
			total.Add(total, value)
		}
		if !IsInt128(total) {
			return fmt.Errorf("total supply of token %s overflows int128", token.Address)
		}
	}

	for _, contract := range s.Contracts {
		if err := claim(contract.Address); err != nil {
			return err
		}
		for _, supporter := range contract.Supporters {
			if supporter.Amount.Sign() != 1 {
				return fmt.Errorf("supporter %s of %s has non-positive amount", supporter.Address, contract.Address)
			}
		}
	}

	accounts := map[Address]struct{}{}
	for _, account := range s.Accounts {
		if _, exists := accounts[account.Address]; exists {
			return fmt.Errorf("duplicate account %s", account.Address)
		}
		accounts[account.Address] = struct{}{}
	}

	return nil
}
