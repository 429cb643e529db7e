// Package coffee implements the "buy me a coffee" treasury contract: it takes token
// contributions from anyone, keeps a ledger of supporters and lets the owner withdraw
// the whole balance.
package coffee

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/types"
)

// Method names of the public API as the client SDK calls them.
const (
	MethodGetOwner        = "get_owner"
	MethodGetTokenAddress = "get_token_address"
	MethodGetBalance      = "get_balance"
	MethodGetSupporters   = "get_supporters"
	MethodBuyCoffee       = "buy_coffee"
	MethodWithdraw        = "withdraw"
)

const (
	EventContribution = "coffee/contribution"
	EventWithdraw     = "coffee/withdraw"
)

type Contract struct {
	env   env.Env
	store store
}

// New binds the contract to the environment of one call.
func New(e env.Env) *Contract {
	return &Contract{env: e, store: newStore(e)}
}

// Construct binds the owner and the token. It runs once, a second call fails.
func (c *Contract) Construct(owner, token types.Address) error {
	if c.store.initialized() {
		return code.NewError(code.AlreadyInitialized,
			fmt.Sprintf("contract %s is already initialized", c.env.CurrentContractAddress()),
			code.NewAlreadyInitialized(c.env.CurrentContractAddress().String()))
	}

	if err := c.store.setTokenAddress(token); err != nil {
		return err
	}
	return c.store.setOwner(owner)
}

func (c *Contract) GetOwner() (types.Address, error) {
	return c.store.owner()
}

func (c *Contract) GetTokenAddress() (types.Address, error) {
	return c.store.tokenAddress()
}

// GetBalance returns the token balance held by the contract.
func (c *Contract) GetBalance() (*big.Int, error) {
	g, err := c.gateway()
	if err != nil {
		return nil, err
	}
	return g.queryBalance(c.env.CurrentContractAddress())
}

// GetSupporters returns the ledger newest first, or ErrNoSupporters when it is empty.
func (c *Contract) GetSupporters() ([]Supporter, error) {
	list, err := c.store.supporters()
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoSupporters
	}
	return list, nil
}

// Contribute moves amount from the supporter to the contract and records it.
func (c *Contract) Contribute(from types.Address, amount types.Int128) error {
	if err := c.env.RequireAuth(from); err != nil {
		return err
	}

	g, err := c.gateway()
	if err != nil {
		return err
	}

	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	if err := g.transfer(from, c.env.CurrentContractAddress(), amount.Big()); err != nil {
		return err
	}

	list, err := c.store.supporters()
	if err != nil {
		return err
	}
	list = append([]Supporter{{Address: from, Amount: amount}}, list...)
	if err := c.store.setSupporters(list); err != nil {
		return err
	}

	c.env.Emit(EventContribution,
		env.Attribute("from", from.String()),
		env.Attribute("amount", amount.String()),
		env.Attribute("supporters", strconv.Itoa(len(list))),
	)
	return nil
}

// Withdraw sends the whole balance of the contract to the owner. The ledger is kept.
func (c *Contract) Withdraw() error {
	owner, err := c.store.owner()
	if err != nil {
		return err
	}
	if err := c.env.RequireAuth(owner); err != nil {
		return err
	}

	g, err := c.gateway()
	if err != nil {
		return err
	}

	balance, err := g.queryBalance(c.env.CurrentContractAddress())
	if err != nil {
		return err
	}

	if err := g.transfer(c.env.CurrentContractAddress(), owner, balance); err != nil {
		return err
	}

	c.env.Emit(EventWithdraw,
		env.Attribute("owner", owner.String()),
		env.Attribute("amount", balance.String()),
	)
	return nil
}

// Query runs a read-only method by its SDK name.
func (c *Contract) Query(method string) (interface{}, error) {
	switch method {
	case MethodGetOwner:
		return c.GetOwner()
	case MethodGetTokenAddress:
		return c.GetTokenAddress()
	case MethodGetBalance:
		return c.GetBalance()
	case MethodGetSupporters:
		return c.GetSupporters()
	}

	return nil, code.NewError(code.UnknownMethod,
		fmt.Sprintf("unknown method %q", method),
		code.NewUnknownMethod(method))
}

// ImportSupporters restores a ledger from a genesis document. The contract must be
// constructed and its ledger empty.
func (c *Contract) ImportSupporters(list []Supporter) error {
	if !c.store.initialized() {
		return fmt.Errorf("contract %s is not constructed", c.env.CurrentContractAddress())
	}

	current, err := c.store.supporters()
	if err != nil {
		return err
	}
	if len(current) != 0 {
		return fmt.Errorf("contract %s already has supporters", c.env.CurrentContractAddress())
	}

	for _, supporter := range list {
		if supporter.Amount.Sign() <= 0 {
			return ErrInvalidAmount
		}
	}

	return c.store.setSupporters(list)
}

func (c *Contract) gateway() (gateway, error) {
	token, err := c.store.tokenAddress()
	if err != nil {
		return gateway{}, err
	}
	return gateway{env: c.env, token: token}, nil
}
