package token_test

import (
	"math/big"
	"testing"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/host"
	"github.com/MinterTeam/minter-coffee/core/state"
	"github.com/MinterTeam/minter-coffee/core/token"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	db "github.com/tendermint/tm-db"
)

var (
	tokenAddress = types.Address{0x77}
	alice        = types.Address{0x0a}
	bob          = types.Address{0x0b}
)

func newTokenHost(t *testing.T) *host.Host {
	s, err := state.NewState(0, db.NewMemDB(), 1024, 0)
	require.NoError(t, err)
	h := host.NewHost(s, log.NewNopLogger())

	_, err = h.Invoke(nil, func(inv *host.Invocation) error {
		return inv.Deploy(tokenAddress, state.KindToken, func(e env.Env) error {
			if err := token.Initialize(e, "BEAN"); err != nil {
				return err
			}
			return token.Allocate(e, alice, big.NewInt(100))
		})
	})
	require.NoError(t, err)

	return h
}

func call(h *host.Host, signers []types.Address, fn func(e env.Env) error) error {
	_, err := h.Invoke(signers, func(inv *host.Invocation) error {
		return inv.Call(tokenAddress, state.KindToken, fn)
	})
	return err
}

func balance(t *testing.T, h *host.Host, holder types.Address) string {
	var b *big.Int
	require.NoError(t, h.Query(func(inv *host.Invocation) error {
		return inv.Call(tokenAddress, state.KindToken, func(e env.Env) error {
			var err error
			b, err = token.Balance(e, holder)
			return err
		})
	}))
	return b.String()
}

func errorCode(t *testing.T, err error) uint32 {
	var codeErr *code.Error
	require.True(t, errors.As(err, &codeErr), "%v", err)
	return codeErr.Code
}

func TestToken_Symbol(t *testing.T) {
	h := newTokenHost(t)

	var symbol string
	require.NoError(t, h.Query(func(inv *host.Invocation) error {
		return inv.Call(tokenAddress, state.KindToken, func(e env.Env) error {
			var err error
			symbol, err = token.Symbol(e)
			return err
		})
	}))
	assert.Equal(t, "BEAN", symbol)

	err := call(h, nil, func(e env.Env) error { return token.Initialize(e, "MILK") })
	assert.Equal(t, code.AlreadyInitialized, errorCode(t, err))
}

func TestToken_Transfer(t *testing.T) {
	h := newTokenHost(t)

	require.NoError(t, call(h, []types.Address{alice}, func(e env.Env) error {
		return token.Transfer(e, alice, bob, big.NewInt(40))
	}))
	assert.Equal(t, "60", balance(t, h, alice))
	assert.Equal(t, "40", balance(t, h, bob))

	require.NoError(t, call(h, []types.Address{alice}, func(e env.Env) error {
		return token.Transfer(e, alice, alice, big.NewInt(60))
	}))
	assert.Equal(t, "60", balance(t, h, alice))

	require.NoError(t, call(h, []types.Address{bob}, func(e env.Env) error {
		return token.Transfer(e, bob, alice, big.NewInt(0))
	}))
	assert.Equal(t, "40", balance(t, h, bob))
}

func TestToken_TransferErrors(t *testing.T) {
	h := newTokenHost(t)

	err := call(h, []types.Address{bob}, func(e env.Env) error {
		return token.Transfer(e, alice, bob, big.NewInt(1))
	})
	assert.Equal(t, code.Unauthorized, errorCode(t, err))

	err = call(h, []types.Address{alice}, func(e env.Env) error {
		return token.Transfer(e, alice, bob, big.NewInt(-1))
	})
	assert.Equal(t, code.NegativeAmount, errorCode(t, err))

	err = call(h, []types.Address{alice}, func(e env.Env) error {
		return token.Transfer(e, alice, bob, big.NewInt(101))
	})
	assert.Equal(t, code.InsufficientFunds, errorCode(t, err))

	assert.Equal(t, "100", balance(t, h, alice))
	assert.Equal(t, "0", balance(t, h, bob))
}

func TestToken_AllocateOverflow(t *testing.T) {
	h := newTokenHost(t)

	err := call(h, nil, func(e env.Env) error {
		return token.Allocate(e, bob, types.MaxInt128())
	})
	require.NoError(t, err)

	err = call(h, nil, func(e env.Env) error {
		return token.Allocate(e, bob, big.NewInt(1))
	})
	assert.Equal(t, code.BalanceOverflow, errorCode(t, err))
	assert.Equal(t, types.MaxInt128().String(), balance(t, h, bob))
}

func TestToken_Export(t *testing.T) {
	h := newTokenHost(t)

	require.NoError(t, call(h, []types.Address{alice}, func(e env.Env) error {
		return token.Transfer(e, alice, bob, big.NewInt(100))
	}))

	var balances []types.Balance
	require.NoError(t, h.Query(func(inv *host.Invocation) error {
		return inv.Call(tokenAddress, state.KindToken, func(e env.Env) error {
			var err error
			balances, err = token.Export(e)
			return err
		})
	}))
	assert.Equal(t, []types.Balance{{Address: bob, Value: "100"}}, balances)
}

func TestToken_Events(t *testing.T) {
	h := newTokenHost(t)

	events, err := h.Invoke([]types.Address{alice}, func(inv *host.Invocation) error {
		return inv.Call(tokenAddress, state.KindToken, func(e env.Env) error {
			return token.Transfer(e, alice, bob, big.NewInt(5))
		})
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, token.EventTransfer, events[0].Type)

	attrs := map[string]string{}
	for _, attr := range events[0].Attributes {
		attrs[string(attr.Key)] = string(attr.Value)
	}
	assert.Equal(t, tokenAddress.String(), attrs["contract"])
	assert.Equal(t, alice.String(), attrs["from"])
	assert.Equal(t, bob.String(), attrs["to"])
	assert.Equal(t, "5", attrs["amount"])
}
