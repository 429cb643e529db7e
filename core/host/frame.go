package host

import (
	"fmt"
	"math/big"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/state"
	"github.com/MinterTeam/minter-coffee/core/state/storage"
	"github.com/MinterTeam/minter-coffee/core/token"
	"github.com/MinterTeam/minter-coffee/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// frame is the env.Env of one contract call.
type frame struct {
	inv     *Invocation
	address types.Address
}

func (f *frame) CurrentContractAddress() types.Address {
	return f.address
}

func (f *frame) RequireAuth(address types.Address) error {
	if f.inv.isAuthorized(address) {
		return nil
	}

	return code.NewError(code.Unauthorized,
		fmt.Sprintf("%s has not authorized the call to %s", address, f.address),
		code.NewUnauthorized(address.String()))
}

func (f *frame) Persistent() env.Storage {
	return f.inv.state.Storage(f.address, storage.Persistent)
}

func (f *frame) Instance() env.Storage {
	return f.inv.state.Storage(f.address, storage.Instance)
}

func (f *frame) Token(address types.Address) env.TokenClient {
	return &tokenClient{inv: f.inv, address: address}
}

func (f *frame) Emit(eventType string, attributes ...abcTypes.EventAttribute) {
	attrs := make([]abcTypes.EventAttribute, 0, len(attributes)+1)
	attrs = append(attrs, env.Attribute("contract", f.address.String()))
	attrs = append(attrs, attributes...)

	f.inv.events = append(f.inv.events, abcTypes.Event{Type: eventType, Attributes: attrs})
}

func (f *frame) Logger() log.Logger {
	return f.inv.logger.With("contract", f.address.String())
}

// tokenClient calls a token contract in a nested frame.
type tokenClient struct {
	inv     *Invocation
	address types.Address
}

func (t *tokenClient) Balance(holder types.Address) (*big.Int, error) {
	var balance *big.Int
	err := t.inv.Call(t.address, state.KindToken, func(e env.Env) error {
		var err error
		balance, err = token.Balance(e, holder)
		return err
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

func (t *tokenClient) Transfer(from, to types.Address, amount *big.Int) error {
	return t.inv.Call(t.address, state.KindToken, func(e env.Env) error {
		return token.Transfer(e, from, to, amount)
	})
}
