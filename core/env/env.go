// Package env describes what the host offers to a running contract.
package env

import (
	"math/big"

	"github.com/MinterTeam/minter-coffee/core/types"
	abcTypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Storage is a contract scoped key-value store with rlp encoded values.
type Storage interface {
	Has(key []byte) bool
	// Get fails with a host error when key is not set.
	Get(key []byte, value interface{}) error
	Set(key []byte, value interface{}) error
	Remove(key []byte)
	Iterate(prefix []byte, fn func(key []byte, value []byte) bool)
}

// TokenClient calls a token contract on behalf of the current contract.
type TokenClient interface {
	Balance(holder types.Address) (*big.Int, error)
	Transfer(from, to types.Address, amount *big.Int) error
}

// Env is bound to one contract for the duration of one call.
type Env interface {
	CurrentContractAddress() types.Address
	// RequireAuth fails unless address signed the invocation or is the direct caller.
	RequireAuth(address types.Address) error
	Persistent() Storage
	Instance() Storage
	Token(address types.Address) TokenClient
	Emit(eventType string, attributes ...abcTypes.EventAttribute)
	Logger() log.Logger
}

func Attribute(key, value string) abcTypes.EventAttribute {
	return abcTypes.EventAttribute{Key: []byte(key), Value: []byte(value), Index: true}
}
