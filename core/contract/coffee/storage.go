package coffee

import (
	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/types"
)

// DataKey is the closed set of storage slots of the contract.
type DataKey byte

const (
	DataKeyOwner DataKey = iota
	DataKeyTokenAddress
	DataKeySupporters
)

func (k DataKey) String() string {
	switch k {
	case DataKeyOwner:
		return "Owner"
	case DataKeyTokenAddress:
		return "TokenAddress"
	case DataKeySupporters:
		return "Supporters"
	}
	return "Unknown"
}

func (k DataKey) Bytes() []byte {
	return []byte(k.String())
}

// Supporter is one recorded contribution.
type Supporter struct {
	Address types.Address `json:"address"`
	Amount  types.Int128  `json:"amount"`
}

// store gives typed access to the slots. Owner is kept in instance storage,
// the token address and the ledger in persistent storage.
type store struct {
	persistent env.Storage
	instance   env.Storage
}

func newStore(e env.Env) store {
	return store{persistent: e.Persistent(), instance: e.Instance()}
}

func (s store) initialized() bool {
	return s.instance.Has(DataKeyOwner.Bytes())
}

func (s store) owner() (types.Address, error) {
	var owner types.Address
	err := s.instance.Get(DataKeyOwner.Bytes(), &owner)
	return owner, err
}

func (s store) setOwner(owner types.Address) error {
	return s.instance.Set(DataKeyOwner.Bytes(), owner)
}

func (s store) tokenAddress() (types.Address, error) {
	var token types.Address
	err := s.persistent.Get(DataKeyTokenAddress.Bytes(), &token)
	return token, err
}

func (s store) setTokenAddress(token types.Address) error {
	return s.persistent.Set(DataKeyTokenAddress.Bytes(), token)
}

// supporters returns the ledger newest first. An unset ledger is empty.
func (s store) supporters() ([]Supporter, error) {
	if !s.persistent.Has(DataKeySupporters.Bytes()) {
		return nil, nil
	}

	var list []Supporter
	if err := s.persistent.Get(DataKeySupporters.Bytes(), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s store) setSupporters(list []Supporter) error {
	return s.persistent.Set(DataKeySupporters.Bytes(), list)
}
