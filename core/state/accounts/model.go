package accounts

import (
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

type Model struct {
	Nonce uint64

	address types.Address
	isDirty bool

	markDirty func(types.Address)
}

func (model *Model) setNonce(nonce uint64) {
	model.Nonce = nonce
	model.isDirty = true
	model.markDirty(model.address)
}

// CreateContractAddress derives the address of a contract deployed by sender with the given nonce.
func CreateContractAddress(sender types.Address, nonce uint64) types.Address {
	b, err := rlp.EncodeToBytes(&struct {
		Sender types.Address
		Nonce  uint64
	}{Sender: sender, Nonce: nonce})
	if err != nil {
		panic(err)
	}

	var addr types.Address
	copy(addr[:], crypto.Keccak256(b)[12:])

	return addr
}
