package accounts

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/tree"
	"github.com/ethereum/go-ethereum/rlp"
)

const mainPrefix = byte('a')

// Accounts keeps transaction nonces of external accounts.
type Accounts struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	iavl tree.MTree
	lock sync.RWMutex
}

func NewAccounts(iavl tree.MTree) *Accounts {
	return &Accounts{
		iavl:  iavl,
		list:  map[types.Address]*Model{},
		dirty: map[types.Address]struct{}{},
	}
}

func (a *Accounts) Commit() error {
	for _, address := range a.getOrderedDirtyAccounts() {
		account := a.getFromMap(address)

		a.lock.Lock()
		delete(a.dirty, address)
		a.lock.Unlock()

		if !account.isDirty {
			continue
		}

		data, err := rlp.EncodeToBytes(account)
		if err != nil {
			return fmt.Errorf("can't encode object at %x: %v", address[:], err)
		}

		a.iavl.Set(pathOf(address), data)
		account.isDirty = false
	}

	return nil
}

// Rollback forgets every change not yet committed.
func (a *Accounts) Rollback() {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.list = map[types.Address]*Model{}
	a.dirty = map[types.Address]struct{}{}
}

func (a *Accounts) GetNonce(address types.Address) uint64 {
	return a.getOrNew(address).Nonce
}

func (a *Accounts) SetNonce(address types.Address, nonce uint64) {
	a.getOrNew(address).setNonce(nonce)
}

// Export returns every account with a non-zero nonce, in address order.
func (a *Accounts) Export() []types.Account {
	var list []types.Account
	a.iavl.IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		account := &Model{}
		if err := rlp.DecodeBytes(value, account); err != nil {
			panic(fmt.Sprintf("failed to decode account at %x: %s", key[1:], err))
		}
		if account.Nonce != 0 {
			list = append(list, types.Account{Address: types.BytesToAddress(key[1:]), Nonce: account.Nonce})
		}
		return false
	})

	return list
}

func (a *Accounts) getOrNew(address types.Address) *Model {
	if account := a.getFromMap(address); account != nil {
		return account
	}

	account := &Model{}
	if _, enc := a.iavl.Get(pathOf(address)); len(enc) != 0 {
		if err := rlp.DecodeBytes(enc, account); err != nil {
			panic(fmt.Sprintf("failed to decode account at address %s: %s", address.String(), err))
		}
	}
	account.address = address
	account.markDirty = a.markDirty

	a.setToMap(address, account)
	return account
}

func (a *Accounts) getOrderedDirtyAccounts() []types.Address {
	a.lock.RLock()
	keys := make([]types.Address, 0, len(a.dirty))
	for k := range a.dirty {
		keys = append(keys, k)
	}
	a.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == 1
	})

	return keys
}

func (a *Accounts) markDirty(address types.Address) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.dirty[address] = struct{}{}
}

func (a *Accounts) getFromMap(address types.Address) *Model {
	a.lock.RLock()
	defer a.lock.RUnlock()

	return a.list[address]
}

func (a *Accounts) setToMap(address types.Address, model *Model) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.list[address] = model
}

func pathOf(address types.Address) []byte {
	return append([]byte{mainPrefix}, address.Bytes()...)
}
