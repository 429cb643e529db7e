package storage

import (
	"fmt"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/tree"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

const mainPrefix = byte('c')

// Class separates the durable data of a contract from its per-instance data.
// Both classes survive commits, they only differ in the key space they live in.
type Class byte

const (
	Persistent Class = 'p'
	Instance   Class = 'i'
)

func (c Class) String() string {
	switch c {
	case Persistent:
		return "persistent"
	case Instance:
		return "instance"
	}
	return "unknown"
}

// Storage is the key space of one contract in one class. Values are rlp encoded.
type Storage struct {
	tree     tree.MTree
	contract types.Address
	class    Class
}

func New(iavl tree.MTree, contract types.Address, class Class) *Storage {
	return &Storage{tree: iavl, contract: contract, class: class}
}

// Prefix returns the tree prefix every key of the contract in the given class starts with.
func Prefix(contract types.Address, class Class) []byte {
	prefix := make([]byte, 0, 2+types.AddressLength)
	prefix = append(prefix, mainPrefix)
	prefix = append(prefix, contract.Bytes()...)
	return append(prefix, byte(class))
}

func (s *Storage) path(key []byte) []byte {
	return append(Prefix(s.contract, s.class), key...)
}

func (s *Storage) Contract() types.Address {
	return s.contract
}

func (s *Storage) Class() Class {
	return s.class
}

func (s *Storage) Has(key []byte) bool {
	return s.tree.Has(s.path(key))
}

// Get decodes the value stored under key into value. A missing key is a host failure.
func (s *Storage) Get(key []byte, value interface{}) error {
	_, enc := s.tree.Get(s.path(key))
	if enc == nil {
		return code.NewError(code.StorageKeyNotFound,
			fmt.Sprintf("%s storage key %q of contract %s is not set", s.class, key, s.contract),
			code.NewStorageKeyNotFound(s.contract.String(), string(key)))
	}

	if err := rlp.DecodeBytes(enc, value); err != nil {
		return errors.Wrapf(err, "decode %s storage key %q of contract %s", s.class, key, s.contract)
	}

	return nil
}

func (s *Storage) Set(key []byte, value interface{}) error {
	enc, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s storage key %q of contract %s", s.class, key, s.contract)
	}

	s.tree.Set(s.path(key), enc)
	return nil
}

func (s *Storage) Remove(key []byte) {
	s.tree.Remove(s.path(key))
}

// Iterate walks keys starting with prefix in ascending order. Keys are passed without the
// storage prefix.
func (s *Storage) Iterate(prefix []byte, fn func(key []byte, value []byte) bool) {
	start := s.path(prefix)
	s.tree.IterateRange(start, prefixEnd(start), true, func(key []byte, value []byte) bool {
		return fn(key[len(start)-len(prefix):], value)
	})
}

// prefixEnd returns the smallest key greater than every key with the given prefix.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
