package storage

import (
	"testing"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/tree"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"
)

func newTree(t *testing.T) tree.MTree {
	iavl, err := tree.NewMutableTree(0, db.NewMemDB(), 1024)
	require.NoError(t, err)
	return iavl
}

func TestStorage_GetSet(t *testing.T) {
	s := New(newTree(t), types.Address{0xcc}, Persistent)

	require.NoError(t, s.Set([]byte("Owner"), types.Address{0x01}))
	assert.True(t, s.Has([]byte("Owner")))

	var owner types.Address
	require.NoError(t, s.Get([]byte("Owner"), &owner))
	assert.Equal(t, types.Address{0x01}, owner)

	s.Remove([]byte("Owner"))
	err := s.Get([]byte("Owner"), &owner)
	var codeErr *code.Error
	require.True(t, errors.As(err, &codeErr))
	assert.Equal(t, code.StorageKeyNotFound, codeErr.Code)
}

func TestStorage_Isolation(t *testing.T) {
	iavl := newTree(t)
	contract := types.Address{0xcc}

	persistent := New(iavl, contract, Persistent)
	instance := New(iavl, contract, Instance)
	other := New(iavl, types.Address{0xdd}, Persistent)

	require.NoError(t, persistent.Set([]byte("Key"), uint64(1)))
	assert.False(t, instance.Has([]byte("Key")))
	assert.False(t, other.Has([]byte("Key")))

	require.NoError(t, instance.Set([]byte("Key"), uint64(2)))

	var value uint64
	require.NoError(t, persistent.Get([]byte("Key"), &value))
	assert.Equal(t, uint64(1), value)
}

func TestStorage_DecodeError(t *testing.T) {
	s := New(newTree(t), types.Address{0xcc}, Instance)

	require.NoError(t, s.Set([]byte("Symbol"), "BEAN"))

	var values []uint64
	assert.Error(t, s.Get([]byte("Symbol"), &values))
}

func TestStorage_Iterate(t *testing.T) {
	iavl := newTree(t)
	s := New(iavl, types.Address{0xcc}, Persistent)

	require.NoError(t, s.Set([]byte("Balance\x01"), uint64(1)))
	require.NoError(t, s.Set([]byte("Balance\x02"), uint64(2)))
	require.NoError(t, s.Set([]byte("Symbol"), uint64(3)))
	require.NoError(t, New(iavl, types.Address{0xcd}, Persistent).Set([]byte("Balance\x03"), uint64(4)))

	var keys []string
	s.Iterate([]byte("Balance"), func(key []byte, value []byte) bool {
		keys = append(keys, string(key))
		return false
	})
	assert.Equal(t, []string{"Balance\x01", "Balance\x02"}, keys)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x03}, prefixEnd([]byte{0x01, 0x02}))
	assert.Equal(t, []byte{0x02}, prefixEnd([]byte{0x01, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff, 0xff}))
}
