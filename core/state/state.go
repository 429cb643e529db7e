package state

import (
	"fmt"
	"sync"

	"github.com/MinterTeam/minter-coffee/core/state/accounts"
	"github.com/MinterTeam/minter-coffee/core/state/storage"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/tree"
	"github.com/tendermint/tendermint/libs/log"
	db "github.com/tendermint/tm-db"
)

const registryPrefix = byte('k')

// ContractKind names the code a contract address runs.
type ContractKind byte

const (
	KindToken  ContractKind = 0x01
	KindCoffee ContractKind = 0x02
)

func (k ContractKind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindCoffee:
		return "coffee"
	}
	return fmt.Sprintf("unknown(%d)", byte(k))
}

// Registered is one entry of the contract registry.
type Registered struct {
	Address types.Address
	Kind    ContractKind
}

type State struct {
	Accounts *accounts.Accounts

	tree           tree.MTree
	db             db.DB
	keepLastStates int64
	logger         log.Logger

	lock sync.Mutex
}

// NewState opens the state tree stored in db at the given height, 0 means the latest version.
func NewState(height uint64, db db.DB, cacheSize int, keepLastStates int64) (*State, error) {
	iavlTree, err := tree.NewMutableTree(height, db, cacheSize)
	if err != nil {
		return nil, err
	}

	return &State{
		Accounts:       accounts.NewAccounts(iavlTree),
		tree:           iavlTree,
		db:             db,
		keepLastStates: keepLastStates,
		logger:         log.NewNopLogger(),
	}, nil
}

func (s *State) SetLogger(logger log.Logger) {
	s.logger = logger
}

func (s *State) Tree() tree.ReadOnlyTree {
	return s.tree
}

// Lock serializes invocations against the state.
func (s *State) Lock() {
	s.lock.Lock()
}

func (s *State) Unlock() {
	s.lock.Unlock()
}

func (s *State) Height() int64 {
	return s.tree.Version()
}

func (s *State) Hash() []byte {
	return s.tree.Hash()
}

// Storage returns the key space of contract in the given class.
func (s *State) Storage(contract types.Address, class storage.Class) *storage.Storage {
	return storage.New(s.tree, contract, class)
}

func (s *State) ContractKind(address types.Address) (ContractKind, bool) {
	_, value := s.tree.Get(registryPath(address))
	if len(value) != 1 {
		return 0, false
	}
	return ContractKind(value[0]), true
}

func (s *State) RegisterContract(address types.Address, kind ContractKind) {
	s.tree.Set(registryPath(address), []byte{byte(kind)})
}

// Contracts lists the registry in address order.
func (s *State) Contracts() []Registered {
	var list []Registered
	s.tree.IterateRange([]byte{registryPrefix}, []byte{registryPrefix + 1}, true, func(key []byte, value []byte) bool {
		if len(value) == 1 {
			list = append(list, Registered{Address: types.BytesToAddress(key[1:]), Kind: ContractKind(value[0])})
		}
		return false
	})
	return list
}

// Commit saves pending changes as a new version and prunes versions older than keepLastStates.
func (s *State) Commit() ([]byte, error) {
	if err := s.Accounts.Commit(); err != nil {
		return nil, err
	}

	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return hash, err
	}

	if s.keepLastStates <= 0 {
		return hash, nil
	}

	versionToDelete := version - s.keepLastStates - 1
	if versionToDelete < 1 {
		return hash, nil
	}

	if err := s.tree.DeleteVersionIfExists(versionToDelete); err != nil {
		s.logger.Error("Failed to delete state version", "version", versionToDelete, "err", err)
	}

	return hash, nil
}

// Rollback drops every change made since the last commit.
func (s *State) Rollback() {
	s.Accounts.Rollback()
	s.tree.Rollback()
}

func registryPath(address types.Address) []byte {
	return append([]byte{registryPrefix}, address.Bytes()...)
}
