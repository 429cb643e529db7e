// Package node ties the state, the host and the transaction executor into a running
// application: genesis import, transaction delivery, queries and export.
package node

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/MinterTeam/minter-coffee/config"
	"github.com/MinterTeam/minter-coffee/core/contract/coffee"
	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/host"
	"github.com/MinterTeam/minter-coffee/core/metrics"
	"github.com/MinterTeam/minter-coffee/core/state"
	"github.com/MinterTeam/minter-coffee/core/token"
	"github.com/MinterTeam/minter-coffee/core/transaction"
	"github.com/MinterTeam/minter-coffee/core/transaction/encoder"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	abcTypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	dbm "github.com/tendermint/tm-db"
)

const stateDBName = "state"

// Node is the coffee application over one state database.
type Node struct {
	cfg      *config.Config
	db       dbm.DB
	state    *state.State
	host     *host.Host
	executor *transaction.Executor
	encoder  *encoder.TxEncoderJSON
	metrics  *metrics.Metrics
	logger   log.Logger
}

// GetDbOpts returns leveldb options sized for memLimit megabytes.
func GetDbOpts(memLimit int) *opt.Options {
	if memLimit < 1024 {
		panic(fmt.Sprintf("Not enough memory given to StateDB. Expected >1024M, given %d", memLimit))
	}
	return &opt.Options{
		OpenFilesCacheCapacity: memLimit,
		BlockCacheCapacity:     memLimit / 2 * opt.MiB,
		WriteBuffer:            memLimit / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	}
}

// OpenDB opens the state database configured by cfg.
func OpenDB(cfg *config.Config) (dbm.DB, error) {
	switch cfg.DBBackend {
	case "memdb":
		return dbm.NewMemDB(), nil
	case "goleveldb":
		ldb, err := dbm.NewGoLevelDBWithOpts(stateDBName, cfg.DBDir(), GetDbOpts(cfg.StateMemAvailable))
		if err != nil {
			return nil, errors.Wrap(err, "open state db")
		}
		return ldb, nil
	}

	return nil, errors.Errorf("unsupported db backend %q", cfg.DBBackend)
}

// NewNode loads the latest committed state from stateDB.
func NewNode(cfg *config.Config, stateDB dbm.DB, logger log.Logger, m *metrics.Metrics) (*Node, error) {
	if m == nil {
		m = metrics.NopMetrics()
	}

	s, err := state.NewState(0, stateDB, cfg.StateCacheSize, cfg.KeepLastStates)
	if err != nil {
		return nil, errors.Wrap(err, "load state")
	}
	s.SetLogger(logger.With("module", "state"))

	n := &Node{
		cfg:     cfg,
		db:      stateDB,
		state:   s,
		host:    host.NewHost(s, logger.With("module", "host")),
		metrics: m,
		logger:  logger.With("module", "main"),
	}
	n.executor = transaction.NewExecutor(n.host, transaction.GetData, logger.With("module", "executor"))
	n.encoder = encoder.NewTxEncoderJSON(n.symbolOf)

	n.metrics.Height.Set(float64(s.Height()))

	return n, nil
}

// Height returns the version of the last committed state.
func (n *Node) Height() int64 {
	session := n.host.Begin()
	defer session.Discard()

	return session.State().Height()
}

// InitChain imports the genesis document. It only runs on an empty state.
func (n *Node) InitChain(appState types.AppState) ([]byte, error) {
	if err := appState.Verify(); err != nil {
		return nil, errors.Wrap(err, "verify genesis")
	}

	session := n.host.Begin()
	defer session.Discard()

	if height := session.State().Height(); height != 0 {
		return nil, errors.Errorf("state is already initialized at height %d", height)
	}

	_, err := session.Invoke(nil, func(inv *host.Invocation) error {
		for _, t := range appState.Tokens {
			if err := deployToken(inv, t); err != nil {
				return errors.Wrapf(err, "token %s", t.Address)
			}
		}
		for _, c := range appState.Contracts {
			if err := deployCoffee(inv, c); err != nil {
				return errors.Wrapf(err, "contract %s", c.Address)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, account := range appState.Accounts {
		session.State().Accounts.SetNonce(account.Address, account.Nonce)
	}

	hash, err := session.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit genesis")
	}

	for _, c := range appState.Contracts {
		n.observeSupporters(c.Address, 0, len(c.Supporters))
	}
	n.metrics.Height.Set(1)
	n.logger.Info("Genesis imported", "tokens", len(appState.Tokens), "contracts", len(appState.Contracts), "hash", fmt.Sprintf("%X", hash))

	return hash, nil
}

func deployToken(inv *host.Invocation, t types.Token) error {
	return inv.Deploy(t.Address, state.KindToken, func(e env.Env) error {
		if err := token.Initialize(e, t.Symbol); err != nil {
			return err
		}
		for _, balance := range t.Balances {
			value, ok := new(big.Int).SetString(balance.Value, 10)
			if !ok {
				return errors.Errorf("wrong balance %q of %s", balance.Value, balance.Address)
			}
			if err := token.Allocate(e, balance.Address, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func deployCoffee(inv *host.Invocation, c types.Contract) error {
	return inv.Deploy(c.Address, state.KindCoffee, func(e env.Env) error {
		contract := coffee.New(e)
		if err := contract.Construct(c.Owner, c.Token); err != nil {
			return err
		}
		if len(c.Supporters) == 0 {
			return nil
		}

		list := make([]coffee.Supporter, 0, len(c.Supporters))
		for _, supporter := range c.Supporters {
			list = append(list, coffee.Supporter{Address: supporter.Address, Amount: supporter.Amount})
		}
		return contract.ImportSupporters(list)
	})
}

// DeliverTx runs a raw transaction and records its outcome.
func (n *Node) DeliverTx(rawTx []byte) transaction.Response {
	start := time.Now()
	response := n.executor.RunTx(rawTx)

	txType := "unknown"
	for _, event := range response.Events {
		switch event.Type {
		case transaction.EventTx:
			if value, ok := attribute(event.Attributes, "tx.type"); ok {
				txType = value
			}
		case coffee.EventContribution:
			contract, _ := attribute(event.Attributes, "contract")
			supporters, _ := attribute(event.Attributes, "supporters")
			if count, err := strconv.Atoi(supporters); err == nil {
				n.observeSupporters(types.HexToAddress(contract), count-1, count)
			}
		}
	}

	n.metrics.Transactions.With("type", txType, "code", strconv.FormatUint(uint64(response.Code), 10)).Add(1)
	n.metrics.TransactionDuration.With("type", txType).Observe(time.Since(start).Seconds())
	n.metrics.Height.Set(float64(n.Height()))

	if response.Code != 0 {
		n.logger.Debug("Transaction failed", "hash", response.Hash, "code", response.Code, "log", response.Log)
	}

	return response
}

func (n *Node) observeSupporters(contract types.Address, before, after int) {
	n.metrics.Supporters.With("contract", contract.String()).Set(float64(after))

	threshold := n.cfg.SupportersWarnThreshold
	if threshold > 0 && before <= threshold && after > threshold {
		n.logger.Error("Supporters ledger is growing large", "contract", contract, "supporters", after, "threshold", threshold)
	}
}

// QueryContract runs a read-only method of the coffee contract at address.
func (n *Node) QueryContract(address types.Address, method string) (interface{}, error) {
	var result interface{}
	err := n.host.Query(func(inv *host.Invocation) error {
		return inv.Call(address, state.KindCoffee, func(e env.Env) error {
			var err error
			result, err = coffee.New(e).Query(method)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TokenBalance returns the balance of holder in the token contract at address.
func (n *Node) TokenBalance(address, holder types.Address) (*big.Int, error) {
	var balance *big.Int
	err := n.host.Query(func(inv *host.Invocation) error {
		return inv.Call(address, state.KindToken, func(e env.Env) error {
			var err error
			balance, err = token.Balance(e, holder)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

func (n *Node) TokenSymbol(address types.Address) (string, error) {
	var symbol string
	err := n.host.Query(func(inv *host.Invocation) error {
		return inv.Call(address, state.KindToken, func(e env.Env) error {
			var err error
			symbol, err = token.Symbol(e)
			return err
		})
	})
	return symbol, err
}

func (n *Node) symbolOf(address types.Address) string {
	symbol, err := n.TokenSymbol(address)
	if err != nil {
		return ""
	}
	return symbol
}

// Nonce returns the last used nonce of address.
func (n *Node) Nonce(address types.Address) uint64 {
	session := n.host.Begin()
	defer session.Discard()

	return session.State().Accounts.GetNonce(address)
}

type Status struct {
	Height    int64  `json:"height"`
	AppHash   string `json:"app_hash"`
	Contracts int    `json:"contracts"`
	ChainID   uint8  `json:"chain_id"`
}

func (n *Node) Status() Status {
	session := n.host.Begin()
	defer session.Discard()

	s := session.State()
	return Status{
		Height:    s.Height(),
		AppHash:   fmt.Sprintf("%X", s.Hash()),
		Contracts: len(s.Contracts()),
		ChainID:   uint8(types.CurrentChainID),
	}
}

// Export dumps the committed state as a genesis document.
func (n *Node) Export() (types.AppState, error) {
	session := n.host.Begin()
	defer session.Discard()

	appState := types.AppState{
		Tokens:    []types.Token{},
		Contracts: []types.Contract{},
		Accounts:  session.State().Accounts.Export(),
	}

	registry := session.State().Contracts()
	_, err := session.Invoke(nil, func(inv *host.Invocation) error {
		for _, entry := range registry {
			var err error
			switch entry.Kind {
			case state.KindToken:
				err = inv.Call(entry.Address, entry.Kind, func(e env.Env) error {
					t, err := exportToken(e)
					appState.Tokens = append(appState.Tokens, t)
					return err
				})
			case state.KindCoffee:
				err = inv.Call(entry.Address, entry.Kind, func(e env.Env) error {
					c, err := exportCoffee(e)
					appState.Contracts = append(appState.Contracts, c)
					return err
				})
			default:
				err = errors.Errorf("unknown contract kind %s", entry.Kind)
			}
			if err != nil {
				return errors.Wrapf(err, "export %s", entry.Address)
			}
		}
		return nil
	})
	if err != nil {
		return types.AppState{}, err
	}

	return appState, nil
}

func exportToken(e env.Env) (types.Token, error) {
	t := types.Token{Address: e.CurrentContractAddress()}

	symbol, err := token.Symbol(e)
	if err != nil {
		return t, err
	}
	t.Symbol = symbol

	t.Balances, err = token.Export(e)
	return t, err
}

func exportCoffee(e env.Env) (types.Contract, error) {
	c := types.Contract{Address: e.CurrentContractAddress()}
	contract := coffee.New(e)

	var err error
	if c.Owner, err = contract.GetOwner(); err != nil {
		return c, err
	}
	if c.Token, err = contract.GetTokenAddress(); err != nil {
		return c, err
	}

	list, err := contract.GetSupporters()
	if errors.Is(err, coffee.ErrNoSupporters) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	for _, supporter := range list {
		c.Supporters = append(c.Supporters, types.Supporter{Address: supporter.Address, Amount: supporter.Amount})
	}
	return c, nil
}

// EncodeTx decodes a raw transaction into its JSON form. result may be nil.
func (n *Node) EncodeTx(rawTx []byte, result *transaction.Response) (json.RawMessage, error) {
	tx, err := n.executor.DecodeFromBytes(rawTx)
	if err != nil {
		return nil, err
	}
	return n.encoder.Encode(tx, rawTx, result)
}

// Close closes the state database.
func (n *Node) Close() error {
	return n.db.Close()
}

func attribute(attributes []abcTypes.EventAttribute, key string) (string, bool) {
	for _, attr := range attributes {
		if string(attr.Key) == key {
			return string(attr.Value), true
		}
	}
	return "", false
}
