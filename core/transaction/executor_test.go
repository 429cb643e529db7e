package transaction

import (
	"math/big"
	"strings"
	"testing"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/contract/coffee"
	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/host"
	"github.com/MinterTeam/minter-coffee/core/state"
	"github.com/MinterTeam/minter-coffee/core/token"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/crypto"
	"github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	db "github.com/tendermint/tm-db"
)

var tokenAddress = types.Address{0x77}

type testAccount struct {
	key     *btcec.PrivateKey
	address types.Address
	nonce   uint64
}

func newAccount(t *testing.T) *testAccount {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &testAccount{key: key, address: crypto.PubkeyToAddress(key.PubKey())}
}

type testChain struct {
	host     *host.Host
	state    *state.State
	executor *Executor
}

func newTestChain(t *testing.T, holders ...*testAccount) *testChain {
	s, err := state.NewState(0, db.NewMemDB(), 1024, 0)
	require.NoError(t, err)
	h := host.NewHost(s, log.NewNopLogger())

	_, err = h.Invoke(nil, func(inv *host.Invocation) error {
		return inv.Deploy(tokenAddress, state.KindToken, func(e env.Env) error {
			if err := token.Initialize(e, "BEAN"); err != nil {
				return err
			}
			for _, holder := range holders {
				if err := token.Allocate(e, holder.address, big.NewInt(1000)); err != nil {
					return err
				}
			}
			return nil
		})
	})
	require.NoError(t, err)

	return &testChain{host: h, state: s, executor: NewExecutor(h, GetData, log.NewNopLogger())}
}

func (c *testChain) send(t *testing.T, data Data, signers ...*testAccount) Response {
	sender := signers[0]
	sender.nonce++

	tx, err := Encode(sender.nonce, types.CurrentChainID, data, nil)
	require.NoError(t, err)
	for _, signer := range signers {
		require.NoError(t, tx.Sign(signer.key))
	}

	raw, err := tx.Serialize()
	require.NoError(t, err)

	return c.executor.RunTx(raw)
}

func (c *testChain) balance(t *testing.T, holder types.Address) string {
	var balance *big.Int
	require.NoError(t, c.host.Query(func(inv *host.Invocation) error {
		return inv.Call(tokenAddress, state.KindToken, func(e env.Env) error {
			var err error
			balance, err = token.Balance(e, holder)
			return err
		})
	}))
	return balance.String()
}

func (c *testChain) supporters(contract types.Address) ([]coffee.Supporter, error) {
	var list []coffee.Supporter
	err := c.host.Query(func(inv *host.Invocation) error {
		return inv.Call(contract, state.KindCoffee, func(e env.Env) error {
			var err error
			list, err = coffee.New(e).GetSupporters()
			return err
		})
	})
	return list, err
}

func TestExecutor_Scenario(t *testing.T) {
	owner, alice, bob, mallory := newAccount(t), newAccount(t), newAccount(t), newAccount(t)
	chain := newTestChain(t, alice, bob, mallory)

	response := chain.send(t, DeployData{Owner: owner.address, Token: tokenAddress}, owner)
	require.Equal(t, code.OK, response.Code, response.Log)
	contract := types.BytesToAddress(response.Data)

	response = chain.send(t, BuyCoffeeData{Contract: contract, From: alice.address, Amount: types.Int128FromInt64(100)}, alice)
	require.Equal(t, code.OK, response.Code, response.Log)
	response = chain.send(t, BuyCoffeeData{Contract: contract, From: bob.address, Amount: types.Int128FromInt64(50)}, bob)
	require.Equal(t, code.OK, response.Code, response.Log)

	expected := []coffee.Supporter{
		{Address: bob.address, Amount: types.Int128FromInt64(50)},
		{Address: alice.address, Amount: types.Int128FromInt64(100)},
	}
	list, err := chain.supporters(contract)
	require.NoError(t, err)
	assert.Equal(t, expected, list)

	response = chain.send(t, WithdrawData{Contract: contract}, mallory)
	assert.Equal(t, code.Unauthorized, response.Code)
	assert.Equal(t, "150", chain.balance(t, contract))

	response = chain.send(t, WithdrawData{Contract: contract}, owner)
	require.Equal(t, code.OK, response.Code, response.Log)
	assert.Equal(t, "150", chain.balance(t, owner.address))
	assert.Equal(t, "0", chain.balance(t, contract))

	list, err = chain.supporters(contract)
	require.NoError(t, err)
	assert.Equal(t, expected, list)
}

func TestExecutor_InvalidAmount(t *testing.T) {
	owner, alice := newAccount(t), newAccount(t)
	chain := newTestChain(t, alice)

	response := chain.send(t, DeployData{Owner: owner.address, Token: tokenAddress}, owner)
	require.Equal(t, code.OK, response.Code, response.Log)
	contract := types.BytesToAddress(response.Data)

	response = chain.send(t, BuyCoffeeData{Contract: contract, From: alice.address, Amount: types.Int128FromInt64(-5)}, alice)
	assert.Equal(t, code.InvalidAmount, response.Code)
	assert.Contains(t, response.Info, "InvalidAmount")

	_, err := chain.supporters(contract)
	assert.Equal(t, coffee.ErrNoSupporters, err)
	assert.Equal(t, "1000", chain.balance(t, alice.address))

	// the failed transaction consumed its nonce
	assert.Equal(t, uint64(1), chain.state.Accounts.GetNonce(alice.address))
}

func TestExecutor_SponsoredContribution(t *testing.T) {
	owner, alice, bob := newAccount(t), newAccount(t), newAccount(t)
	chain := newTestChain(t, alice, bob)

	response := chain.send(t, DeployData{Owner: owner.address, Token: tokenAddress}, owner)
	require.Equal(t, code.OK, response.Code, response.Log)
	contract := types.BytesToAddress(response.Data)

	response = chain.send(t, BuyCoffeeData{Contract: contract, From: alice.address, Amount: types.Int128FromInt64(10)}, bob)
	assert.Equal(t, code.Unauthorized, response.Code)

	response = chain.send(t, BuyCoffeeData{Contract: contract, From: alice.address, Amount: types.Int128FromInt64(10)}, bob, alice)
	require.Equal(t, code.OK, response.Code, response.Log)
	assert.Equal(t, "990", chain.balance(t, alice.address))
	assert.Equal(t, uint64(2), chain.state.Accounts.GetNonce(bob.address))
	assert.Equal(t, uint64(0), chain.state.Accounts.GetNonce(alice.address))
}

func TestExecutor_Transfer(t *testing.T) {
	alice, bob := newAccount(t), newAccount(t)
	chain := newTestChain(t, alice)

	response := chain.send(t, TransferData{Token: tokenAddress, To: bob.address, Amount: types.Int128FromInt64(400)}, alice)
	require.Equal(t, code.OK, response.Code, response.Log)
	assert.Equal(t, "600", chain.balance(t, alice.address))
	assert.Equal(t, "400", chain.balance(t, bob.address))

	response = chain.send(t, TransferData{Token: tokenAddress, To: bob.address, Amount: types.Int128FromInt64(601)}, alice)
	assert.Equal(t, code.InsufficientFunds, response.Code)

	response = chain.send(t, TransferData{Token: tokenAddress, To: bob.address, Amount: types.Int128FromInt64(-1)}, alice)
	assert.Equal(t, code.NegativeAmount, response.Code)
	assert.Equal(t, "600", chain.balance(t, alice.address))
}

func TestExecutor_Events(t *testing.T) {
	owner := newAccount(t)
	chain := newTestChain(t)

	response := chain.send(t, DeployData{Owner: owner.address, Token: tokenAddress}, owner)
	require.Equal(t, code.OK, response.Code, response.Log)

	last := response.Events[len(response.Events)-1]
	assert.Equal(t, EventTx, last.Type)
	assert.Equal(t, owner.address.String(), string(last.Attributes[1].Value))
	assert.Equal(t, TypeDeploy.String(), string(last.Attributes[2].Value))
}

func TestExecutor_Checks(t *testing.T) {
	owner := newAccount(t)
	chain := newTestChain(t)
	data := DeployData{Owner: owner.address, Token: tokenAddress}

	t.Run("wrong nonce", func(t *testing.T) {
		tx, err := Encode(5, types.CurrentChainID, data, nil)
		require.NoError(t, err)
		require.NoError(t, tx.Sign(owner.key))
		raw, _ := tx.Serialize()

		response := chain.executor.RunTx(raw)
		assert.Equal(t, code.WrongNonce, response.Code)
		assert.Equal(t, uint64(0), chain.state.Accounts.GetNonce(owner.address))
	})

	t.Run("wrong chain id", func(t *testing.T) {
		tx, err := Encode(1, types.ChainTestnet, data, nil)
		require.NoError(t, err)
		require.NoError(t, tx.Sign(owner.key))
		raw, _ := tx.Serialize()

		assert.Equal(t, code.WrongChainID, chain.executor.RunTx(raw).Code)
	})

	t.Run("too large", func(t *testing.T) {
		assert.Equal(t, code.TxTooLarge, chain.executor.RunTx(make([]byte, maxTxLength+1)).Code)
	})

	t.Run("payload too large", func(t *testing.T) {
		tx, err := Encode(1, types.CurrentChainID, data, []byte(strings.Repeat("x", maxPayloadLength+1)))
		require.NoError(t, err)
		require.NoError(t, tx.Sign(owner.key))
		raw, _ := tx.Serialize()

		assert.Equal(t, code.TxPayloadTooLarge, chain.executor.RunTx(raw).Code)
	})

	t.Run("garbage", func(t *testing.T) {
		assert.Equal(t, code.DecodeError, chain.executor.RunTx([]byte{1, 2, 3}).Code)
	})

	t.Run("unknown type", func(t *testing.T) {
		tx, err := Encode(1, types.CurrentChainID, data, nil)
		require.NoError(t, err)
		tx.Type = 0x7f
		require.NoError(t, tx.Sign(owner.key))
		raw, _ := tx.Serialize()

		assert.Equal(t, code.UnknownTxType, chain.executor.RunTx(raw).Code)
	})

	t.Run("unsigned", func(t *testing.T) {
		tx, err := Encode(1, types.CurrentChainID, data, nil)
		require.NoError(t, err)
		raw, _ := tx.Serialize()

		assert.Equal(t, code.IncorrectSignature, chain.executor.RunTx(raw).Code)
	})

	t.Run("duplicated signers", func(t *testing.T) {
		tx, err := Encode(1, types.CurrentChainID, data, nil)
		require.NoError(t, err)
		require.NoError(t, tx.Sign(owner.key))
		require.NoError(t, tx.Sign(owner.key))
		raw, _ := tx.Serialize()

		assert.Equal(t, code.DuplicatedAddresses, chain.executor.RunTx(raw).Code)
	})

	t.Run("too many signatures", func(t *testing.T) {
		tx, err := Encode(1, types.CurrentChainID, data, nil)
		require.NoError(t, err)
		for i := 0; i <= maxSignatures; i++ {
			require.NoError(t, tx.Sign(newAccount(t).key))
		}
		raw, _ := tx.Serialize()

		assert.Equal(t, code.TooManySignatures, chain.executor.RunTx(raw).Code)
	})

	t.Run("unknown contract", func(t *testing.T) {
		owner.nonce = 0
		response := chain.send(t, WithdrawData{Contract: types.Address{0x42}}, owner)
		assert.Equal(t, code.ContractNotFound, response.Code)
		assert.Equal(t, uint64(1), chain.state.Accounts.GetNonce(owner.address))
	})
}

func TestTransaction_Signers(t *testing.T) {
	alice, bob := newAccount(t), newAccount(t)

	tx, err := Encode(1, types.CurrentChainID, WithdrawData{Contract: types.Address{1}}, []byte("hi"))
	require.NoError(t, err)
	require.NoError(t, tx.Sign(alice.key))
	require.NoError(t, tx.Sign(bob.key))

	raw, err := tx.Serialize()
	require.NoError(t, err)

	decoded, err := NewExecutor(nil, GetData, log.NewNopLogger()).DecodeFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), decoded.Hash())

	signers, err := decoded.Signers()
	require.NoError(t, err)
	assert.Equal(t, []types.Address{alice.address, bob.address}, signers)
	assert.Equal(t, alice.address, decoded.MustSender())
	assert.Equal(t, WithdrawData{Contract: types.Address{1}}, *decoded.GetDecodedData().(*WithdrawData))
}
