package api

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MinterTeam/minter-coffee/config"
	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/node"
	"github.com/MinterTeam/minter-coffee/core/transaction"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/crypto"
	"github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
	dbm "github.com/tendermint/tm-db"
)

var (
	beanAddress   = types.HexToAddress("Mx00000000000000000000000000000000000000b1")
	coffeeAddress = types.HexToAddress("Mx00000000000000000000000000000000000000cc")
)

type testAPI struct {
	handler http.Handler
	owner   types.Address
	alice   *btcec.PrivateKey
	nonce   uint64
}

func newTestAPI(t *testing.T) *testAPI {
	cfg := config.DefaultConfig()
	cfg.DBBackend = "memdb"
	cfg.StateCacheSize = 1024

	n, err := node.NewNode(cfg, dbm.NewMemDB(), log.NewNopLogger(), nil)
	require.NoError(t, err)

	alice, err := crypto.GenerateKey()
	require.NoError(t, err)
	owner := types.HexToAddress("Mx0000000000000000000000000000000000000001")

	_, err = n.InitChain(types.AppState{
		Tokens: []types.Token{{
			Address:  beanAddress,
			Symbol:   "BEAN",
			Balances: []types.Balance{{Address: crypto.PubkeyToAddress(alice.PubKey()), Value: "1000"}},
		}},
		Contracts: []types.Contract{{Address: coffeeAddress, Owner: owner, Token: beanAddress}},
	})
	require.NoError(t, err)

	return &testAPI{
		handler: NewServer(n, nil, log.NewNopLogger()).Handler(),
		owner:   owner,
		alice:   alice,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) (int, Response, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var response Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response), rec.Body.String())

	result, _ := response.Result.(map[string]interface{})
	return rec.Code, response, result
}

func (a *testAPI) buyCoffee(t *testing.T, amount int64) string {
	a.nonce++
	from := crypto.PubkeyToAddress(a.alice.PubKey())
	tx, err := transaction.Encode(a.nonce, types.CurrentChainID, transaction.BuyCoffeeData{
		Contract: coffeeAddress,
		From:     from,
		Amount:   types.Int128FromInt64(amount),
	}, nil)
	require.NoError(t, err)
	require.NoError(t, tx.Sign(a.alice))

	raw, err := tx.Serialize()
	require.NoError(t, err)
	return "Mt" + hex.EncodeToString(raw)
}

func TestAPI_Status(t *testing.T) {
	a := newTestAPI(t)

	status, response, result := a.do(t, http.MethodGet, "/api/v1/status", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, code.OK, response.Code)
	assert.Equal(t, float64(1), result["height"])
	assert.Equal(t, float64(2), result["contracts"])
	assert.NotEmpty(t, result["version"])
}

func TestAPI_Contract(t *testing.T) {
	a := newTestAPI(t)

	status, response, _ := a.do(t, http.MethodGet, "/api/v1/contracts/"+coffeeAddress.String()+"/owner", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, a.owner.String(), response.Result)

	_, response, _ = a.do(t, http.MethodGet, "/api/v1/contracts/"+coffeeAddress.String()+"/token_address", nil)
	assert.Equal(t, beanAddress.String(), response.Result)

	_, response, _ = a.do(t, http.MethodGet, "/api/v1/contracts/"+coffeeAddress.String()+"/balance", nil)
	assert.Equal(t, "0", response.Result)

	status, response, _ = a.do(t, http.MethodGet, "/api/v1/contracts/"+coffeeAddress.String()+"/supporters", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, code.NoSupporters, response.Code)
}

func TestAPI_ContractErrors(t *testing.T) {
	a := newTestAPI(t)

	status, response, _ := a.do(t, http.MethodGet, "/api/v1/contracts/nothex/owner", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, code.DecodeError, response.Code)

	status, response, _ = a.do(t, http.MethodGet, "/api/v1/contracts/"+coffeeAddress.String()+"/withdraw", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, code.UnknownMethod, response.Code)

	status, response, _ = a.do(t, http.MethodGet, "/api/v1/contracts/"+beanAddress.String()+"/owner", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, code.ContractNotFound, response.Code)

	status, response, _ = a.do(t, http.MethodGet, "/api/v1/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, code.UnknownMethod, response.Code)
}

func TestAPI_SendTransaction(t *testing.T) {
	a := newTestAPI(t)
	alice := crypto.PubkeyToAddress(a.alice.PubKey())

	status, response, result := a.do(t, http.MethodPost, "/api/v1/send_transaction", SendTransactionRequest{Transaction: a.buyCoffee(t, 250)})
	require.Equal(t, http.StatusOK, status, response.Log)
	assert.Equal(t, code.OK, response.Code)
	assert.NotEmpty(t, result["hash"])
	tx, ok := result["transaction"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, alice.String(), tx["from"])

	_, response, _ = a.do(t, http.MethodGet, "/api/v1/contracts/"+coffeeAddress.String()+"/supporters", nil)
	supporters, ok := response.Result.([]interface{})
	require.True(t, ok)
	require.Len(t, supporters, 1)
	assert.Equal(t, alice.String(), supporters[0].(map[string]interface{})["address"])
	assert.Equal(t, "250", supporters[0].(map[string]interface{})["amount"])

	_, _, result = a.do(t, http.MethodGet, "/api/v1/tokens/"+beanAddress.String()+"/balances/"+coffeeAddress.String(), nil)
	assert.Equal(t, "250", result["balance"])
	assert.Equal(t, "BEAN", result["symbol"])

	_, _, result = a.do(t, http.MethodGet, "/api/v1/nonce/"+alice.String(), nil)
	assert.Equal(t, "1", result["nonce"])
	assert.Equal(t, "2", result["next"])
}

func TestAPI_SendTransactionFailures(t *testing.T) {
	a := newTestAPI(t)

	status, response, result := a.do(t, http.MethodPost, "/api/v1/send_transaction", SendTransactionRequest{Transaction: a.buyCoffee(t, -1)})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, code.InvalidAmount, response.Code)
	assert.NotEmpty(t, result["hash"])

	status, response, _ = a.do(t, http.MethodPost, "/api/v1/send_transaction", SendTransactionRequest{Transaction: "zz"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, code.DecodeError, response.Code)

	status, response, _ = a.do(t, http.MethodPost, "/api/v1/send_transaction", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, code.DecodeError, response.Code)

	status, response, _ = a.do(t, http.MethodPost, "/api/v1/send_transaction", SendTransactionRequest{Transaction: "0x0102"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, code.DecodeError, response.Code)
}

func TestAPI_CORS(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Origin", "https://coffee.example")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHostPort(t *testing.T) {
	addr, err := hostPort("tcp://0.0.0.0:8841")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8841", addr)

	addr, err = hostPort("127.0.0.1:8841")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8841", addr)

	_, err = hostPort("localhost")
	assert.Error(t, err)
}
