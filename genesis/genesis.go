package genesis

import (
	"encoding/json"
	"math/big"
	"os"

	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/helpers"
	"github.com/pkg/errors"
	tmos "github.com/tendermint/tendermint/libs/os"
)

// Well-known addresses of the test network.
var (
	TestnetToken    = types.HexToAddress("Mx00000000000000000000000000000000000000b1")
	TestnetContract = types.HexToAddress("Mx00000000000000000000000000000000000000cc")
	TestnetOwner    = types.HexToAddress("Mxee81347211c72524338f9680072af90744333146")
	TestnetFaucet   = types.HexToAddress("Mxfe60014a6e9ac91618f5d1cab3fd58cded61ee99")
)

// GetTestnetGenesis returns the initial state of the test network: the BEAN token and
// one coffee contract owned by TestnetOwner.
func GetTestnetGenesis() types.AppState {
	return types.AppState{
		Tokens: []types.Token{
			{
				Address: TestnetToken,
				Symbol:  "BEAN",
				Balances: []types.Balance{
					{Address: TestnetOwner, Value: helpers.CoinsToUnits(big.NewInt(1000000)).String()},
					{Address: TestnetFaucet, Value: helpers.CoinsToUnits(big.NewInt(1000000000)).String()},
				},
			},
		},
		Contracts: []types.Contract{
			{
				Address: TestnetContract,
				Owner:   TestnetOwner,
				Token:   TestnetToken,
			},
		},
	}
}

// Load reads and verifies the genesis document at path.
func Load(path string) (types.AppState, error) {
	var appState types.AppState

	data, err := os.ReadFile(path)
	if err != nil {
		return appState, errors.Wrap(err, "read genesis")
	}

	if err := json.Unmarshal(data, &appState); err != nil {
		return appState, errors.Wrapf(err, "decode genesis %s", path)
	}

	if err := appState.Verify(); err != nil {
		return appState, errors.Wrapf(err, "verify genesis %s", path)
	}

	return appState, nil
}

// Save writes appState to path as indented JSON.
func Save(path string, appState types.AppState) error {
	data, err := json.MarshalIndent(appState, "", "  ")
	if err != nil {
		return err
	}

	return tmos.WriteFile(path, data, 0644)
}
