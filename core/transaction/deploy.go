package transaction

import (
	"fmt"

	"github.com/MinterTeam/minter-coffee/core/contract/coffee"
	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/host"
	"github.com/MinterTeam/minter-coffee/core/state"
	"github.com/MinterTeam/minter-coffee/core/state/accounts"
	"github.com/MinterTeam/minter-coffee/core/types"
)

// DeployData creates a coffee contract. Its address is derived from the sender and nonce.
type DeployData struct {
	Owner types.Address
	Token types.Address
}

func (data DeployData) TxType() TxType {
	return TypeDeploy
}

func (data DeployData) String() string {
	return fmt.Sprintf("DEPLOY owner:%s token:%s", data.Owner, data.Token)
}

func (data DeployData) Run(tx *Transaction, inv *host.Invocation) error {
	address := accounts.CreateContractAddress(tx.MustSender(), tx.Nonce)

	return inv.Deploy(address, state.KindCoffee, func(e env.Env) error {
		return coffee.New(e).Construct(data.Owner, data.Token)
	})
}
