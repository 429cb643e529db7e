package transaction

import (
	"fmt"

	"github.com/MinterTeam/minter-coffee/core/contract/coffee"
	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/host"
	"github.com/MinterTeam/minter-coffee/core/state"
	"github.com/MinterTeam/minter-coffee/core/types"
)

// BuyCoffeeData contributes Amount of the contract's token from From. From has to sign
// the transaction, it does not have to be the sender.
type BuyCoffeeData struct {
	Contract types.Address
	From     types.Address
	Amount   types.Int128
}

func (data BuyCoffeeData) TxType() TxType {
	return TypeBuyCoffee
}

func (data BuyCoffeeData) String() string {
	return fmt.Sprintf("BUY COFFEE contract:%s from:%s amount:%s", data.Contract, data.From, data.Amount)
}

func (data BuyCoffeeData) Run(tx *Transaction, inv *host.Invocation) error {
	return inv.Call(data.Contract, state.KindCoffee, func(e env.Env) error {
		return coffee.New(e).Contribute(data.From, data.Amount)
	})
}
