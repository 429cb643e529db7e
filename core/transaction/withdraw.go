package transaction

import (
	"fmt"

	"github.com/MinterTeam/minter-coffee/core/contract/coffee"
	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/host"
	"github.com/MinterTeam/minter-coffee/core/state"
	"github.com/MinterTeam/minter-coffee/core/types"
)

type WithdrawData struct {
	Contract types.Address
}

func (data WithdrawData) TxType() TxType {
	return TypeWithdraw
}

func (data WithdrawData) String() string {
	return fmt.Sprintf("WITHDRAW contract:%s", data.Contract)
}

func (data WithdrawData) Run(tx *Transaction, inv *host.Invocation) error {
	return inv.Call(data.Contract, state.KindCoffee, func(e env.Env) error {
		return coffee.New(e).Withdraw()
	})
}
