package transaction

import (
	"fmt"

	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/host"
	"github.com/MinterTeam/minter-coffee/core/state"
	"github.com/MinterTeam/minter-coffee/core/token"
	"github.com/MinterTeam/minter-coffee/core/types"
)

// TransferData moves tokens of the sender.
type TransferData struct {
	Token  types.Address
	To     types.Address
	Amount types.Int128
}

func (data TransferData) TxType() TxType {
	return TypeTransfer
}

func (data TransferData) String() string {
	return fmt.Sprintf("TRANSFER token:%s to:%s amount:%s", data.Token, data.To, data.Amount)
}

func (data TransferData) Run(tx *Transaction, inv *host.Invocation) error {
	return inv.Call(data.Token, state.KindToken, func(e env.Env) error {
		return token.Transfer(e, tx.MustSender(), data.To, data.Amount.Big())
	})
}
