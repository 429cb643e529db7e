package coffee

import (
	"math/big"

	"github.com/MinterTeam/minter-coffee/core/env"
	"github.com/MinterTeam/minter-coffee/core/types"
)

// gateway is the only path from the contract to its token contract.
type gateway struct {
	env   env.Env
	token types.Address
}

// queryBalance collapses every failure of the token contract into ErrFailedToGetBalance.
func (g gateway) queryBalance(holder types.Address) (*big.Int, error) {
	balance, err := g.env.Token(g.token).Balance(holder)
	if err != nil {
		g.env.Logger().Debug("Token balance query failed", "token", g.token, "holder", holder, "err", err)
		return nil, ErrFailedToGetBalance
	}
	if !types.IsInt128(balance) {
		g.env.Logger().Debug("Token balance out of range", "token", g.token, "holder", holder, "balance", balance)
		return nil, ErrFailedToGetBalance
	}

	return balance, nil
}

func (g gateway) transfer(from, to types.Address, amount *big.Int) error {
	return g.env.Token(g.token).Transfer(from, to, amount)
}
