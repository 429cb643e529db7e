package api

import (
	"net/http"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/gin-gonic/gin"
)

type BalanceResponse struct {
	Token   string `json:"token"`
	Symbol  string `json:"symbol"`
	Holder  string `json:"holder"`
	Balance string `json:"balance"`
}

func (s *Server) Balance(c *gin.Context) {
	token, ok := s.address(c, "token")
	if !ok {
		return
	}
	holder, ok := s.address(c, "holder")
	if !ok {
		return
	}

	balance, err := s.node.TokenBalance(token, holder)
	if err != nil {
		s.fail(c, err)
		return
	}

	symbol, err := s.node.TokenSymbol(token)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Code: code.OK,
		Result: BalanceResponse{
			Token:   token.String(),
			Symbol:  symbol,
			Holder:  holder.String(),
			Balance: balance.String(),
		},
	})
}
