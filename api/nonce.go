package api

import (
	"net/http"
	"strconv"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/gin-gonic/gin"
)

type NonceResponse struct {
	Nonce string `json:"nonce"`
	Next  string `json:"next"`
}

// Nonce returns the last nonce used by an address and the one its next transaction needs.
func (s *Server) Nonce(c *gin.Context) {
	address, ok := s.address(c, "address")
	if !ok {
		return
	}

	nonce := s.node.Nonce(address)
	c.JSON(http.StatusOK, Response{
		Code: code.OK,
		Result: NonceResponse{
			Nonce: strconv.FormatUint(nonce, 10),
			Next:  strconv.FormatUint(nonce+1, 10),
		},
	})
}
