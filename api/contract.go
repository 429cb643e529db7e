package api

import (
	"net/http"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/contract/coffee"
	"github.com/gin-gonic/gin"
)

var contractMethods = map[string]string{
	"owner":         coffee.MethodGetOwner,
	"token_address": coffee.MethodGetTokenAddress,
	"balance":       coffee.MethodGetBalance,
	"supporters":    coffee.MethodGetSupporters,
}

// Contract runs a read method of a coffee contract.
func (s *Server) Contract(c *gin.Context) {
	address, ok := s.address(c, "address")
	if !ok {
		return
	}

	method, ok := contractMethods[c.Param("method")]
	if !ok {
		c.JSON(http.StatusNotFound, Response{Code: code.UnknownMethod, Log: "unknown method " + c.Param("method")})
		return
	}

	result, err := s.node.QueryContract(address, method)
	if err != nil {
		s.fail(c, err)
		return
	}

	if stringer, ok := result.(interface{ String() string }); ok && method == coffee.MethodGetBalance {
		result = stringer.String()
	}

	c.JSON(http.StatusOK, Response{Code: code.OK, Result: result})
}
