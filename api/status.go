package api

import (
	"net/http"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/node"
	"github.com/MinterTeam/minter-coffee/version"
	"github.com/gin-gonic/gin"
)

type StatusResponse struct {
	node.Status
	Version string `json:"version"`
}

func (s *Server) Status(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Code: code.OK,
		Result: StatusResponse{
			Status:  s.node.Status(),
			Version: version.Version,
		},
	})
}
