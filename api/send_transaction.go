package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
)

type SendTransactionRequest struct {
	Transaction string `json:"transaction" binding:"required"`
}

type SendTransactionResponse struct {
	Hash        string          `json:"hash"`
	Contract    string          `json:"contract,omitempty"`
	Transaction json.RawMessage `json:"transaction,omitempty"`
}

// SendTransaction runs a signed transaction given as hex, with an optional "Mt" or "0x" prefix.
func (s *Server) SendTransaction(c *gin.Context) {
	var req SendTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: code.DecodeError, Log: err.Error()})
		return
	}

	rawTx, err := decodeRawTx(req.Transaction)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: code.DecodeError, Log: err.Error()})
		return
	}

	result := s.node.DeliverTx(rawTx)
	if result.Code != code.OK {
		c.JSON(http.StatusBadRequest, Response{
			Code:   result.Code,
			Log:    result.Log,
			Result: failedTxResult(result.Hash, result.Info),
		})
		return
	}

	response := SendTransactionResponse{Hash: result.Hash.String()}
	if len(result.Data) == types.AddressLength {
		response.Contract = types.BytesToAddress(result.Data).String()
	}

	encoded, err := s.node.EncodeTx(rawTx, &result)
	if err != nil {
		s.logger.Error("Failed to encode delivered transaction", "hash", result.Hash, "err", err)
	} else {
		response.Transaction = encoded
	}

	c.JSON(http.StatusOK, Response{Code: code.OK, Result: response})
}

func failedTxResult(hash types.Hash, info string) interface{} {
	if hash == (types.Hash{}) {
		if info == "" {
			return nil
		}
		return json.RawMessage(info)
	}

	result := map[string]interface{}{"hash": hash.String()}
	if info != "" {
		result["info"] = json.RawMessage(info)
	}
	return result
}

func decodeRawTx(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.EqualFold(s[:2], "Mt") {
		s = s[2:]
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}
