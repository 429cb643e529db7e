package transaction

import (
	"errors"
	"fmt"

	"github.com/MinterTeam/minter-coffee/core/code"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

func GetData(txType TxType) (Data, bool) {
	switch txType {
	case TypeDeploy:
		return &DeployData{}, true
	case TypeBuyCoffee:
		return &BuyCoffeeData{}, true
	case TypeWithdraw:
		return &WithdrawData{}, true
	case TypeTransfer:
		return &TransferData{}, true
	default:
		return nil, false
	}
}

func (e *Executor) DecodeFromBytes(buf []byte) (*Transaction, error) {
	var tx Transaction
	if err := rlp.DecodeBytes(buf, &tx); err != nil {
		return nil, err
	}

	if tx.Data == nil {
		return nil, errors.New("incorrect tx data")
	}

	d, ok := e.decodeTxFunc(tx.Type)
	if !ok {
		return nil, code.NewError(code.UnknownTxType,
			fmt.Sprintf("tx type %s is not registered", tx.Type),
			code.NewUnknownTxType(tx.Type.String()))
	}

	if err := rlp.DecodeBytes(tx.Data, d); err != nil {
		return nil, err
	}

	tx.SetDecodedData(d)

	return &tx, nil
}

// Encode builds an unsigned transaction around data.
func Encode(nonce uint64, chainID types.ChainID, data Data, payload []byte) (*Transaction, error) {
	raw, err := rlp.EncodeToBytes(data)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		Nonce:   nonce,
		ChainID: chainID,
		Type:    data.TxType(),
		Data:    raw,
		Payload: payload,
	}
	tx.SetDecodedData(data)

	return tx, nil
}
