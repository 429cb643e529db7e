package transaction

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/MinterTeam/minter-coffee/core/host"
	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/MinterTeam/minter-coffee/crypto"
	"github.com/btcsuite/btcd/btcec"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

// TxType of transaction is determined by a single byte.
type TxType byte

func (t TxType) String() string {
	return "0x" + hex.EncodeToString([]byte{byte(t)})
}

func (t TxType) UInt64() uint64 {
	return uint64(t)
}

const (
	TypeDeploy    TxType = 0x01
	TypeBuyCoffee TxType = 0x02
	TypeWithdraw  TxType = 0x03
	TypeTransfer  TxType = 0x04
)

const maxSignatures = 8

var (
	ErrInvalidSig = errors.New("invalid transaction v, r, s values")
)

// Transaction is a signed request to run one invocation. Every signature authorizes its
// address, the first one pays the nonce.
type Transaction struct {
	Nonce      uint64
	ChainID    types.ChainID
	Type       TxType
	Data       RawData
	Payload    []byte
	Signatures []Signature

	decodedData Data
	signers     []types.Address
}

type Signature struct {
	V *big.Int
	R *big.Int
	S *big.Int
}

type RawData []byte

type Data interface {
	String() string
	TxType() TxType
	Run(tx *Transaction, inv *host.Invocation) error
}

func (tx *Transaction) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(tx)
}

func (tx *Transaction) String() string {
	sender, _ := tx.Sender()

	return fmt.Sprintf("TX nonce:%d from:%s payload:%s data:%s",
		tx.Nonce, sender.String(), tx.Payload, tx.decodedData.String())
}

func (tx *Transaction) Hash() types.Hash {
	return rlpHash([]interface{}{
		tx.Nonce,
		tx.ChainID,
		tx.Type,
		tx.Data,
		tx.Payload,
	})
}

// Sign appends a signature of prv. The first key signing a transaction becomes its sender.
func (tx *Transaction) Sign(prv *btcec.PrivateKey) error {
	h := tx.Hash()
	sig, err := crypto.Sign(h[:], prv)
	if err != nil {
		return err
	}

	tx.SetSignature(sig)

	return nil
}

// SetSignature appends a compact signature: V, then 32 bytes of R and S.
func (tx *Transaction) SetSignature(sig []byte) {
	tx.Signatures = append(tx.Signatures, Signature{
		V: new(big.Int).SetBytes(sig[:1]),
		R: new(big.Int).SetBytes(sig[1:33]),
		S: new(big.Int).SetBytes(sig[33:65]),
	})
	tx.signers = nil
}

// Signers recovers the addresses of all signatures in order.
func (tx *Transaction) Signers() ([]types.Address, error) {
	if tx.signers != nil {
		return tx.signers, nil
	}

	if len(tx.Signatures) == 0 {
		return nil, errors.New("transaction is not signed")
	}

	hash := tx.Hash()
	signers := make([]types.Address, 0, len(tx.Signatures))
	for _, sig := range tx.Signatures {
		signer, err := RecoverPlain(hash, sig.R, sig.S, sig.V)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}

	tx.signers = signers
	return signers, nil
}

func (tx *Transaction) Sender() (types.Address, error) {
	signers, err := tx.Signers()
	if err != nil {
		return types.Address{}, err
	}
	return signers[0], nil
}

func (tx *Transaction) MustSender() types.Address {
	sender, err := tx.Sender()
	if err != nil {
		panic(err)
	}
	return sender
}

func (tx *Transaction) SetDecodedData(data Data) {
	tx.decodedData = data
}

func (tx *Transaction) GetDecodedData() Data {
	return tx.decodedData
}

func RecoverPlain(sighash types.Hash, R, S, Vb *big.Int) (types.Address, error) {
	if Vb == nil || R == nil || S == nil || Vb.BitLen() > 8 || R.BitLen() > 256 || S.BitLen() > 256 {
		return types.Address{}, ErrInvalidSig
	}
	if R.Sign() == 0 || S.Sign() == 0 {
		return types.Address{}, ErrInvalidSig
	}

	r, s := R.Bytes(), S.Bytes()
	sig := make([]byte, crypto.SignatureLength)
	sig[0] = byte(Vb.Uint64())
	copy(sig[33-len(r):33], r)
	copy(sig[65-len(s):65], s)

	return crypto.Ecrecover(sighash[:], sig)
}

func rlpHash(x interface{}) (h types.Hash) {
	hw := sha3.NewLegacyKeccak256()
	err := rlp.Encode(hw, x)
	if err != nil {
		panic(err)
	}
	hw.Sum(h[:0])
	return h
}
