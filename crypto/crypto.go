package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/MinterTeam/minter-coffee/core/types"
	"github.com/btcsuite/btcd/btcec"
	"golang.org/x/crypto/sha3"
)

const (
	// SignatureLength is the length of a recoverable signature: 1 byte of V followed by R and S.
	SignatureLength = 1 + 32 + 32

	privateKeyLength = 32
	recoveryOffset   = 27
)

var errInvalidSignatureLength = errors.New("invalid signature length")

// Keccak256 calculates and returns the legacy Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

func GenerateKey() (*btcec.PrivateKey, error) {
	return btcec.NewPrivateKey(btcec.S256())
}

// ToECDSA restores a private key from its 32 raw bytes.
func ToECDSA(d []byte) (*btcec.PrivateKey, error) {
	if len(d) != privateKeyLength {
		return nil, fmt.Errorf("invalid length, need %d bytes", privateKeyLength)
	}
	prv, _ := btcec.PrivKeyFromBytes(btcec.S256(), d)
	return prv, nil
}

// HexToECDSA parses a hex encoded private key.
func HexToECDSA(hexkey string) (*btcec.PrivateKey, error) {
	b, err := hex.DecodeString(hexkey)
	if err != nil {
		return nil, errors.New("invalid hex string")
	}
	return ToECDSA(b)
}

func FromECDSA(prv *btcec.PrivateKey) []byte {
	return prv.Serialize()
}

func PubkeyToAddress(pub *btcec.PublicKey) types.Address {
	return types.BytesToAddress(Keccak256(pub.SerializeUncompressed()[1:])[12:])
}

// Sign produces a recoverable signature of a 32 byte hash.
func Sign(hash []byte, prv *btcec.PrivateKey) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash is required to be exactly 32 bytes (%d)", len(hash))
	}

	return btcec.SignCompact(btcec.S256(), prv, hash, false)
}

// Ecrecover returns the address of the key which produced sig over hash.
func Ecrecover(hash, sig []byte) (types.Address, error) {
	if len(sig) != SignatureLength {
		return types.Address{}, errInvalidSignatureLength
	}
	if sig[0] != recoveryOffset && sig[0] != recoveryOffset+1 {
		return types.Address{}, errors.New("invalid signature recovery id")
	}

	pub, _, err := btcec.RecoverCompact(btcec.S256(), sig, hash)
	if err != nil {
		return types.Address{}, err
	}

	return PubkeyToAddress(pub), nil
}
