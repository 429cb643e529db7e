package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	HashLength    = 32
	AddressLength = 20
	Int128Length  = 16

	addressPrefix = "Mx"
	hashPrefix    = "Mh"
)

var (
	hashT    = reflect.TypeOf(Hash{})
	addressT = reflect.TypeOf(Address{})
)

// Hash represents the 32 byte Keccak256 hash of arbitrary data.
type Hash [HashLength]byte

func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}
func HexToHash(s string) Hash { return BytesToHash(FromHex(s, hashPrefix)) }

func (h Hash) Bytes() []byte { return h[:] }
func (h Hash) Hex() string   { return hashPrefix + hex.EncodeToString(h[:]) }

// String implements the stringer interface and is used also by the logger when
// doing full logging into a file.
func (h Hash) String() string {
	return h.Hex()
}

// Sets the hash to the value of b. If b is larger than len(h), 'b' will be cropped (from the left).
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}

	copy(h[HashLength-len(b):], b)
}

// MarshalText returns the hex representation of h.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText parses a hash in hex syntax.
func (h *Hash) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Hash", swapPrefix(input, hashPrefix), h[:])
}

// UnmarshalJSON parses a hash in hex syntax.
func (h *Hash) UnmarshalJSON(input []byte) error {
	return hexutil.UnmarshalFixedJSON(hashT, swapPrefix(input, hashPrefix), h[:])
}

/////////// Address

type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}
func HexToAddress(s string) Address { return BytesToAddress(FromHex(s, addressPrefix)) }

// IsHexAddress verifies whether a string can represent a valid hex-encoded
// address or not.
func IsHexAddress(s string) bool {
	if hasHexPrefix(s, addressPrefix) {
		s = s[2:]
	}
	return len(s) == 2*AddressLength && isHex(s)
}

func (a Address) Bytes() []byte { return a[:] }
func (a Address) IsZero() bool  { return a == Address{} }

func (a Address) Hex() string {
	return addressPrefix + hex.EncodeToString(a[:])
}

// String implements the stringer interface and is used also by the logger.
func (a Address) String() string {
	return a.Hex()
}

// Sets the address to the value of b. If b is larger than len(a) it will be cropped from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText parses an address in Mx hex syntax.
func (a *Address) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Address", swapPrefix(input, addressPrefix), a[:])
}

// UnmarshalJSON parses an address in Mx hex syntax.
func (a *Address) UnmarshalJSON(input []byte) error {
	return hexutil.UnmarshalFixedJSON(addressT, swapPrefix(input, addressPrefix), a[:])
}

func (a Address) Compare(a2 Address) int {
	return bytes.Compare(a.Bytes(), a2.Bytes())
}

/////////// Chain

// ChainID is ID of the network (1 - mainnet, 2 - testnet)
type ChainID byte

const (
	// ChainMainnet is mainnet chain ID of the network
	ChainMainnet ChainID = 0x01
	// ChainTestnet is testnet chain ID of the network
	ChainTestnet ChainID = 0x02
)

// CurrentChainID is current ChainID of the network
var CurrentChainID = ChainMainnet

/////////// Hex helpers

// FromHex returns the bytes represented by the hexadecimal string s.
// s may be prefixed with the given prefix.
func FromHex(s string, prefix string) []byte {
	if hasHexPrefix(s, prefix) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	h, _ := hex.DecodeString(s)
	return h
}

func hasHexPrefix(str, prefix string) bool {
	return len(str) >= 2 && strings.EqualFold(str[:2], prefix)
}

func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isHex(str string) bool {
	if len(str)%2 != 0 {
		return false
	}
	for _, c := range []byte(str) {
		if !isHexCharacter(c) {
			return false
		}
	}
	return true
}

// swapPrefix rewrites a Minter style prefix into the 0x prefix hexutil expects.
// Quoted JSON strings are handled as well.
func swapPrefix(input []byte, prefix string) []byte {
	quoted := len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"'
	body := input
	if quoted {
		body = input[1 : len(input)-1]
	}
	if !hasHexPrefix(string(body), prefix) {
		return input
	}

	out := make([]byte, 0, len(input))
	if quoted {
		out = append(out, '"')
	}
	out = append(out, '0', 'x')
	out = append(out, body[2:]...)
	if quoted {
		out = append(out, '"')
	}
	return out
}

func (a Address) Format(s fmt.State, c rune) {
	switch c {
	case 'v', 's':
		fmt.Fprint(s, a.Hex())
	default:
		fmt.Fprintf(s, "%"+string(c), a[:])
	}
}
