package types

import (
	"errors"
	"math/big"
	"strconv"
)

// Int128 is a signed 128-bit integer stored as 16 bytes of big-endian two's complement.
type Int128 [Int128Length]byte

var ErrInt128Range = errors.New("value does not fit into a signed 128-bit integer")

var (
	twoPow128 = new(big.Int).Lsh(big.NewInt(1), 128)
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// MaxInt128 returns 2^127 - 1
func MaxInt128() *big.Int { return new(big.Int).Set(maxInt128) }

// MinInt128 returns -2^127
func MinInt128() *big.Int { return new(big.Int).Set(minInt128) }

// IsInt128 reports whether v is representable as Int128.
func IsInt128(v *big.Int) bool {
	return v != nil && v.Cmp(minInt128) >= 0 && v.Cmp(maxInt128) <= 0
}

func NewInt128(v *big.Int) (Int128, error) {
	var i Int128
	if !IsInt128(v) {
		return i, ErrInt128Range
	}

	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, twoPow128)
	}
	u.FillBytes(i[:])

	return i, nil
}

// MustInt128 is NewInt128 that panics on out of range values.
func MustInt128(v *big.Int) Int128 {
	i, err := NewInt128(v)
	if err != nil {
		panic(err)
	}
	return i
}

func Int128FromInt64(v int64) Int128 {
	return MustInt128(big.NewInt(v))
}

func (i Int128) Big() *big.Int {
	v := new(big.Int).SetBytes(i[:])
	if i[0]&0x80 != 0 {
		v.Sub(v, twoPow128)
	}
	return v
}

func (i Int128) Sign() int {
	return i.Big().Sign()
}

func (i Int128) String() string {
	return i.Big().String()
}

// MarshalJSON encodes the value as a quoted decimal string, JSON numbers can't hold 128 bits.
func (i Int128) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(i.String())), nil
}

func (i *Int128) UnmarshalJSON(input []byte) error {
	s := string(input)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return errors.New("invalid 128-bit integer " + strconv.Quote(s))
	}

	parsed, err := NewInt128(v)
	if err != nil {
		return err
	}
	*i = parsed

	return nil
}
