package helpers

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/MinterTeam/minter-coffee/core/types"
)

// Decimals is the number of fractional digits wallets show for token amounts.
const Decimals = 18

var unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// CoinsToUnits converts whole coins to base units (multiplies input by 1e18)
func CoinsToUnits(coins *big.Int) *big.Int {
	return new(big.Int).Mul(coins, unit)
}

// UnitsToCoins formats base units as a decimal coin amount without trailing zeros.
func UnitsToCoins(units *big.Int) string {
	abs := new(big.Int).Abs(units)
	quo, rem := new(big.Int).QuoRem(abs, unit, new(big.Int))

	sign := ""
	if units.Sign() < 0 {
		sign = "-"
	}

	if rem.Sign() == 0 {
		return sign + quo.String()
	}

	digits := rem.String()
	frac := strings.TrimRight(strings.Repeat("0", Decimals-len(digits))+digits, "0")
	return sign + quo.String() + "." + frac
}

// StringToBigInt converts string to BigInt, panics on empty strings and errors
func StringToBigInt(s string) *big.Int {
	b, err := stringToBigInt(s)
	if err != nil {
		panic(err)
	}

	return b
}

func stringToBigInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("string is empty")
	}

	b, success := big.NewInt(0).SetString(s, 10)
	if !success {
		return nil, fmt.Errorf("cannot decode %s into big.Int", s)
	}

	return b, nil
}

// ParseAmount parses a positive decimal amount that fits into a signed 128-bit integer.
func ParseAmount(s string) (types.Int128, error) {
	b, err := stringToBigInt(s)
	if err != nil {
		return types.Int128{}, err
	}
	if b.Sign() <= 0 {
		return types.Int128{}, fmt.Errorf("amount %s is not positive", s)
	}

	return types.NewInt128(b)
}

// IsValidBigInt verifies that string is a valid non-negative int
func IsValidBigInt(s string) bool {
	b, err := stringToBigInt(s)
	if err != nil {
		return false
	}

	return b.Sign() >= 0
}
