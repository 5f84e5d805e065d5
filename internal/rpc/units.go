package rpc

import (
	"fmt"
	"math/big"
	"strings"
)

var weiPerMars = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// WeiToMars renders a hex-encoded wei quantity as a human decimal string
// with at most six fractional digits and no trailing zeros, using
// arbitrary-precision integer math so large balances never lose precision
// to a float64 round-trip.
func WeiToMars(hexWei string) (string, error) {
	hexWei = strings.TrimPrefix(hexWei, "0x")
	if hexWei == "" {
		hexWei = "0"
	}

	wei, ok := new(big.Int).SetString(hexWei, 16)
	if !ok {
		return "", fmt.Errorf("invalid hex wei value %q", hexWei)
	}

	whole := new(big.Int)
	rem := new(big.Int)
	whole.DivMod(wei, weiPerMars, rem)

	// Scale the remainder to six fractional digits, rounding toward zero,
	// mirroring how geth itself truncates rather than rounds.
	const fracDigits = 6
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(18-fracDigits), nil)
	frac := new(big.Int).Div(rem, scale)

	fracStr := fmt.Sprintf("%0*d", fracDigits, frac)
	fracStr = strings.TrimRight(fracStr, "0")

	if fracStr == "" {
		return whole.String(), nil
	}
	return whole.String() + "." + fracStr, nil
}
