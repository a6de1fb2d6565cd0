package assetswap

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const MaxDecimals = 18

// ToBaseUnits converts a human-readable decimal amount ("1.5") into
// the token's smallest unit as a decimal string, exactly.
func ToBaseUnits(amount string, decimals int) (string, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return "", &InvalidParamError{Message: fmt.Sprintf("decimals must be between 0 and %d, got: %d", MaxDecimals, decimals)}
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", &InvalidParamError{Message: fmt.Sprintf("invalid amount: %s", amount)}
	}
	if d.Sign() < 0 {
		return "", &InvalidParamError{Message: fmt.Sprintf("amount must be non-negative, got: %s", amount)}
	}

	shifted := d.Shift(int32(decimals))
	if !shifted.Equal(shifted.Truncate(0)) {
		return "", &InvalidParamError{Message: fmt.Sprintf("amount %s has more than %d decimal places", amount, decimals)}
	}

	return shifted.String(), nil
}

// FromBaseUnits converts a base-unit amount back into a human-readable
// decimal string.
func FromBaseUnits(amount string, decimals int) (string, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return "", &InvalidParamError{Message: fmt.Sprintf("decimals must be between 0 and %d, got: %d", MaxDecimals, decimals)}
	}

	v, ok := new(big.Int).SetString(amount, 10)
	if !ok || v.Sign() < 0 {
		return "", &InvalidParamError{Message: fmt.Sprintf("invalid base-unit amount: %s", amount)}
	}

	return decimal.NewFromBigInt(v, -int32(decimals)).String(), nil
}
