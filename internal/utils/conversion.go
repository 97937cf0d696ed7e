/*
This file contains common utility functions for converting raw on-chain token
amounts to human units, with finite-value guarantees for everything that feeds
the APR and liquidity math.
*/

package utils

import (
	"errors"
	"fmt"
	"math"

	sdkmath "cosmossdk.io/math"
)

// Error definitions for zero-tolerance error handling
var (
	ErrInvalidDecimals = errors.New("token decimals are invalid")
	ErrAmountNil       = errors.New("amount is nil")
	ErrAmountNegative  = errors.New("amount is negative")
	ErrNotFinite       = errors.New("value is not finite")
	ErrConversionFailed = errors.New("conversion failed")
)

// RawToDec converts a raw on-chain amount to a human-unit decimal using the
// token's precision.
func RawToDec(amount sdkmath.Int, decimals int) (sdkmath.LegacyDec, error) {
	if decimals < 0 || decimals > 18 {
		return sdkmath.LegacyZeroDec(), fmt.Errorf("%w: %d (must be between 0 and 18)", ErrInvalidDecimals, decimals)
	}
	if amount.IsNil() {
		return sdkmath.LegacyZeroDec(), ErrAmountNil
	}
	if amount.IsNegative() {
		return sdkmath.LegacyZeroDec(), ErrAmountNegative
	}

	factor := sdkmath.LegacyNewDec(1)
	for i := 0; i < decimals; i++ {
		factor = factor.Mul(sdkmath.LegacyNewDec(10))
	}

	return sdkmath.LegacyNewDecFromInt(amount).Quo(factor), nil
}

// RawToFloat64 converts a raw on-chain amount to a human-unit float64. The
// result is guaranteed finite and non-negative.
func RawToFloat64(amount sdkmath.Int, decimals int) (float64, error) {
	dec, err := RawToDec(amount, decimals)
	if err != nil {
		return 0, err
	}

	result, err := dec.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: result is %f", ErrNotFinite, result)
	}

	return result, nil
}

// DecToFloat64 converts a decimal to float64, rejecting NaN and infinities.
func DecToFloat64(dec sdkmath.LegacyDec) (float64, error) {
	if dec.IsNil() {
		return 0, ErrAmountNil
	}
	result, err := dec.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: result is %f", ErrNotFinite, result)
	}
	return result, nil
}
