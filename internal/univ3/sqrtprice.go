package univ3

import (
	"fmt"
	"math"
	"math/big"

	"github.com/holiman/uint256"
)

// q96 is 2^96, the fixed-point scale of sqrtPriceX96.
var q96 = new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 96))

// SqrtPriceX96ToPrice converts a Q64.96 sqrt price to a human-readable
// token1/token0 price. decimalAdjustment is the tokens' decimal difference
// (e.g. 1e12 for USDC vs ETH); for the OP/WETH pool both tokens are
// 18 decimals and the adjustment is 1.
func SqrtPriceX96ToPrice(sqrtPriceX96 *uint256.Int, decimalAdjustment float64) (float64, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.IsZero() {
		return 0, fmt.Errorf("sqrtPriceX96 must be positive: %w", ErrInvalidInput)
	}
	if decimalAdjustment <= 0 {
		return 0, fmt.Errorf("decimal adjustment %v must be positive: %w", decimalAdjustment, ErrInvalidInput)
	}
	ratio := new(big.Float).SetInt(sqrtPriceX96.ToBig())
	ratio.Quo(ratio, q96)
	sqrtPrice, _ := ratio.Float64()
	return sqrtPrice * sqrtPrice / decimalAdjustment, nil
}

// PriceToSqrtPriceX96 converts a human-readable token1/token0 price to the
// Q64.96 integer representation.
func PriceToSqrtPriceX96(price float64, decimalAdjustment float64) (*uint256.Int, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, fmt.Errorf("price %v must be positive and finite: %w", price, ErrInvalidInput)
	}
	if decimalAdjustment <= 0 {
		return nil, fmt.Errorf("decimal adjustment %v must be positive: %w", decimalAdjustment, ErrInvalidInput)
	}
	sqrtPrice := new(big.Float).SetFloat64(math.Sqrt(price * decimalAdjustment))
	sqrtPrice.Mul(sqrtPrice, q96)
	scaled, _ := sqrtPrice.Int(nil)
	out, overflow := uint256.FromBig(scaled)
	if overflow {
		return nil, fmt.Errorf("price %v overflows uint160 sqrt ratio: %w", price, ErrInvalidInput)
	}
	return out, nil
}

// ParseSqrtPriceX96 converts a decimal string (the raw on-chain field) to
// a human-readable price.
func ParseSqrtPriceX96(s string, decimalAdjustment float64) (float64, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return 0, fmt.Errorf("parse sqrtPriceX96 %q: %w", s, ErrInvalidInput)
	}
	return SqrtPriceX96ToPrice(v, decimalAdjustment)
}
