package univ3

import (
	"fmt"
	"math"
)

// Price convention throughout: OP per ETH (token1/token0 for the OP/WETH
// pool, where token0 = WETH and token1 = OP). Within a range [low, high] a
// position of liquidity L holds
//
//	eth = L * (1/sqrt(p) - 1/sqrt(high))
//	op  = L * (sqrt(p) - sqrt(low))
//
// collapsing to one token when the price sits outside the range.

// PriceRegion tags where the current price sits relative to a range.
type PriceRegion int

const (
	// BelowRange means price <= low; the position is all ETH.
	BelowRange PriceRegion = iota + 1
	// InRange means low < price < high; the position holds both tokens.
	InRange
	// AboveRange means price >= high; the position is all OP.
	AboveRange
)

// Token selects which side of an OP/ETH pair an amount refers to.
type Token int

const (
	TokenETH Token = iota + 1
	TokenOP
)

// Bound selects which price bound of a range is fixed.
type Bound int

const (
	LowerBound Bound = iota + 1
	UpperBound
)

func validateRange(price, low, high float64) error {
	if low >= high {
		return fmt.Errorf("low %v >= high %v: %w", low, high, ErrInvalidRange)
	}
	if low <= 0 {
		return fmt.Errorf("low bound %v must be positive: %w", low, ErrInvalidRange)
	}
	if price <= 0 || math.IsNaN(price) {
		return fmt.Errorf("current price %v must be positive: %w", price, ErrInvalidRange)
	}
	return nil
}

// RegionFor classifies the current price against a range.
func RegionFor(price, low, high float64) (PriceRegion, error) {
	if err := validateRange(price, low, high); err != nil {
		return 0, err
	}
	switch {
	case price <= low:
		return BelowRange, nil
	case price >= high:
		return AboveRange, nil
	default:
		return InRange, nil
	}
}

// LiquidityForAmounts returns the position liquidity mintable from the given
// token amounts over [low, high] at the current price. In range, the binding
// (smaller-implied) side determines L.
func LiquidityForAmounts(amountETH, amountOP, price, low, high float64) (float64, error) {
	region, err := RegionFor(price, low, high)
	if err != nil {
		return 0, err
	}
	if amountETH < 0 || amountOP < 0 {
		return 0, fmt.Errorf("token amounts must be non-negative: %w", ErrInvalidInput)
	}
	sqrtP := math.Sqrt(price)
	sqrtLow := math.Sqrt(low)
	sqrtHigh := math.Sqrt(high)

	switch region {
	case BelowRange:
		return amountETH / (1/sqrtLow - 1/sqrtHigh), nil
	case AboveRange:
		return amountOP / (sqrtHigh - sqrtLow), nil
	default:
		lETH := amountETH / (1/sqrtP - 1/sqrtHigh)
		lOP := amountOP / (sqrtP - sqrtLow)
		return math.Min(lETH, lOP), nil
	}
}

// AmountsForLiquidity is the inverse of LiquidityForAmounts: the token
// amounts a position of liquidity l holds at the current price. The token
// not required in the current region comes back as zero.
func AmountsForLiquidity(l, price, low, high float64) (amountETH, amountOP float64, err error) {
	region, err := RegionFor(price, low, high)
	if err != nil {
		return 0, 0, err
	}
	if l < 0 {
		return 0, 0, fmt.Errorf("liquidity %v must be non-negative: %w", l, ErrInvalidInput)
	}
	sqrtP := math.Sqrt(price)
	sqrtLow := math.Sqrt(low)
	sqrtHigh := math.Sqrt(high)

	switch region {
	case BelowRange:
		return l * (1/sqrtLow - 1/sqrtHigh), 0, nil
	case AboveRange:
		return 0, l * (sqrtHigh - sqrtLow), nil
	default:
		return l * (1/sqrtP - 1/sqrtHigh), l * (sqrtP - sqrtLow), nil
	}
}

// MatchTokensToRange solves for the complementary token amount that fully
// consumes the known amount in a balanced position over [low, high].
// knownToken must name exactly one side; anything else is underdetermined.
func MatchTokensToRange(price, low, high, known float64, knownToken Token) (amountETH, amountOP float64, err error) {
	region, err := RegionFor(price, low, high)
	if err != nil {
		return 0, 0, err
	}
	if knownToken != TokenETH && knownToken != TokenOP {
		return 0, 0, fmt.Errorf("known token side not specified: %w", ErrUnderdetermined)
	}
	if known < 0 {
		return 0, 0, fmt.Errorf("known amount %v must be non-negative: %w", known, ErrInvalidInput)
	}

	switch region {
	case BelowRange:
		if knownToken != TokenETH {
			return 0, 0, fmt.Errorf("position below range takes only ETH: %w", ErrInvalidInput)
		}
		return known, 0, nil
	case AboveRange:
		if knownToken != TokenOP {
			return 0, 0, fmt.Errorf("position above range takes only OP: %w", ErrInvalidInput)
		}
		return 0, known, nil
	}

	sqrtP := math.Sqrt(price)
	sqrtLow := math.Sqrt(low)
	sqrtHigh := math.Sqrt(high)
	// In range the deposit ratio is fixed by the range geometry.
	ratio := (1/sqrtP - 1/sqrtHigh) / (sqrtP - sqrtLow) // ETH per OP

	if knownToken == TokenETH {
		return known, known / ratio, nil
	}
	return known * ratio, known, nil
}

// PriceAllTokens solves for the free price bound such that a position takes
// both supplied amounts in full. The fixed bound is named by boundIs; the
// returned value is the other bound.
func PriceAllTokens(price, amountETH, amountOP, bound float64, boundIs Bound) (float64, error) {
	if price <= 0 || bound <= 0 {
		return 0, fmt.Errorf("price %v and bound %v must be positive: %w", price, bound, ErrInvalidRange)
	}
	if amountETH <= 0 || amountOP <= 0 {
		return 0, fmt.Errorf("both token amounts must be positive: %w", ErrInvalidInput)
	}
	sqrtP := math.Sqrt(price)
	r := amountETH / amountOP

	switch boundIs {
	case LowerBound:
		if price <= bound {
			return 0, fmt.Errorf("current price %v must sit above the lower bound %v: %w", price, bound, ErrInvalidRange)
		}
		sqrtLow := math.Sqrt(bound)
		// r*(sqrtP - sqrtLow) = 1/sqrtP - 1/sqrtHigh
		invSqrtHigh := 1/sqrtP - r*(sqrtP-sqrtLow)
		if invSqrtHigh <= 0 {
			return 0, fmt.Errorf("no finite upper bound consumes both amounts: %w", ErrInvalidRange)
		}
		sqrtHigh := 1 / invSqrtHigh
		return sqrtHigh * sqrtHigh, nil
	case UpperBound:
		if price >= bound {
			return 0, fmt.Errorf("current price %v must sit below the upper bound %v: %w", price, bound, ErrInvalidRange)
		}
		sqrtHigh := math.Sqrt(bound)
		sqrtLow := sqrtP - (1/sqrtP-1/sqrtHigh)/r
		if sqrtLow <= 0 {
			return 0, fmt.Errorf("no positive lower bound consumes both amounts: %w", ErrInvalidRange)
		}
		return sqrtLow * sqrtLow, nil
	default:
		return 0, fmt.Errorf("fixed bound side not specified: %w", ErrUnderdetermined)
	}
}
