package univ3

import (
	"errors"
	"math"
	"testing"
)

func TestRegionFor(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  PriceRegion
	}{
		{"below", 40, BelowRange},
		{"at lower edge", 50, BelowRange},
		{"in range", 100, InRange},
		{"at upper edge", 200, AboveRange},
		{"above", 300, AboveRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RegionFor(tt.price, 50, 200)
			if err != nil {
				t.Fatalf("RegionFor failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("RegionFor(%v) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}

func TestRegionForInvalidRange(t *testing.T) {
	if _, err := RegionFor(100, 200, 50); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("inverted range error = %v, want ErrInvalidRange", err)
	}
	if _, err := RegionFor(100, 50, 50); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("degenerate range error = %v, want ErrInvalidRange", err)
	}
	if _, err := RegionFor(-5, 50, 200); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("negative price error = %v, want ErrInvalidRange", err)
	}
}

// No amount is manufactured: the amounts implied by the minted liquidity are
// component-wise <= the inputs, and equal for the binding side.
func TestLiquidityAmountsInvariant(t *testing.T) {
	price, low, high := 10000.0, 5000.0, 20000.0
	eth, op := 1.0, 3000.0 // OP side is binding at this price

	l, err := LiquidityForAmounts(eth, op, price, low, high)
	if err != nil {
		t.Fatalf("LiquidityForAmounts failed: %v", err)
	}
	gotETH, gotOP, err := AmountsForLiquidity(l, price, low, high)
	if err != nil {
		t.Fatalf("AmountsForLiquidity failed: %v", err)
	}
	if gotETH > eth*(1+1e-9) || gotOP > op*(1+1e-9) {
		t.Fatalf("amounts manufactured: got (%v, %v) from (%v, %v)", gotETH, gotOP, eth, op)
	}

	// A matched deposit makes both sides binding and recovers both exactly.
	matchedETH, matchedOP, err := MatchTokensToRange(price, low, high, eth, TokenETH)
	if err != nil {
		t.Fatalf("MatchTokensToRange failed: %v", err)
	}
	l, err = LiquidityForAmounts(matchedETH, matchedOP, price, low, high)
	if err != nil {
		t.Fatalf("LiquidityForAmounts failed: %v", err)
	}
	gotETH, gotOP, err = AmountsForLiquidity(l, price, low, high)
	if err != nil {
		t.Fatalf("AmountsForLiquidity failed: %v", err)
	}
	if rel := math.Abs(gotETH-matchedETH) / matchedETH; rel > 1e-9 {
		t.Fatalf("binding ETH not recovered: %v vs %v", gotETH, matchedETH)
	}
	if rel := math.Abs(gotOP-matchedOP) / matchedOP; rel > 1e-9 {
		t.Fatalf("binding OP not recovered: %v vs %v", gotOP, matchedOP)
	}
}

func TestAmountsForLiquidityOutOfRange(t *testing.T) {
	// Below the range the position holds only ETH; above it only OP.
	eth, op, err := AmountsForLiquidity(1e6, 40, 50, 200)
	if err != nil {
		t.Fatalf("AmountsForLiquidity below range failed: %v", err)
	}
	if op != 0 || eth <= 0 {
		t.Fatalf("below range amounts = (%v, %v), want all ETH", eth, op)
	}
	eth, op, err = AmountsForLiquidity(1e6, 300, 50, 200)
	if err != nil {
		t.Fatalf("AmountsForLiquidity above range failed: %v", err)
	}
	if eth != 0 || op <= 0 {
		t.Fatalf("above range amounts = (%v, %v), want all OP", eth, op)
	}
}

func TestMatchTokensToRangeReciprocal(t *testing.T) {
	price, low, high := 10000.0, 5000.0, 20000.0
	eth, op, err := MatchTokensToRange(price, low, high, 2.5, TokenETH)
	if err != nil {
		t.Fatalf("MatchTokensToRange(ETH) failed: %v", err)
	}
	backETH, backOP, err := MatchTokensToRange(price, low, high, op, TokenOP)
	if err != nil {
		t.Fatalf("MatchTokensToRange(OP) failed: %v", err)
	}
	if rel := math.Abs(backETH-eth) / eth; rel > 1e-9 {
		t.Fatalf("reciprocal match drifted: %v vs %v", backETH, eth)
	}
	if backOP != op {
		t.Fatalf("known OP side changed: %v vs %v", backOP, op)
	}
}

func TestMatchTokensToRangeUnderdetermined(t *testing.T) {
	if _, _, err := MatchTokensToRange(100, 50, 200, 1, Token(0)); !errors.Is(err, ErrUnderdetermined) {
		t.Fatalf("unspecified token error = %v, want ErrUnderdetermined", err)
	}
	if _, _, err := MatchTokensToRange(100, 50, 200, 1, Token(7)); !errors.Is(err, ErrUnderdetermined) {
		t.Fatalf("bogus token error = %v, want ErrUnderdetermined", err)
	}
}

func TestPriceAllTokensRecoversBound(t *testing.T) {
	price, low, high := 10000.0, 5000.0, 20000.0
	eth, op, err := MatchTokensToRange(price, low, high, 1, TokenETH)
	if err != nil {
		t.Fatalf("MatchTokensToRange failed: %v", err)
	}

	gotHigh, err := PriceAllTokens(price, eth, op, low, LowerBound)
	if err != nil {
		t.Fatalf("PriceAllTokens(lower fixed) failed: %v", err)
	}
	if rel := math.Abs(gotHigh-high) / high; rel > 1e-9 {
		t.Fatalf("upper bound = %v, want %v", gotHigh, high)
	}

	gotLow, err := PriceAllTokens(price, eth, op, high, UpperBound)
	if err != nil {
		t.Fatalf("PriceAllTokens(upper fixed) failed: %v", err)
	}
	if rel := math.Abs(gotLow-low) / low; rel > 1e-9 {
		t.Fatalf("lower bound = %v, want %v", gotLow, low)
	}
}

func TestPriceAllTokensErrors(t *testing.T) {
	if _, err := PriceAllTokens(100, 1, 100, 200, LowerBound); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("price below fixed lower bound error = %v, want ErrInvalidRange", err)
	}
	if _, err := PriceAllTokens(100, 1, 100, 120, Bound(0)); !errors.Is(err, ErrUnderdetermined) {
		t.Fatalf("unspecified bound error = %v, want ErrUnderdetermined", err)
	}
	if _, err := PriceAllTokens(100, 0, 100, 50, LowerBound); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero amount error = %v, want ErrInvalidInput", err)
	}
}
