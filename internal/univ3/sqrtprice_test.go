package univ3

import (
	"errors"
	"math"
	"testing"

	"github.com/holiman/uint256"
)

// Precision contract: X96 round trips stay within 1e-9 relative error over
// the realistic price range.
func TestSqrtPriceX96RoundTrip(t *testing.T) {
	prices := []float64{1e-6, 1e-3, 0.5, 1, 42.7, 1e3, 10000, 1e6}
	for _, p := range prices {
		x96, err := PriceToSqrtPriceX96(p, 1)
		if err != nil {
			t.Fatalf("PriceToSqrtPriceX96(%v) failed: %v", p, err)
		}
		back, err := SqrtPriceX96ToPrice(x96, 1)
		if err != nil {
			t.Fatalf("SqrtPriceX96ToPrice failed for %v: %v", p, err)
		}
		if rel := math.Abs(back-p) / p; rel > 1e-9 {
			t.Fatalf("round trip for %v returned %v (rel err %v)", p, back, rel)
		}
	}
}

func TestPriceToSqrtPriceX96Unit(t *testing.T) {
	x96, err := PriceToSqrtPriceX96(1, 1)
	if err != nil {
		t.Fatalf("PriceToSqrtPriceX96(1) failed: %v", err)
	}
	// sqrt(1) * 2^96
	want := new(uint256.Int).Lsh(uint256.NewInt(1), 96)
	if !x96.Eq(want) {
		t.Fatalf("price 1 encoded as %s, want %s", x96, want)
	}
}

func TestSqrtPriceX96DecimalAdjustment(t *testing.T) {
	// USDC/ETH style pool, 12 decimals apart: raw ratio price is the human
	// price scaled by 1e12.
	human := 1825.732
	x96, err := PriceToSqrtPriceX96(human, 1e12)
	if err != nil {
		t.Fatalf("PriceToSqrtPriceX96 failed: %v", err)
	}
	back, err := SqrtPriceX96ToPrice(x96, 1e12)
	if err != nil {
		t.Fatalf("SqrtPriceX96ToPrice failed: %v", err)
	}
	if rel := math.Abs(back-human) / human; rel > 1e-9 {
		t.Fatalf("adjusted round trip returned %v (rel err %v)", back, rel)
	}
}

func TestSqrtPriceX96Invalid(t *testing.T) {
	if _, err := PriceToSqrtPriceX96(0, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("price 0 error = %v, want ErrInvalidInput", err)
	}
	if _, err := PriceToSqrtPriceX96(-2, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative price error = %v, want ErrInvalidInput", err)
	}
	if _, err := SqrtPriceX96ToPrice(nil, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("nil ratio error = %v, want ErrInvalidInput", err)
	}
	if _, err := SqrtPriceX96ToPrice(uint256.NewInt(0), 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero ratio error = %v, want ErrInvalidInput", err)
	}
}

func TestParseSqrtPriceX96(t *testing.T) {
	// 2^96 encodes price 1.
	price, err := ParseSqrtPriceX96("79228162514264337593543950336", 1)
	if err != nil {
		t.Fatalf("ParseSqrtPriceX96 failed: %v", err)
	}
	if math.Abs(price-1) > 1e-12 {
		t.Fatalf("parsed price = %v, want 1", price)
	}
	if _, err := ParseSqrtPriceX96("not-a-number", 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("garbage input error = %v, want ErrInvalidInput", err)
	}
}
