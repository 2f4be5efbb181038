package strategy

import (
	"math"
	"testing"
	"time"

	"buybackScope/internal/model"
)

// Tick range bracketing a 10000 OP/ETH price: roughly 8100 to 12100.
const (
	testTickLower = 90000
	testTickUpper = 94000
)

func TestPOLDeploysFullBudget(t *testing.T) {
	data := flatData(4, 10000, 1)
	pol := &POL{TickLower: testTickLower, TickUpper: testTickUpper, FeeRate: 0.003}

	res, err := pol.Run(data, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Days) != 3 {
		t.Fatalf("got %d day records, want 3", len(res.Days))
	}

	prevL := 0.0
	for _, rec := range res.Days {
		if rec.Action != "deposit" {
			t.Fatalf("day %s action = %q, want deposit", rec.Date, rec.Action)
		}
		// The whole day's budget converts into the two deposit legs.
		if math.Abs(rec.ETHSpent-1) > 1e-9 {
			t.Fatalf("day %s deployed %v ETH, want 1", rec.Date, rec.ETHSpent)
		}
		if rec.OPAcquired <= 0 {
			t.Fatalf("in-range deposit must hold OP, got %v", rec.OPAcquired)
		}
		if rec.Liquidity <= prevL {
			t.Fatalf("position liquidity must grow: %v after %v", rec.Liquidity, prevL)
		}
		prevL = rec.Liquidity
	}
	// No swaps in the tape: nothing earned.
	if res.FeesETH != 0 || res.FeesOP != 0 {
		t.Fatalf("fees without swaps: %v ETH, %v OP", res.FeesETH, res.FeesOP)
	}
}

func TestPOLFeesCompound(t *testing.T) {
	data := flatData(3, 10000, 1)
	// Heavy in-range selling on the first funded day.
	data.Swaps = []model.SwapRecord{
		{Timestamp: day(1).Add(12 * time.Hour), Price: 10000, AmountETH: 500, AmountOP: -4.9e6, Liquidity: 1e6, Tick: 92100},
		{Timestamp: day(1).Add(14 * time.Hour), Price: 10000, AmountOP: 3e6, AmountETH: -295, Liquidity: 1e6, Tick: 92100},
	}

	pol := &POL{TickLower: testTickLower, TickUpper: testTickUpper, FeeRate: 0.003}
	res, err := pol.Run(data, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	first, second := res.Days[0], res.Days[1]
	if first.FeesETH <= 0 || first.FeesOP <= 0 {
		t.Fatalf("in-range swaps earned no fees: %+v", first)
	}
	// Yesterday's fees fund today's deposit on top of the 1 ETH budget.
	wantBudget := 1 + first.FeesETH + first.FeesOP/10000
	if math.Abs(second.ETHSpent-wantBudget) > 1e-9 {
		t.Fatalf("compounded budget = %v, want %v", second.ETHSpent, wantBudget)
	}
}

func TestPOLIgnoresOutOfRangeSwaps(t *testing.T) {
	data := flatData(3, 10000, 1)
	data.Swaps = []model.SwapRecord{
		{Timestamp: day(1).Add(6 * time.Hour), Price: 7000, AmountETH: 500, AmountOP: -3.4e6, Liquidity: 1e6, Tick: 88000},
	}

	pol := &POL{TickLower: testTickLower, TickUpper: testTickUpper, FeeRate: 0.003}
	res, err := pol.Run(data, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.FeesETH != 0 || res.FeesOP != 0 {
		t.Fatalf("out-of-range swap earned fees: %v ETH, %v OP", res.FeesETH, res.FeesOP)
	}
}

func TestPOLConfigErrors(t *testing.T) {
	data := flatData(2, 10000, 1)
	if _, err := (&POL{TickLower: 94000, TickUpper: 90000, FeeRate: 0.003}).Run(data, nil); err == nil {
		t.Fatalf("inverted tick range must fail")
	}
	if _, err := (&POL{TickLower: -900000, TickUpper: 94000, FeeRate: 0.003}).Run(data, nil); err == nil {
		t.Fatalf("tick below protocol bounds must fail")
	}
	if _, err := (&POL{TickLower: 90000, TickUpper: 94000, FeeRate: 0}).Run(data, nil); err == nil {
		t.Fatalf("zero fee rate must fail")
	}
}

// Position of 10,000 against a 1,000,000 pool earns ~0.990 of every 100 ETH
// of fees generated in range.
func TestFeesFromSwapsShare(t *testing.T) {
	// One swap selling enough ETH that the pool collects 100 ETH in fees.
	swaps := []model.SwapRecord{
		{Price: 10000, AmountETH: 100 / 0.003, Liquidity: 1e6, Tick: 92100},
	}
	feesETH, feesOP := FeesFromSwaps(10000, testTickLower, testTickUpper, swaps, 0.003)
	if math.Abs(feesETH-0.990099) > 1e-4 {
		t.Fatalf("position fee cut = %v, want ~0.990099", feesETH)
	}
	if feesOP != 0 {
		t.Fatalf("no OP sold, but earned %v OP", feesOP)
	}

	if eth, op := FeesFromSwaps(0, testTickLower, testTickUpper, swaps, 0.003); eth != 0 || op != 0 {
		t.Fatalf("zero position earned fees: %v, %v", eth, op)
	}
}
