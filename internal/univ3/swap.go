package univ3

import (
	"fmt"
	"math"
)

// Direction enumerates swap sides for the OP/ETH pair.
type Direction int

const (
	// ETHToOP spends ETH for OP; the OP-per-ETH price moves down.
	ETHToOP Direction = iota + 1
	// OPToETH spends OP for ETH; the OP-per-ETH price moves up.
	OPToETH
)

func (d Direction) valid() bool { return d == ETHToOP || d == OPToETH }

func (d Direction) String() string {
	switch d {
	case ETHToOP:
		return "eth_to_op"
	case OPToETH:
		return "op_to_eth"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// PoolState is one simulation step's view of the pool. It evolves only
// through explicit swap or deposit steps. Liquidity is the amount active at
// the current tick; deposit through AddLiquidity to keep it consistent with
// the ranges recorded in Ticks.
type PoolState struct {
	Tick      int
	SqrtPrice float64
	Liquidity float64
	FeeRate   float64
	Ticks     *TickTable
}

// NewPoolState builds a pool at the given price with uniform active
// liquidity and no initialized ticks yet.
func NewPoolState(price, liquidity, feeRate float64, spacing int) (*PoolState, error) {
	if price <= 0 || math.IsNaN(price) {
		return nil, fmt.Errorf("pool price %v must be positive: %w", price, ErrInvalidInput)
	}
	if liquidity < 0 {
		return nil, fmt.Errorf("pool liquidity %v must be non-negative: %w", liquidity, ErrInvalidInput)
	}
	if feeRate < 0 || feeRate >= 1 {
		return nil, fmt.Errorf("fee rate %v out of [0, 1): %w", feeRate, ErrInvalidInput)
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("tick spacing %d must be positive: %w", spacing, ErrInvalidInput)
	}
	exact, err := PriceToTickExact(price)
	if err != nil {
		return nil, err
	}
	return &PoolState{
		Tick:      int(math.Floor(exact)),
		SqrtPrice: math.Sqrt(price),
		Liquidity: liquidity,
		FeeRate:   feeRate,
		Ticks:     NewTickTable(spacing),
	}, nil
}

// Price returns the pool's current OP-per-ETH price.
func (p *PoolState) Price() float64 { return p.SqrtPrice * p.SqrtPrice }

// Clone deep-copies the pool state so simulation branches stay independent.
func (p *PoolState) Clone() *PoolState {
	out := *p
	out.Ticks = p.Ticks.Clone()
	return &out
}

// AddLiquidity records a position over [lower, upper) in the tick table and,
// when the current tick sits inside the range, folds the delta into the
// active liquidity. Callers that write to Ticks directly own that adjustment
// themselves.
func (p *PoolState) AddLiquidity(lower, upper int, liquidityDelta float64) error {
	if err := p.Ticks.AddRange(lower, upper, liquidityDelta); err != nil {
		return err
	}
	if lower <= p.Tick && p.Tick < upper {
		p.Liquidity += liquidityDelta
	}
	return nil
}

// SwapResult reports one executed swap, single- or multi-tick.
type SwapResult struct {
	AmountIn     float64 // input actually consumed, fee included
	AmountOut    float64
	Fee          float64
	TicksCrossed int
	State        *PoolState // pool after the swap
}

// SwapWithinTick executes a swap against constant liquidity, never crossing
// a tick boundary. sqrtLimit is the boundary guard: 0 disables the check,
// otherwise an input large enough to push the price past it fails with
// ErrBoundaryExceeded. Fee is deducted from the input before the
// constant-product step.
func SwapWithinTick(amountIn float64, dir Direction, sqrtPrice, liquidity, feeRate, sqrtLimit float64) (amountOut, sqrtPriceEnd, fee float64, err error) {
	if !dir.valid() {
		return 0, 0, 0, fmt.Errorf("unknown swap direction %d: %w", int(dir), ErrInvalidInput)
	}
	if amountIn < 0 || math.IsNaN(amountIn) {
		return 0, 0, 0, fmt.Errorf("amount in %v must be non-negative: %w", amountIn, ErrInvalidInput)
	}
	if sqrtPrice <= 0 {
		return 0, 0, 0, fmt.Errorf("sqrt price %v must be positive: %w", sqrtPrice, ErrInvalidInput)
	}
	if amountIn == 0 {
		return 0, sqrtPrice, 0, nil
	}
	if liquidity <= 0 {
		return 0, 0, 0, fmt.Errorf("swap of %v against empty tick: %w", amountIn, ErrNoLiquidity)
	}

	fee = amountIn * feeRate
	net := amountIn - fee

	if dir == ETHToOP {
		invEnd := 1/sqrtPrice + net/liquidity
		sqrtPriceEnd = 1 / invEnd
		if sqrtLimit > 0 && sqrtPriceEnd < sqrtLimit {
			return 0, 0, 0, fmt.Errorf("input %v crosses lower boundary: %w", amountIn, ErrBoundaryExceeded)
		}
		amountOut = liquidity * (sqrtPrice - sqrtPriceEnd)
	} else {
		sqrtPriceEnd = sqrtPrice + net/liquidity
		if sqrtLimit > 0 && sqrtPriceEnd > sqrtLimit {
			return 0, 0, 0, fmt.Errorf("input %v crosses upper boundary: %w", amountIn, ErrBoundaryExceeded)
		}
		amountOut = liquidity * (1/sqrtPrice - 1/sqrtPriceEnd)
	}
	return amountOut, sqrtPriceEnd, fee, nil
}

// MaxInputWithinTick returns the gross input (fee included) that moves the
// price exactly to sqrtBoundary without crossing it.
func MaxInputWithinTick(dir Direction, sqrtPrice, sqrtBoundary, liquidity, feeRate float64) float64 {
	if liquidity <= 0 {
		return 0
	}
	var net float64
	if dir == ETHToOP {
		if sqrtBoundary >= sqrtPrice {
			return 0
		}
		net = liquidity * (1/sqrtBoundary - 1/sqrtPrice)
	} else {
		if sqrtBoundary <= sqrtPrice {
			return 0
		}
		net = liquidity * (sqrtBoundary - sqrtPrice)
	}
	return net / (1 - feeRate)
}

// SwapAcrossTicks consumes amountIn against the pool, crossing initialized
// tick boundaries as needed: each iteration deducts the fee, advances the
// price within the active tick, and on hitting a boundary folds that tick's
// net liquidity into the active amount. The input pool is not mutated.
// maxIter bounds the traversal; exhausting it fails with ErrIterationLimit.
// Reaching the protocol tick limit stops the swap with the residual input
// unconsumed.
func SwapAcrossTicks(pool *PoolState, amountIn float64, dir Direction, maxIter int) (*SwapResult, error) {
	if pool == nil {
		return nil, fmt.Errorf("nil pool state: %w", ErrInvalidInput)
	}
	if !dir.valid() {
		return nil, fmt.Errorf("unknown swap direction %d: %w", int(dir), ErrInvalidInput)
	}
	if amountIn < 0 || math.IsNaN(amountIn) {
		return nil, fmt.Errorf("amount in %v must be non-negative: %w", amountIn, ErrInvalidInput)
	}
	if maxIter <= 0 {
		return nil, fmt.Errorf("iteration budget %d must be positive: %w", maxIter, ErrInvalidInput)
	}

	state := pool.Clone()
	res := &SwapResult{State: state}
	if amountIn == 0 {
		return res, nil
	}

	down := dir == ETHToOP
	remaining := amountIn

	for iter := 0; remaining > 0; iter++ {
		if iter >= maxIter {
			return nil, fmt.Errorf("swap of %v stopped after %d tick steps: %w", amountIn, maxIter, ErrIterationLimit)
		}
		if state.Liquidity <= 0 {
			return nil, fmt.Errorf("swap ran into empty tick %d: %w", state.Tick, ErrNoLiquidity)
		}

		boundaryTick, initialized := state.Ticks.NextInitialized(state.Tick, down)
		if !initialized {
			if down {
				boundaryTick = MinTick
			} else {
				boundaryTick = MaxTick
			}
		}
		sqrtBoundary, err := SqrtPriceAtTick(boundaryTick)
		if err != nil {
			return nil, err
		}

		gross := MaxInputWithinTick(dir, state.SqrtPrice, sqrtBoundary, state.Liquidity, state.FeeRate)
		if remaining <= gross || !initialized {
			// Final partial step, or hard tick limit reached.
			step := math.Min(remaining, gross)
			out, sqrtEnd, fee, err := SwapWithinTick(step, dir, state.SqrtPrice, state.Liquidity, state.FeeRate, 0)
			if err != nil {
				return nil, err
			}
			state.SqrtPrice = sqrtEnd
			exact, err := PriceToTickExact(sqrtEnd * sqrtEnd)
			if err != nil {
				return nil, err
			}
			state.Tick = int(math.Floor(exact))
			res.AmountIn += step
			res.AmountOut += out
			res.Fee += fee
			remaining -= step
			break
		}

		// Consume exactly to the boundary and cross it.
		out, _, fee, err := SwapWithinTick(gross, dir, state.SqrtPrice, state.Liquidity, state.FeeRate, 0)
		if err != nil {
			return nil, err
		}
		res.AmountIn += gross
		res.AmountOut += out
		res.Fee += fee
		remaining -= gross

		state.SqrtPrice = sqrtBoundary
		if down {
			state.Liquidity -= state.Ticks.CrossUp(boundaryTick)
			state.Tick = boundaryTick - 1
		} else {
			state.Liquidity += state.Ticks.CrossUp(boundaryTick)
			state.Tick = boundaryTick
		}
		res.TicksCrossed++
	}
	return res, nil
}

// FeeShare is a synthetic position's share of fees generated while the price
// sits inside its range: ourLiquidity / (poolLiquidity + ourLiquidity).
// Recompute per swap; pool liquidity moves between swaps.
func FeeShare(ourLiquidity, poolLiquidity float64) float64 {
	if ourLiquidity <= 0 {
		return 0
	}
	total := poolLiquidity + ourLiquidity
	if total <= 0 {
		return 0
	}
	return ourLiquidity / total
}
