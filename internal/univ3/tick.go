package univ3

import (
	"fmt"
	"math"
)

// Tick bounds shared by every V3 pool.
const (
	MinTick = -887272
	MaxTick = 887272
)

// TickBase is the fixed exponential base of the tick scheme: price = TickBase^tick.
const TickBase = 1.0001

// TickToPrice returns the price (token1 per token0) at the given tick.
// Strictly increasing in tick.
func TickToPrice(tick int) (float64, error) {
	if tick < MinTick || tick > MaxTick {
		return 0, fmt.Errorf("tick %d out of [%d, %d]: %w", tick, MinTick, MaxTick, ErrInvalidInput)
	}
	return math.Pow(TickBase, float64(tick)), nil
}

// SqrtPriceAtTick returns sqrt(TickBase^tick), the sqrt-price form the swap
// simulator works in.
func SqrtPriceAtTick(tick int) (float64, error) {
	if tick < MinTick || tick > MaxTick {
		return 0, fmt.Errorf("tick %d out of [%d, %d]: %w", tick, MinTick, MaxTick, ErrInvalidInput)
	}
	return math.Pow(TickBase, float64(tick)/2), nil
}

// PriceToTickExact returns the real-valued tick whose price equals p.
// The result is generally not integral.
func PriceToTickExact(price float64) (float64, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("price %v must be positive and finite: %w", price, ErrInvalidInput)
	}
	return math.Log(price) / math.Log(TickBase), nil
}

// ClosestUsableTick returns the usable tick (multiple of spacing) nearest to
// the given price. An exact half-spacing tie rounds down to the lower tick.
func ClosestUsableTick(price float64, spacing int) (int, error) {
	if spacing <= 0 {
		return 0, fmt.Errorf("tick spacing %d must be positive: %w", spacing, ErrInvalidInput)
	}
	exact, err := PriceToTickExact(price)
	if err != nil {
		return 0, err
	}
	tick := roundToSpacing(exact, spacing)

	if tick < MinTick {
		tick = ceilTo(MinTick, spacing)
	} else if tick > MaxTick {
		tick = floorTo(MaxTick, spacing)
	}
	return tick, nil
}

// roundToSpacing rounds a real-valued tick to the nearest multiple of
// spacing. An exact half-spacing tie rounds down.
func roundToSpacing(exact float64, spacing int) int {
	steps := exact / float64(spacing)
	lower := math.Floor(steps)
	rounded := lower
	if steps-lower > 0.5 {
		rounded = lower + 1
	}
	return int(rounded) * spacing
}

func floorTo(tick, spacing int) int {
	return int(math.Floor(float64(tick)/float64(spacing))) * spacing
}

func ceilTo(tick, spacing int) int {
	return int(math.Ceil(float64(tick)/float64(spacing))) * spacing
}
