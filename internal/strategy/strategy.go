// Package strategy implements the treasury buyback evaluators: naive market
// buys, threshold-timed buys, and protocol-owned liquidity. Each strategy is
// a state machine advanced one day at a time over immutable market data.
package strategy

import (
	"math/rand"
	"time"

	"buybackScope/internal/model"
)

// MarketData is the immutable input for one evaluation: daily fee revenue
// plus the price and trade tape it executes against. Slices are ordered by
// time and never mutated by a strategy run.
type MarketData struct {
	Fees   []model.DailyFee
	Daily  []model.Bar
	Hourly []model.Bar
	Swaps  []model.SwapRecord
}

// DailyBar returns the daily bar for the given date, if any.
func (m *MarketData) DailyBar(date time.Time) (model.Bar, bool) {
	day := date.Truncate(24 * time.Hour)
	for _, bar := range m.Daily {
		if bar.Start.Equal(day) {
			return bar, true
		}
	}
	return model.Bar{}, false
}

// HoursOn returns the hourly bars falling on the given date.
func (m *MarketData) HoursOn(date time.Time) []model.Bar {
	day := date.Truncate(24 * time.Hour)
	var out []model.Bar
	for _, bar := range m.Hourly {
		if bar.Start.Truncate(24 * time.Hour).Equal(day) {
			out = append(out, bar)
		}
	}
	return out
}

// SwapsOn returns the swap records falling on the given date.
func (m *MarketData) SwapsOn(date time.Time) []model.SwapRecord {
	day := date.Truncate(24 * time.Hour)
	var out []model.SwapRecord
	for _, swap := range m.Swaps {
		if swap.Timestamp.Truncate(24 * time.Hour).Equal(day) {
			out = append(out, swap)
		}
	}
	return out
}

// Result is the outcome of one full strategy run.
type Result struct {
	Strategy   string            `json:"strategy"`
	ETHSpent   float64           `json:"eth_spent"`
	OPAcquired float64           `json:"op_acquired"`
	FeesETH    float64           `json:"fees_eth"`
	FeesOP     float64           `json:"fees_op"`
	AvgPrice   float64           `json:"avg_price"`
	Days       []model.DayRecord `json:"days"`
}

// NetOP is the OP total including fee earnings.
func (r *Result) NetOP() float64 {
	return r.OPAcquired + r.FeesOP
}

// Strategy evaluates a buyback policy over market data. The RNG is the only
// source of randomness; runs with the same data and seed are identical.
type Strategy interface {
	Name() string
	Run(data *MarketData, rng *rand.Rand) (*Result, error)
}
