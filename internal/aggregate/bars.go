package aggregate

import (
	"fmt"
	"sort"
	"time"

	"buybackScope/internal/model"
)

// Accumulator folds swap records into one OHLCV bar. Swaps must be applied
// in timestamp order for open/close to be meaningful.
type Accumulator struct {
	start      time.Time
	feeRate    float64
	open       float64
	high       float64
	low        float64
	close      float64
	priceXVol  float64
	ethVolume  float64
	opBought   float64
	opSold     float64
	ethBought  float64
	ethSold    float64
	tradeCount int
}

func NewAccumulator(start time.Time, feeRate float64) *Accumulator {
	return &Accumulator{start: start, feeRate: feeRate}
}

func (a *Accumulator) AddSwap(swap model.SwapRecord) {
	if a.tradeCount == 0 {
		a.open = swap.Price
		a.high = swap.Price
		a.low = swap.Price
	}
	if swap.Price > a.high {
		a.high = swap.Price
	}
	if swap.Price < a.low {
		a.low = swap.Price
	}
	a.close = swap.Price

	ethVol := swap.ETHSold() + swap.ETHBought()
	a.priceXVol += swap.Price * ethVol
	a.ethVolume += ethVol

	a.opBought += swap.OPBought()
	a.opSold += swap.OPSold()
	a.ethBought += swap.ETHBought()
	a.ethSold += swap.ETHSold()
	a.tradeCount++
}

// Finalize emits the bar. LP fees are the fee-rate share of the token each
// trader sold into the pool.
func (a *Accumulator) Finalize() model.Bar {
	bar := model.Bar{
		Start:      a.start,
		Open:       a.open,
		High:       a.high,
		Low:        a.low,
		Close:      a.close,
		OPBought:   a.opBought,
		OPSold:     a.opSold,
		ETHBought:  a.ethBought,
		ETHSold:    a.ethSold,
		FeesOP:     a.opSold * a.feeRate,
		FeesETH:    a.ethSold * a.feeRate,
		TradeCount: a.tradeCount,
	}
	if a.ethVolume > 0 {
		bar.VWAP = a.priceXVol / a.ethVolume
	}
	return bar
}

// Bars aggregates swap records into fixed-period OHLCV bars, one per period
// that saw at least one swap, ordered by period start. Periods with no swaps
// produce no bar.
func Bars(swaps []model.SwapRecord, period time.Duration, feeRate float64) ([]model.Bar, error) {
	if period <= 0 {
		return nil, fmt.Errorf("bar period %v must be positive", period)
	}
	if feeRate < 0 || feeRate >= 1 {
		return nil, fmt.Errorf("fee rate %v out of [0, 1)", feeRate)
	}

	ordered := make([]model.SwapRecord, len(swaps))
	copy(ordered, swaps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var bars []model.Bar
	var acc *Accumulator
	for _, swap := range ordered {
		bucket := swap.Timestamp.Truncate(period)
		if acc == nil || !bucket.Equal(acc.start) {
			if acc != nil {
				bars = append(bars, acc.Finalize())
			}
			acc = NewAccumulator(bucket, feeRate)
		}
		acc.AddSwap(swap)
	}
	if acc != nil {
		bars = append(bars, acc.Finalize())
	}
	return bars, nil
}

// DailyFromHourly collapses hourly bars into daily bars without revisiting
// the underlying swaps. Fee and volume columns sum; OHLC composes.
func DailyFromHourly(hourly []model.Bar) []model.Bar {
	var daily []model.Bar
	var cur *model.Bar
	var priceXVol, ethVolume float64

	flush := func() {
		if cur == nil {
			return
		}
		if ethVolume > 0 {
			cur.VWAP = priceXVol / ethVolume
		}
		daily = append(daily, *cur)
		cur = nil
		priceXVol, ethVolume = 0, 0
	}

	for _, bar := range hourly {
		day := bar.Start.Truncate(24 * time.Hour)
		if cur == nil || !day.Equal(cur.Start) {
			flush()
			copied := bar
			copied.Start = day
			cur = &copied
		} else {
			if bar.High > cur.High {
				cur.High = bar.High
			}
			if bar.Low < cur.Low {
				cur.Low = bar.Low
			}
			cur.Close = bar.Close
			cur.OPBought += bar.OPBought
			cur.OPSold += bar.OPSold
			cur.ETHBought += bar.ETHBought
			cur.ETHSold += bar.ETHSold
			cur.FeesOP += bar.FeesOP
			cur.FeesETH += bar.FeesETH
			cur.TradeCount += bar.TradeCount
		}
		vol := bar.ETHBought + bar.ETHSold
		priceXVol += bar.VWAP * vol
		ethVolume += vol
	}
	flush()
	return daily
}
