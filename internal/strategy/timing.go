package strategy

import (
	"fmt"
	"math/rand"

	"buybackScope/internal/model"
)

// Timing buys only when the day opens below the trailing average low of the
// last Lookback days; otherwise the budget accrues as an ETH reserve until
// the next eligible day. With fewer than Lookback days of history it buys
// unconditionally. Buys execute at the day's close.
type Timing struct {
	Lookback int
}

func (t *Timing) Name() string {
	return "timing"
}

func (t *Timing) Run(data *MarketData, _ *rand.Rand) (*Result, error) {
	if t.Lookback < 1 {
		return nil, fmt.Errorf("lookback %d must be at least one day", t.Lookback)
	}

	res := &Result{Strategy: t.Name()}
	var reserve float64
	var history []model.Bar

	for i := 1; i < len(data.Fees); i++ {
		date := data.Fees[i].Date
		reserve += data.Fees[i-1].FeesETH

		bar, ok := data.DailyBar(date)
		if !ok {
			res.Days = append(res.Days, model.DayRecord{
				Date: date, Action: "skip", ETHReserve: reserve,
			})
			continue
		}

		if t.shouldBuy(bar, history) {
			opBought := reserve * bar.Close
			res.ETHSpent += reserve
			res.OPAcquired += opBought
			res.Days = append(res.Days, model.DayRecord{
				Date:       date,
				Action:     "buy",
				Price:      bar.Close,
				ETHSpent:   reserve,
				OPAcquired: opBought,
			})
			reserve = 0
		} else {
			res.Days = append(res.Days, model.DayRecord{
				Date:       date,
				Action:     "hold",
				Price:      bar.Close,
				ETHReserve: reserve,
			})
		}
		history = append(history, bar)
	}

	// Whatever never met the signal stays in the treasury as ETH.
	res.FeesETH = reserve
	if res.ETHSpent > 0 {
		res.AvgPrice = res.OPAcquired / res.ETHSpent
	}
	return res, nil
}

func (t *Timing) shouldBuy(today model.Bar, history []model.Bar) bool {
	if len(history) < t.Lookback {
		return true
	}
	recent := history[len(history)-t.Lookback:]
	var sum float64
	for _, bar := range recent {
		sum += bar.Low
	}
	return today.Open < sum/float64(len(recent))
}
