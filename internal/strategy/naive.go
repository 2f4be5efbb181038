package strategy

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"buybackScope/internal/model"
)

// PriceMode selects the execution price the naive evaluator pays each day.
type PriceMode string

const (
	PriceOpen   PriceMode = "open"
	PriceClose  PriceMode = "close"
	PriceVWAP   PriceMode = "vwap"
	PriceRandom PriceMode = "random"
)

func (m PriceMode) valid() bool {
	switch m {
	case PriceOpen, PriceClose, PriceVWAP, PriceRandom:
		return true
	}
	return false
}

// Naive converts each day's budget fully to OP at market price. The budget
// for day T is day T-1's fee revenue; the first day only funds the second.
// In random mode the budget is split across a random number of buys at
// prices sampled uniformly inside random hours' [low, high] ranges.
type Naive struct {
	Mode    PriceMode
	MinBuys int
	MaxBuys int
	Logger  *zap.Logger
}

func (n *Naive) Name() string {
	return "naive_" + string(n.Mode)
}

func (n *Naive) Run(data *MarketData, rng *rand.Rand) (*Result, error) {
	if !n.Mode.valid() {
		return nil, fmt.Errorf("unknown price mode %q", n.Mode)
	}
	if n.Mode == PriceRandom {
		if rng == nil {
			return nil, fmt.Errorf("random price mode needs a seeded rng")
		}
		if n.MinBuys < 1 || n.MaxBuys < n.MinBuys {
			return nil, fmt.Errorf("buys range [%d, %d] invalid", n.MinBuys, n.MaxBuys)
		}
	}
	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	res := &Result{Strategy: n.Name()}
	for i := 1; i < len(data.Fees); i++ {
		date := data.Fees[i].Date
		budget := data.Fees[i-1].FeesETH

		var rec model.DayRecord
		if n.Mode == PriceRandom {
			rec = n.randomDay(data, date, budget, rng)
		} else {
			var err error
			rec, err = n.barDay(data, date, budget)
			if err != nil {
				return nil, err
			}
		}
		if rec.Action == "skip" {
			logger.Debug("no market data for day, skipping buy", zap.Time("date", date))
		}

		res.ETHSpent += rec.ETHSpent
		res.OPAcquired += rec.OPAcquired
		res.Days = append(res.Days, rec)
	}
	if res.ETHSpent > 0 {
		res.AvgPrice = res.OPAcquired / res.ETHSpent
	}
	return res, nil
}

// barDay executes the whole budget at one price taken from the daily bar.
func (n *Naive) barDay(data *MarketData, date time.Time, budget float64) (model.DayRecord, error) {
	bar, ok := data.DailyBar(date)
	if !ok {
		return model.DayRecord{Date: date, Action: "skip"}, nil
	}

	var price float64
	switch n.Mode {
	case PriceOpen:
		price = bar.Open
	case PriceClose:
		price = bar.Close
	case PriceVWAP:
		price = bar.VWAP
		if price == 0 {
			price = (bar.Open + bar.High + bar.Low + bar.Close) / 4
		}
	default:
		return model.DayRecord{}, fmt.Errorf("price mode %q has no bar price", n.Mode)
	}

	return model.DayRecord{
		Date:       date,
		Action:     "buy",
		Price:      price,
		ETHSpent:   budget,
		OPAcquired: budget * price,
	}, nil
}

// randomDay spreads the budget over random buys inside the day's hours.
func (n *Naive) randomDay(data *MarketData, date time.Time, budget float64, rng *rand.Rand) model.DayRecord {
	hours := data.HoursOn(date)
	if len(hours) == 0 {
		return model.DayRecord{Date: date, Action: "skip"}
	}

	numBuys := n.MinBuys + rng.Intn(n.MaxBuys-n.MinBuys+1)

	// Random budget split, normalized to sum to one.
	splits := make([]float64, numBuys)
	var total float64
	for i := range splits {
		splits[i] = rng.Float64()
		total += splits[i]
	}

	var opBought float64
	for _, split := range splits {
		hour := hours[rng.Intn(len(hours))]
		price := hour.Low + rng.Float64()*(hour.High-hour.Low)
		opBought += budget * (split / total) * price
	}

	rec := model.DayRecord{
		Date:       date,
		Action:     "buy",
		ETHSpent:   budget,
		OPAcquired: opBought,
	}
	if budget > 0 {
		rec.Price = opBought / budget
	}
	return rec
}
