// Package report turns simulation output into summary statistics and
// tabular exports.
package report

import (
	"fmt"
	"math/rand"

	"github.com/montanaflynn/stats"

	"buybackScope/internal/model"
	"buybackScope/internal/strategy"
)

// Distribution summarizes the terminal OP totals of a Monte Carlo batch.
type Distribution struct {
	Runs     int     `json:"runs"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	P5       float64 `json:"p5"`
	P95      float64 `json:"p95"`
	AvgPrice float64 `json:"avg_price"`
}

// Summarize computes the OP-bought distribution over completed runs.
func Summarize(results []model.RunResult) (*Distribution, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no completed runs to summarize")
	}

	op := make(stats.Float64Data, 0, len(results))
	var priceSum float64
	for _, res := range results {
		op = append(op, res.OPBought)
		priceSum += res.AvgPrice
	}

	dist := &Distribution{
		Runs:     len(results),
		AvgPrice: priceSum / float64(len(results)),
	}
	var err error
	if dist.Mean, err = op.Mean(); err != nil {
		return nil, err
	}
	if dist.Median, err = op.Median(); err != nil {
		return nil, err
	}
	if len(results) > 1 {
		if dist.StdDev, err = op.StandardDeviationSample(); err != nil {
			return nil, err
		}
	}
	if dist.Min, err = op.Min(); err != nil {
		return nil, err
	}
	if dist.Max, err = op.Max(); err != nil {
		return nil, err
	}
	if dist.P5, err = op.Percentile(5); err != nil {
		return nil, err
	}
	if dist.P95, err = op.Percentile(95); err != nil {
		return nil, err
	}
	return dist, nil
}

// Row is one strategy's line in a comparison table.
type Row struct {
	Strategy string  `json:"strategy"`
	ETHSpent float64 `json:"eth_spent"`
	OPBought float64 `json:"op_acquired"`
	FeesETH  float64 `json:"fees_eth"`
	FeesOP   float64 `json:"fees_op"`
	NetOP    float64 `json:"net_op"`
	AvgPrice float64 `json:"avg_price"`
}

// Compare runs every strategy over the same data and tabulates the results.
// The RNG source builder gives each strategy its own generator so one
// strategy's draws cannot perturb another's.
func Compare(data *strategy.MarketData, strategies []strategy.Strategy, newRNG func() *rand.Rand) ([]Row, error) {
	rows := make([]Row, 0, len(strategies))
	for _, strat := range strategies {
		var rng *rand.Rand
		if newRNG != nil {
			rng = newRNG()
		}
		res, err := strat.Run(data, rng)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", strat.Name(), err)
		}
		rows = append(rows, Row{
			Strategy: res.Strategy,
			ETHSpent: res.ETHSpent,
			OPBought: res.OPAcquired,
			FeesETH:  res.FeesETH,
			FeesOP:   res.FeesOP,
			NetOP:    res.NetOP(),
			AvgPrice: res.AvgPrice,
		})
	}
	return rows, nil
}
