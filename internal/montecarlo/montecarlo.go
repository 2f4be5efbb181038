// Package montecarlo runs the naive random-buy strategy many times over the
// same market data to produce a distribution of outcomes.
package montecarlo

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"buybackScope/internal/model"
	"buybackScope/internal/strategy"
)

// Config holds runtime settings for a Monte Carlo batch.
type Config struct {
	Runs    int
	MinBuys int
	MaxBuys int
	Seed    int64
	Workers int
}

// Runner fans Monte Carlo runs out over a worker pool. Each run gets its own
// RNG seeded from the batch seed plus the run ID, so runs are independent of
// worker scheduling and the whole batch reproduces from one seed.
type Runner struct {
	cfg    Config
	logger *zap.Logger
}

func NewRunner(cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes the batch and returns one result per completed run, ordered
// by run ID. A failed run is logged and excluded; it does not abort the
// batch. Only context cancellation returns an error.
func (r *Runner) Run(ctx context.Context, data *strategy.MarketData) ([]model.RunResult, error) {
	if r.cfg.Runs <= 0 {
		return nil, fmt.Errorf("run count %d must be positive", r.cfg.Runs)
	}
	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > r.cfg.Runs {
		workers = r.cfg.Runs
	}

	// Slot per run ID keeps output order deterministic; failed runs leave a
	// nil slot that is compacted afterwards.
	slots := make([]*model.RunResult, r.cfg.Runs)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for runID := range jobs {
				res, err := r.single(data, runID)
				if err != nil {
					r.logger.Warn("run excluded from batch",
						zap.Int("run_id", runID),
						zap.Error(err))
					continue
				}
				slots[runID] = res
			}
		}()
	}

	var cancelled error
feed:
	for runID := 0; runID < r.cfg.Runs; runID++ {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- runID:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, fmt.Errorf("monte carlo batch: %w", cancelled)
	}

	results := make([]model.RunResult, 0, r.cfg.Runs)
	for _, res := range slots {
		if res != nil {
			results = append(results, *res)
		}
	}
	return results, nil
}

func (r *Runner) single(data *strategy.MarketData, runID int) (*model.RunResult, error) {
	seed := r.cfg.Seed + int64(runID)
	rng := rand.New(rand.NewSource(seed))

	naive := &strategy.Naive{
		Mode:    strategy.PriceRandom,
		MinBuys: r.cfg.MinBuys,
		MaxBuys: r.cfg.MaxBuys,
	}
	res, err := naive.Run(data, rng)
	if err != nil {
		return nil, err
	}
	return &model.RunResult{
		RunID:    runID,
		Seed:     seed,
		ETHSpent: res.ETHSpent,
		OPBought: res.OPAcquired,
		AvgPrice: res.AvgPrice,
	}, nil
}
