package montecarlo

import (
	"context"
	"testing"
	"time"

	"buybackScope/internal/model"
	"buybackScope/internal/strategy"
)

func testData(days int) *strategy.MarketData {
	data := &strategy.MarketData{}
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		date := base.AddDate(0, 0, i)
		data.Fees = append(data.Fees, model.DailyFee{Date: date, FeesETH: 0.5})
		for h := 0; h < 24; h++ {
			data.Hourly = append(data.Hourly, model.Bar{
				Start: date.Add(time.Duration(h) * time.Hour),
				Open:  10000, High: 10500, Low: 9500, Close: 10000,
			})
		}
	}
	return data
}

func TestRunReproducible(t *testing.T) {
	data := testData(8)
	cfg := Config{Runs: 20, MinBuys: 1, MaxBuys: 10, Seed: 99, Workers: 4}

	first, err := NewRunner(cfg, nil).Run(context.Background(), data)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	second, err := NewRunner(cfg, nil).Run(context.Background(), data)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(first) != cfg.Runs || len(second) != cfg.Runs {
		t.Fatalf("run counts: %d, %d, want %d", len(first), len(second), cfg.Runs)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("run %d diverged across identical batches:\n%+v\n%+v", i, first[i], second[i])
		}
	}
}

func TestRunOrderedAndDistinct(t *testing.T) {
	data := testData(8)
	cfg := Config{Runs: 10, MinBuys: 1, MaxBuys: 10, Seed: 7, Workers: 3}

	results, err := NewRunner(cfg, nil).Run(context.Background(), data)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	distinct := false
	for i, res := range results {
		if res.RunID != i {
			t.Fatalf("result %d has run ID %d, want ordered output", i, res.RunID)
		}
		if res.Seed != cfg.Seed+int64(i) {
			t.Fatalf("run %d seed = %d, want %d", i, res.Seed, cfg.Seed+int64(i))
		}
		if i > 0 && res.OPBought != results[0].OPBought {
			distinct = true
		}
	}
	if !distinct {
		t.Fatalf("all runs identical; per-run seeds not taking effect")
	}
}

func TestRunExcludesFailedRuns(t *testing.T) {
	// Inverted buys range makes every run fail validation.
	data := testData(4)
	cfg := Config{Runs: 5, MinBuys: 9, MaxBuys: 2, Seed: 1, Workers: 2}

	results, err := NewRunner(cfg, nil).Run(context.Background(), data)
	if err != nil {
		t.Fatalf("failed runs must not abort the batch: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results from all-failing batch", len(results))
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(Config{Runs: 100, MinBuys: 1, MaxBuys: 5, Seed: 1, Workers: 2}, nil).
		Run(ctx, testData(8))
	if err == nil {
		t.Fatalf("cancelled context must surface an error")
	}
}

func TestRunInvalidCount(t *testing.T) {
	if _, err := NewRunner(Config{Runs: 0}, nil).Run(context.Background(), testData(2)); err == nil {
		t.Fatalf("zero runs must fail")
	}
}
