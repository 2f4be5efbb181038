package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"buybackScope/internal/aggregate"
	"buybackScope/internal/config"
	"buybackScope/internal/ingest"
	"buybackScope/internal/model"
	"buybackScope/internal/strategy"
)

// loadMarketData assembles the immutable dataset a simulation runs on:
// swaps from Postgres, CSV, or a raw log export, daily fees alongside, and
// bars aggregated from the swap tape.
func loadMarketData(ctx context.Context, cfg config.Config, logger *zap.Logger) (*strategy.MarketData, error) {
	var (
		swaps []model.SwapRecord
		fees  []model.DailyFee
		err   error
	)

	switch {
	case cfg.PGDSN != "":
		swaps, fees, err = loadFromPostgres(ctx, cfg)
	case cfg.SwapsCSV != "" || cfg.SwapsJSONL != "":
		swaps, fees, err = loadFromFiles(cfg, logger)
	default:
		return nil, fmt.Errorf("a data source is required: --pg-dsn, --swaps-csv, or --swaps-jsonl")
	}
	if err != nil {
		return nil, err
	}
	if len(fees) == 0 {
		return nil, fmt.Errorf("daily fee data is required")
	}

	hourly, err := aggregate.Bars(swaps, time.Hour, cfg.FeeRate)
	if err != nil {
		return nil, fmt.Errorf("aggregate hourly bars: %w", err)
	}
	daily := aggregate.DailyFromHourly(hourly)

	logger.Info("market data loaded",
		zap.Int("swaps", len(swaps)),
		zap.Int("fee_days", len(fees)),
		zap.Int("hourly_bars", len(hourly)),
		zap.Int("daily_bars", len(daily)))

	return &strategy.MarketData{
		Fees:   fees,
		Daily:  daily,
		Hourly: hourly,
		Swaps:  swaps,
	}, nil
}

func loadFromPostgres(ctx context.Context, cfg config.Config) ([]model.SwapRecord, []model.DailyFee, error) {
	from, to, err := parseWindow(cfg.From, cfg.To)
	if err != nil {
		return nil, nil, err
	}

	store, err := ingest.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	swaps, err := store.LoadSwaps(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("load swaps: %w", err)
	}
	fees, err := store.LoadDailyFees(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("load daily fees: %w", err)
	}
	return swaps, fees, nil
}

func loadFromFiles(cfg config.Config, logger *zap.Logger) ([]model.SwapRecord, []model.DailyFee, error) {
	if cfg.FeesCSV == "" {
		return nil, nil, fmt.Errorf("fees-csv is required with file inputs")
	}

	var swaps []model.SwapRecord
	switch {
	case cfg.SwapsCSV != "":
		f, err := os.Open(cfg.SwapsCSV)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		swaps, err = ingest.SwapsFromCSV(f)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", cfg.SwapsCSV, err)
		}
	case cfg.SwapsJSONL != "":
		decoder, err := ingest.NewSwapDecoder(logger)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.Open(cfg.SwapsJSONL)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		swaps, err = decoder.DecodeAll(f)
		if err != nil {
			return nil, nil, fmt.Errorf("decode %s: %w", cfg.SwapsJSONL, err)
		}
	}

	f, err := os.Open(cfg.FeesCSV)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	fees, err := ingest.DailyFeesFromCSV(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", cfg.FeesCSV, err)
	}
	return swaps, fees, nil
}

func parseWindow(fromText, toText string) (time.Time, time.Time, error) {
	if fromText == "" || toText == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("from and to dates are required with pg-dsn")
	}
	from, err := time.Parse("2006-01-02", fromText)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse from: %w", err)
	}
	to, err := time.Parse("2006-01-02", toText)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse to: %w", err)
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("from %s must precede to %s", fromText, toText)
	}
	return from.UTC(), to.UTC(), nil
}
