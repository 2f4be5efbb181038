package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"buybackScope/internal/config"
	"buybackScope/internal/ingest"
	"buybackScope/internal/montecarlo"
	"buybackScope/internal/report"
)

func newMonteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Run a Monte Carlo batch of naive random buys",
		RunE:  runMonteCarlo,
	}
	addDataFlags(cmd)
	cmd.Flags().Int("runs", 1000, "number of independent runs")
	cmd.Flags().Int("min-buys", 1, "minimum buys per day")
	cmd.Flags().Int("max-buys", 10, "maximum buys per day")
	cmd.Flags().Int64("seed", 1, "batch seed; run i uses seed+i")
	cmd.Flags().Int("workers", 0, "parallel workers (0 = num CPUs)")
	cmd.Flags().String("out-dir", "./data", "output directory for the run CSV")
	cmd.Flags().String("batch-label", "", "also persist runs to Postgres under this label")
	return cmd
}

func runMonteCarlo(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data, err := loadMarketData(ctx, cfg, logger)
	if err != nil {
		return err
	}

	runner := montecarlo.NewRunner(montecarlo.Config{
		Runs:    cfg.Runs,
		MinBuys: cfg.MinBuys,
		MaxBuys: cfg.MaxBuys,
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
	}, logger)

	results, err := runner.Run(ctx, data)
	if err != nil {
		return err
	}
	if len(results) < cfg.Runs {
		logger.Warn("some runs excluded",
			zap.Int("requested", cfg.Runs),
			zap.Int("completed", len(results)))
	}

	dist, err := report.Summarize(results)
	if err != nil {
		return err
	}
	logger.Info("monte carlo complete",
		zap.Int("runs", dist.Runs),
		zap.Float64("op_mean", dist.Mean),
		zap.Float64("op_median", dist.Median),
		zap.Float64("op_stddev", dist.StdDev),
		zap.Float64("op_p5", dist.P5),
		zap.Float64("op_p95", dist.P95),
		zap.Float64("avg_price", dist.AvgPrice))

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(cfg.OutDir, "monte_carlo_runs.csv")
	if err := report.SaveRunResults(results, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("run results written", zap.String("path", path))

	if label, _ := cmd.Flags().GetString("batch-label"); label != "" {
		if cfg.PGDSN == "" {
			return fmt.Errorf("batch-label requires pg-dsn")
		}
		store, err := ingest.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.UpsertRunResults(ctx, label, results); err != nil {
			return fmt.Errorf("persist runs: %w", err)
		}
	}
	return nil
}
