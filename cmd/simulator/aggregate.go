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
	"buybackScope/internal/report"
)

func newAggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate raw swaps into hourly and daily OHLCV bars",
		RunE:  runAggregate,
	}
	addDataFlags(cmd)
	cmd.Flags().String("out-dir", "./data", "output directory for bar CSVs")
	return cmd
}

func runAggregate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
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
	if len(data.Hourly) == 0 {
		return fmt.Errorf("no swaps to aggregate")
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}
	hourlyPath := filepath.Join(cfg.OutDir, "hourly_ohlcv.csv")
	dailyPath := filepath.Join(cfg.OutDir, "daily_ohlcv.csv")
	if err := report.SaveBars(data.Hourly, hourlyPath); err != nil {
		return fmt.Errorf("write %s: %w", hourlyPath, err)
	}
	if err := report.SaveBars(data.Daily, dailyPath); err != nil {
		return fmt.Errorf("write %s: %w", dailyPath, err)
	}

	logger.Info("bars written",
		zap.String("hourly", hourlyPath),
		zap.String("daily", dailyPath))
	return nil
}
