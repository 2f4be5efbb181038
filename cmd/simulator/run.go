package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"buybackScope/internal/config"
	"buybackScope/internal/ingest"
	"buybackScope/internal/report"
	"buybackScope/internal/strategy"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [naive|timing|pol]",
		Short: "Run one strategy over the dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runStrategy,
	}
	addDataFlags(cmd)
	cmd.Flags().String("price-mode", "close", "naive execution price (open, close, vwap, random)")
	cmd.Flags().Int("lookback", 7, "timing signal lookback window in days")
	cmd.Flags().Int("tick-lower", 90000, "POL range lower tick")
	cmd.Flags().Int("tick-upper", 94000, "POL range upper tick")
	cmd.Flags().Int("min-buys", 1, "minimum buys per day (random mode)")
	cmd.Flags().Int("max-buys", 10, "maximum buys per day (random mode)")
	cmd.Flags().Int64("seed", 1, "rng seed (random mode)")
	cmd.Flags().String("out-dir", "./data", "output directory for the daily log CSV")
	cmd.Flags().Bool("save-pg", false, "also persist the daily log to Postgres")
	return cmd
}

func runStrategy(cmd *cobra.Command, args []string) error {
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

	strat, err := buildStrategy(args[0], cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	data, err := loadMarketData(ctx, cfg, logger)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	res, err := strat.Run(data, rng)
	if err != nil {
		return fmt.Errorf("strategy %s: %w", strat.Name(), err)
	}

	logger.Info("strategy complete",
		zap.String("strategy", res.Strategy),
		zap.Float64("eth_spent", res.ETHSpent),
		zap.Float64("op_acquired", res.OPAcquired),
		zap.Float64("fees_eth", res.FeesETH),
		zap.Float64("fees_op", res.FeesOP),
		zap.Float64("avg_price", res.AvgPrice))

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(cfg.OutDir, res.Strategy+"_daily.csv")
	if err := report.SaveDayRecords(res.Days, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Info("daily log written", zap.String("path", path))

	if savePG, _ := cmd.Flags().GetBool("save-pg"); savePG {
		if cfg.PGDSN == "" {
			return fmt.Errorf("save-pg requires pg-dsn")
		}
		store, err := ingest.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.UpsertDayRecords(ctx, res.Strategy, res.Days); err != nil {
			return fmt.Errorf("persist daily log: %w", err)
		}
	}
	return nil
}

func buildStrategy(name string, cfg config.Config, logger *zap.Logger) (strategy.Strategy, error) {
	switch name {
	case "naive":
		return &strategy.Naive{
			Mode:    strategy.PriceMode(cfg.PriceMode),
			MinBuys: cfg.MinBuys,
			MaxBuys: cfg.MaxBuys,
			Logger:  logger,
		}, nil
	case "timing":
		return &strategy.Timing{Lookback: cfg.Lookback}, nil
	case "pol":
		return &strategy.POL{
			TickLower: cfg.TickLower,
			TickUpper: cfg.TickUpper,
			FeeRate:   cfg.FeeRate,
			Logger:    logger,
		}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
