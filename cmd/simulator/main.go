package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "simulator",
		Short:        "OP/ETH treasury buyback simulator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	root.AddCommand(newAggregateCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newMonteCarloCmd())
	root.AddCommand(newCompareCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// addDataFlags registers the market-data source flags shared by every
// subcommand that loads a dataset.
func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().String("swaps-csv", "", "swap export CSV path")
	cmd.Flags().String("fees-csv", "", "daily fee CSV path")
	cmd.Flags().String("swaps-jsonl", "", "raw swap logs JSONL path")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN (overrides file inputs)")
	cmd.Flags().String("from", "", "window start, YYYY-MM-DD (Postgres only)")
	cmd.Flags().String("to", "", "window end, YYYY-MM-DD (Postgres only)")
	cmd.Flags().Float64("fee-rate", 0.003, "pool fee rate")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}
