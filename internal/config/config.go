package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds simulator settings loaded from flags, env, or config file.
type Config struct {
	// Data sources. CSV paths and the JSONL log export are mutually
	// exclusive with the Postgres DSN; whichever is set wins.
	SwapsCSV   string
	FeesCSV    string
	SwapsJSONL string
	PGDSN      string
	From       string
	To         string

	// Pool parameters.
	TickLower   int
	TickUpper   int
	TickSpacing int
	FeeRate     float64

	// Strategy parameters.
	PriceMode string
	Lookback  int

	// Monte Carlo parameters.
	Runs    int
	MinBuys int
	MaxBuys int
	Seed    int64
	Workers int

	OutDir   string
	LogLevel string
}

// Load merges config file, environment variables, and flags into Config.
// Environment variables use the BUYBACK_ prefix with dashes as underscores.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BUYBACK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("tick-lower", 90000)
	v.SetDefault("tick-upper", 94000)
	v.SetDefault("tick-spacing", 60)
	v.SetDefault("fee-rate", 0.003)
	v.SetDefault("price-mode", "close")
	v.SetDefault("lookback", 7)
	v.SetDefault("runs", 1000)
	v.SetDefault("min-buys", 1)
	v.SetDefault("max-buys", 10)
	v.SetDefault("seed", int64(1))
	v.SetDefault("out-dir", "./data")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		SwapsCSV:    v.GetString("swaps-csv"),
		FeesCSV:     v.GetString("fees-csv"),
		SwapsJSONL:  v.GetString("swaps-jsonl"),
		PGDSN:       v.GetString("pg-dsn"),
		From:        v.GetString("from"),
		To:          v.GetString("to"),
		TickLower:   v.GetInt("tick-lower"),
		TickUpper:   v.GetInt("tick-upper"),
		TickSpacing: v.GetInt("tick-spacing"),
		FeeRate:     v.GetFloat64("fee-rate"),
		PriceMode:   v.GetString("price-mode"),
		Lookback:    v.GetInt("lookback"),
		Runs:        v.GetInt("runs"),
		MinBuys:     v.GetInt("min-buys"),
		MaxBuys:     v.GetInt("max-buys"),
		Seed:        v.GetInt64("seed"),
		Workers:     v.GetInt("workers"),
		OutDir:      v.GetString("out-dir"),
		LogLevel:    v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the parameter combinations the simulator cannot run
// without.
func (c Config) Validate() error {
	if c.TickLower >= c.TickUpper {
		return fmt.Errorf("tick range [%d, %d] inverted", c.TickLower, c.TickUpper)
	}
	if c.TickSpacing <= 0 {
		return fmt.Errorf("tick spacing %d must be positive", c.TickSpacing)
	}
	if c.FeeRate <= 0 || c.FeeRate >= 1 {
		return fmt.Errorf("fee rate %v out of (0, 1)", c.FeeRate)
	}
	if c.MinBuys < 1 || c.MaxBuys < c.MinBuys {
		return fmt.Errorf("buys range [%d, %d] invalid", c.MinBuys, c.MaxBuys)
	}
	if c.Lookback < 1 {
		return fmt.Errorf("lookback %d must be at least one day", c.Lookback)
	}
	return nil
}
