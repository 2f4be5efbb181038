package model

import "time"

// DayRecord is one simulated day of a strategy run, ordered by date.
type DayRecord struct {
	Date       time.Time `json:"date"`
	Action     string    `json:"action"`
	Price      float64   `json:"price"`
	ETHSpent   float64   `json:"eth_spent"`
	OPAcquired float64   `json:"op_acquired"`
	ETHReserve float64   `json:"eth_reserve"`
	FeesETH    float64   `json:"fees_eth"`
	FeesOP     float64   `json:"fees_op"`
	Liquidity  float64   `json:"liquidity"`
}

// RunResult is the terminal outcome of one Monte Carlo run.
type RunResult struct {
	RunID    int     `json:"run_id"`
	Seed     int64   `json:"seed"`
	ETHSpent float64 `json:"eth_spent"`
	OPBought float64 `json:"op_bought"`
	AvgPrice float64 `json:"avg_price"`
}
