package model

import "time"

// DailyFee is one day of sequencer fee revenue, the budget source for every
// strategy.
type DailyFee struct {
	Date    time.Time `json:"date"`
	FeesETH float64   `json:"fees_eth"`
	TxCount int       `json:"tx_count"`
}
