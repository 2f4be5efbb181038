package model

import "time"

// Bar is an aggregated OHLCV window over swap records. Prices are OP per
// ETH; volumes and fees are split by trade direction. Read-only after
// construction.
type Bar struct {
	Start      time.Time `json:"start"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Close      float64   `json:"close"`
	VWAP       float64   `json:"vwap"`
	OPBought   float64   `json:"op_bought"`
	OPSold     float64   `json:"op_sold"`
	ETHBought  float64   `json:"eth_bought"`
	ETHSold    float64   `json:"eth_sold"`
	FeesOP     float64   `json:"fees_op"`
	FeesETH    float64   `json:"fees_eth"`
	TradeCount int       `json:"trade_count"`
}
