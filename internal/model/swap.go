package model

import "time"

// SwapRecord is one executed pool swap, the atomic unit of market data.
// Amounts follow the pool's sign convention: positive means the trader sold
// the token to the pool, negative means the trader bought it from the pool.
type SwapRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	AmountETH float64   `json:"amount_eth"`
	AmountOP  float64   `json:"amount_op"`
	Liquidity float64   `json:"liquidity"`
	Tick      int       `json:"tick"`
}

// ETHSold returns the ETH the trader paid into the pool, zero for buys.
func (s SwapRecord) ETHSold() float64 {
	if s.AmountETH > 0 {
		return s.AmountETH
	}
	return 0
}

// OPSold returns the OP the trader paid into the pool, zero for buys.
func (s SwapRecord) OPSold() float64 {
	if s.AmountOP > 0 {
		return s.AmountOP
	}
	return 0
}

// ETHBought returns the ETH the pool paid out to the trader.
func (s SwapRecord) ETHBought() float64 {
	if s.AmountETH < 0 {
		return -s.AmountETH
	}
	return 0
}

// OPBought returns the OP the pool paid out to the trader.
func (s SwapRecord) OPBought() float64 {
	if s.AmountOP < 0 {
		return -s.AmountOP
	}
	return 0
}
