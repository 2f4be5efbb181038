package strategy

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"buybackScope/internal/model"
	"buybackScope/internal/univ3"
)

// POL deploys each day's budget as protocol-owned liquidity in one fixed
// wide range. The budget splits into ETH and OP at the range's deposit ratio
// (OP bought at the day's close, the free-swap assumption), mints liquidity
// on top of the running position, and earns a per-swap share of the day's
// trading fees. Fees earned on day T compound into day T+1's budget.
type POL struct {
	TickLower int
	TickUpper int
	FeeRate   float64
	Logger    *zap.Logger
}

func (p *POL) Name() string {
	return "pol"
}

func (p *POL) Run(data *MarketData, _ *rand.Rand) (*Result, error) {
	if p.TickLower >= p.TickUpper {
		return nil, fmt.Errorf("tick range [%d, %d] inverted: %w", p.TickLower, p.TickUpper, univ3.ErrInvalidRange)
	}
	if p.FeeRate <= 0 || p.FeeRate >= 1 {
		return nil, fmt.Errorf("fee rate %v out of (0, 1)", p.FeeRate)
	}
	priceLow, err := univ3.TickToPrice(p.TickLower)
	if err != nil {
		return nil, err
	}
	priceHigh, err := univ3.TickToPrice(p.TickUpper)
	if err != nil {
		return nil, err
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	res := &Result{Strategy: p.Name()}
	var positionL float64
	var pendingETH, pendingOP float64

	for i := 1; i < len(data.Fees); i++ {
		date := data.Fees[i].Date
		txFees := data.Fees[i-1].FeesETH

		bar, ok := data.DailyBar(date)
		if !ok {
			// No price for the day: the budget waits, nothing is deposited.
			pendingETH += txFees
			res.Days = append(res.Days, model.DayRecord{
				Date: date, Action: "skip", ETHReserve: pendingETH, Liquidity: positionL,
			})
			continue
		}
		price := bar.Close

		budget := txFees + pendingETH + pendingOP/price
		pendingETH, pendingOP = 0, 0

		ethDep, opDep, err := p.splitBudget(budget, price, priceLow, priceHigh)
		if err != nil {
			return nil, fmt.Errorf("split budget on %s: %w", date.Format("2006-01-02"), err)
		}
		added, err := univ3.LiquidityForAmounts(ethDep, opDep, price, priceLow, priceHigh)
		if err != nil {
			return nil, fmt.Errorf("mint liquidity on %s: %w", date.Format("2006-01-02"), err)
		}
		positionL += added

		feesETH, feesOP := FeesFromSwaps(positionL, p.TickLower, p.TickUpper, data.SwapsOn(date), p.FeeRate)
		pendingETH, pendingOP = feesETH, feesOP

		res.ETHSpent += budget
		res.OPAcquired += opDep
		res.FeesETH += feesETH
		res.FeesOP += feesOP
		res.Days = append(res.Days, model.DayRecord{
			Date:       date,
			Action:     "deposit",
			Price:      price,
			ETHSpent:   budget,
			OPAcquired: opDep,
			FeesETH:    feesETH,
			FeesOP:     feesOP,
			Liquidity:  positionL,
		})

		logger.Debug("liquidity deposited",
			zap.Time("date", date),
			zap.Float64("budget_eth", budget),
			zap.Float64("liquidity", positionL))
	}
	if res.ETHSpent > 0 {
		res.AvgPrice = res.OPAcquired / res.ETHSpent
	}
	return res, nil
}

// splitBudget divides an all-ETH budget into the deposit amounts the range
// requires at the current price. Out of range the deposit is single-sided.
func (p *POL) splitBudget(budget, price, priceLow, priceHigh float64) (ethDep, opDep float64, err error) {
	if budget <= 0 {
		return 0, 0, nil
	}
	region, err := univ3.RegionFor(price, priceLow, priceHigh)
	if err != nil {
		return 0, 0, err
	}
	switch region {
	case univ3.BelowRange:
		return budget, 0, nil
	case univ3.AboveRange:
		return 0, budget * price, nil
	}

	// ETH cost per OP deposited: r ETH alongside plus 1/price to buy it.
	r, _, err := univ3.MatchTokensToRange(price, priceLow, priceHigh, 1, univ3.TokenOP)
	if err != nil {
		return 0, 0, err
	}
	opDep = budget / (r + 1/price)
	return r * opDep, opDep, nil
}
