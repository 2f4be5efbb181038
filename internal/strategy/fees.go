package strategy

import (
	"buybackScope/internal/model"
	"buybackScope/internal/univ3"
)

// FeesFromSwaps attributes LP fees to a position over a trade tape. Only
// swaps executing at a tick inside [tickLower, tickUpper] count, and the
// position's share is recomputed per swap from the pool liquidity recorded
// at execution, since pool liquidity moves between swaps. Fees accrue in
// the token each trader sold into the pool.
func FeesFromSwaps(positionL float64, tickLower, tickUpper int, swaps []model.SwapRecord, feeRate float64) (feesETH, feesOP float64) {
	if positionL <= 0 {
		return 0, 0
	}
	for _, swap := range swaps {
		if swap.Tick < tickLower || swap.Tick > tickUpper {
			continue
		}
		share := univ3.FeeShare(positionL, swap.Liquidity)
		feesETH += swap.ETHSold() * share * feeRate
		feesOP += swap.OPSold() * share * feeRate
	}
	return feesETH, feesOP
}
