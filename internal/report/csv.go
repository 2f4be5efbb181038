package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"buybackScope/internal/model"
)

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// SaveBars writes OHLCV bars as CSV.
func SaveBars(bars []model.Bar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"start", "open", "high", "low", "close", "vwap", "op_bought", "op_sold", "eth_bought", "eth_sold", "fees_op", "fees_eth", "trade_count"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, bar := range bars {
		if err := w.Write([]string{
			bar.Start.Format("2006-01-02 15:04:05"),
			floatStr(bar.Open),
			floatStr(bar.High),
			floatStr(bar.Low),
			floatStr(bar.Close),
			floatStr(bar.VWAP),
			floatStr(bar.OPBought),
			floatStr(bar.OPSold),
			floatStr(bar.ETHBought),
			floatStr(bar.ETHSold),
			floatStr(bar.FeesOP),
			floatStr(bar.FeesETH),
			strconv.Itoa(bar.TradeCount),
		}); err != nil {
			return err
		}
	}
	return nil
}

// SaveDayRecords writes a strategy's per-day log as CSV.
func SaveDayRecords(records []model.DayRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"date", "action", "price", "eth_spent", "op_acquired", "eth_reserve", "fees_eth", "fees_op", "liquidity"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write([]string{
			rec.Date.Format("2006-01-02"),
			rec.Action,
			floatStr(rec.Price),
			floatStr(rec.ETHSpent),
			floatStr(rec.OPAcquired),
			floatStr(rec.ETHReserve),
			floatStr(rec.FeesETH),
			floatStr(rec.FeesOP),
			floatStr(rec.Liquidity),
		}); err != nil {
			return err
		}
	}
	return nil
}

// SaveRunResults writes a Monte Carlo batch's per-run outcomes as CSV.
func SaveRunResults(results []model.RunResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"run_id", "seed", "eth_spent", "op_bought", "avg_price"}); err != nil {
		return err
	}
	for _, res := range results {
		if err := w.Write([]string{
			strconv.Itoa(res.RunID),
			strconv.FormatInt(res.Seed, 10),
			floatStr(res.ETHSpent),
			floatStr(res.OPBought),
			floatStr(res.AvgPrice),
		}); err != nil {
			return err
		}
	}
	return nil
}

// SaveComparison writes the strategy comparison table as CSV.
func SaveComparison(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"strategy", "eth_spent", "op_acquired", "fees_eth", "fees_op", "net_op", "avg_price"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write([]string{
			row.Strategy,
			floatStr(row.ETHSpent),
			floatStr(row.OPBought),
			floatStr(row.FeesETH),
			floatStr(row.FeesOP),
			floatStr(row.NetOP),
			floatStr(row.AvgPrice),
		}); err != nil {
			return err
		}
	}
	return nil
}
