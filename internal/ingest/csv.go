package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"buybackScope/internal/model"
	"buybackScope/internal/univ3"
)

// Swap CSV exports carry raw 18-decimal integer amounts and the X96 sqrt
// price; parsing goes through decimal strings so no precision is lost
// before the final float conversion.

var swapTimestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

type columnIndex map[string]int

func indexHeader(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

func (c columnIndex) get(record []string, names ...string) (string, bool) {
	for _, name := range names {
		if i, ok := c[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i]), true
		}
	}
	return "", false
}

// SwapsFromCSV parses a swap export. Required columns (case-insensitive):
// block_timestamp, amount0_raw, amount1_raw, sqrtpricex96; liquidity and
// tick are optional and default to zero.
func SwapsFromCSV(r io.Reader) ([]model.SwapRecord, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexHeader(header)

	var swaps []model.SwapRecord
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		swap, err := swapFromRecord(cols, record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		swaps = append(swaps, swap)
	}
	return swaps, nil
}

func swapFromRecord(cols columnIndex, record []string) (model.SwapRecord, error) {
	tsText, ok := cols.get(record, "block_timestamp", "timestamp")
	if !ok {
		return model.SwapRecord{}, fmt.Errorf("missing block_timestamp column")
	}
	ts, err := parseTimestamp(tsText)
	if err != nil {
		return model.SwapRecord{}, err
	}

	eth, err := requireRawAmount(cols, record, "amount0_raw", "amount_eth_raw")
	if err != nil {
		return model.SwapRecord{}, err
	}
	op, err := requireRawAmount(cols, record, "amount1_raw", "amount_op_raw")
	if err != nil {
		return model.SwapRecord{}, err
	}

	sqrtText, ok := cols.get(record, "sqrtpricex96", "sqrt_price_x96")
	if !ok {
		return model.SwapRecord{}, fmt.Errorf("missing sqrtpricex96 column")
	}
	price, err := univ3.ParseSqrtPriceX96(sqrtText, 1)
	if err != nil {
		return model.SwapRecord{}, fmt.Errorf("sqrt price: %w", err)
	}

	swap := model.SwapRecord{
		Timestamp: ts,
		Price:     price,
		AmountETH: eth,
		AmountOP:  op,
	}

	if text, ok := cols.get(record, "liquidity"); ok && text != "" {
		liq, err := decimal.NewFromString(text)
		if err != nil {
			return model.SwapRecord{}, fmt.Errorf("liquidity: %w", err)
		}
		swap.Liquidity = liq.InexactFloat64()
	}
	if text, ok := cols.get(record, "tick"); ok && text != "" {
		tick, err := strconv.Atoi(text)
		if err != nil {
			return model.SwapRecord{}, fmt.Errorf("tick: %w", err)
		}
		swap.Tick = tick
	}
	return swap, nil
}

func requireRawAmount(cols columnIndex, record []string, names ...string) (float64, error) {
	text, ok := cols.get(record, names...)
	if !ok {
		return 0, fmt.Errorf("missing %s column", names[0])
	}
	raw, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", names[0], err)
	}
	return raw.Shift(-tokenDecimals).InexactFloat64(), nil
}

func parseTimestamp(text string) (time.Time, error) {
	for _, layout := range swapTimestampLayouts {
		if ts, err := time.Parse(layout, text); err == nil {
			return ts.UTC(), nil
		}
	}
	// Fall back to epoch seconds.
	if secs, err := strconv.ParseInt(text, 10, 64); err == nil {
		return unixTime(secs), nil
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", text)
}

// DailyFeesFromCSV parses a daily fee export with columns block_date,
// fees_eth and optional tx_count. Rows come back ordered as written.
func DailyFeesFromCSV(r io.Reader) ([]model.DailyFee, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexHeader(header)

	var fees []model.DailyFee
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		dateText, ok := cols.get(record, "block_date", "date")
		if !ok {
			return nil, fmt.Errorf("line %d: missing block_date column", line)
		}
		date, err := time.Parse("2006-01-02", dateText)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		feeText, ok := cols.get(record, "fees_eth", "total_fees_eth")
		if !ok {
			return nil, fmt.Errorf("line %d: missing fees_eth column", line)
		}
		feeETH, err := strconv.ParseFloat(feeText, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: fees_eth: %w", line, err)
		}

		fee := model.DailyFee{Date: date.UTC(), FeesETH: feeETH}
		if text, ok := cols.get(record, "tx_count"); ok && text != "" {
			count, err := strconv.Atoi(text)
			if err != nil {
				return nil, fmt.Errorf("line %d: tx_count: %w", line, err)
			}
			fee.TxCount = count
		}
		fees = append(fees, fee)
	}
	return fees, nil
}
