package ingest

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"strings"
	"testing"
	"time"
)

const swapCSV = `BLOCK_TIMESTAMP,AMOUNT0_RAW,AMOUNT1_RAW,SQRTPRICEX96,LIQUIDITY,TICK
2026-01-05 12:00:00,2000000000000000000,-19940000000000000000000,79228162514264337593543950336,1000000,92100
2026-01-05 12:30:00,-1000000000000000000,9970000000000000000000,79228162514264337593543950336,1000000,92100
`

func TestSwapsFromCSV(t *testing.T) {
	swaps, err := SwapsFromCSV(strings.NewReader(swapCSV))
	if err != nil {
		t.Fatalf("SwapsFromCSV failed: %v", err)
	}
	if len(swaps) != 2 {
		t.Fatalf("got %d swaps, want 2", len(swaps))
	}

	first := swaps[0]
	if math.Abs(first.AmountETH-2) > 1e-12 || math.Abs(first.AmountOP+19940) > 1e-9 {
		t.Fatalf("amounts mismatch: %+v", first)
	}
	if math.Abs(first.Price-1) > 1e-12 {
		t.Fatalf("price = %v, want 1", first.Price)
	}
	if first.Tick != 92100 || first.Liquidity != 1_000_000 {
		t.Fatalf("tick/liquidity mismatch: %+v", first)
	}
	want := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", first.Timestamp, want)
	}
	if swaps[1].AmountETH >= 0 || swaps[1].AmountOP <= 0 {
		t.Fatalf("signs lost on second row: %+v", swaps[1])
	}
}

func TestSwapsFromCSVMissingColumn(t *testing.T) {
	bad := "BLOCK_TIMESTAMP,AMOUNT0_RAW\n2026-01-05 12:00:00,1\n"
	if _, err := SwapsFromCSV(strings.NewReader(bad)); err == nil {
		t.Fatalf("missing columns must fail")
	}
}

func TestDailyFeesFromCSV(t *testing.T) {
	src := "block_date,fees_eth,tx_count\n2026-01-05,1.25,31400\n2026-01-06,0.75,29000\n"
	fees, err := DailyFeesFromCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DailyFeesFromCSV failed: %v", err)
	}
	if len(fees) != 2 {
		t.Fatalf("got %d fee days, want 2", len(fees))
	}
	if fees[0].FeesETH != 1.25 || fees[0].TxCount != 31400 {
		t.Fatalf("first day mismatch: %+v", fees[0])
	}
	want := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if !fees[0].Date.Equal(want) {
		t.Fatalf("date = %v, want %v", fees[0].Date, want)
	}
}

func TestDailyFeesFromCSVBadDate(t *testing.T) {
	src := "block_date,fees_eth\nJan 5,1.0\n"
	if _, err := DailyFeesFromCSV(strings.NewReader(src)); err == nil {
		t.Fatalf("unparseable date must fail")
	}
}

func TestDecodeAllSkipsForeignLogs(t *testing.T) {
	decoder, err := NewSwapDecoder(nil)
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	sqrtPrice, _ := new(big.Int).SetString("79228162514264337593543950336", 10)
	swapLog := buildSwapLog(t, big.NewInt(5), big.NewInt(-5), sqrtPrice, big.NewInt(10), big.NewInt(0))
	foreign := swapLog
	foreign.Topics = []string{"0x" + strings.Repeat("cd", 32)}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, log := range []RawLog{swapLog, foreign, swapLog} {
		if err := enc.Encode(log); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	swaps, err := decoder.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}
	if len(swaps) != 2 {
		t.Fatalf("got %d swaps, want 2 (foreign line skipped)", len(swaps))
	}
}
