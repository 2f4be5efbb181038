// Package ingest loads market data from its three sources: raw Uniswap V3
// Swap logs, CSV exports, and Postgres. Everything funnels into the model
// types the simulator consumes.
package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"buybackScope/internal/model"
	"buybackScope/internal/univ3"
)

// tokenDecimals is shared by WETH and OP, so raw amounts scale uniformly.
const tokenDecimals = 18

const swapABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "recipient", "type": "address"},
      {"indexed": false, "internalType": "int256", "name": "amount0", "type": "int256"},
      {"indexed": false, "internalType": "int256", "name": "amount1", "type": "int256"},
      {"indexed": false, "internalType": "uint160", "name": "sqrtPriceX96", "type": "uint160"},
      {"indexed": false, "internalType": "uint128", "name": "liquidity", "type": "uint128"},
      {"indexed": false, "internalType": "int24", "name": "tick", "type": "int24"}
    ],
    "name": "Swap",
    "type": "event"
  }
]`

var (
	swapABI     abi.ABI
	swapABIOnce sync.Once
	swapABIErr  error
)

func poolSwapABI() (abi.ABI, error) {
	swapABIOnce.Do(func() {
		swapABI, swapABIErr = abi.JSON(strings.NewReader(swapABIJSON))
	})
	return swapABI, swapABIErr
}

// RawLog is one exported pool log line as the indexer wrote it.
type RawLog struct {
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	BlockNumber uint64   `json:"block_number"`
	TxHash      string   `json:"tx_hash"`
	Timestamp   int64    `json:"timestamp"`
}

// SwapDecoder turns raw OP/WETH pool Swap logs into swap records. In this
// pool token0 is WETH and token1 is OP, so the decoded price is OP per ETH.
type SwapDecoder struct {
	event  abi.Event
	logger *zap.Logger
}

func NewSwapDecoder(logger *zap.Logger) (*SwapDecoder, error) {
	parsed, err := poolSwapABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SwapDecoder{event: parsed.Events["Swap"], logger: logger}, nil
}

// Topic0 returns the Swap event signature hash.
func (d *SwapDecoder) Topic0() string {
	return strings.ToLower(d.event.ID.Hex())
}

// CanDecode reports whether the log's topic0 is the Swap signature.
func (d *SwapDecoder) CanDecode(topic0 string) bool {
	return strings.ToLower(topic0) == d.Topic0()
}

// Decode converts one Swap log into a swap record.
func (d *SwapDecoder) Decode(log RawLog) (model.SwapRecord, error) {
	if len(log.Topics) != 3 {
		return model.SwapRecord{}, fmt.Errorf("expected 3 topics, got %d", len(log.Topics))
	}
	if !d.CanDecode(log.Topics[0]) {
		return model.SwapRecord{}, fmt.Errorf("unsupported topic0: %s", log.Topics[0])
	}

	data, err := hexutil.Decode(log.Data)
	if err != nil {
		return model.SwapRecord{}, fmt.Errorf("invalid data: %w", err)
	}
	values, err := d.event.Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return model.SwapRecord{}, fmt.Errorf("unpack swap: %w", err)
	}
	if len(values) != 5 {
		return model.SwapRecord{}, fmt.Errorf("unexpected swap values: %d", len(values))
	}

	amount0, err := asBigInt(values[0])
	if err != nil {
		return model.SwapRecord{}, err
	}
	amount1, err := asBigInt(values[1])
	if err != nil {
		return model.SwapRecord{}, err
	}
	sqrtPrice, err := asBigInt(values[2])
	if err != nil {
		return model.SwapRecord{}, err
	}
	liquidity, err := asBigInt(values[3])
	if err != nil {
		return model.SwapRecord{}, err
	}
	tickBig, err := asBigInt(values[4])
	if err != nil {
		return model.SwapRecord{}, err
	}
	tick, err := int24FromBig(tickBig)
	if err != nil {
		return model.SwapRecord{}, err
	}

	price, err := univ3.ParseSqrtPriceX96(sqrtPrice.String(), 1)
	if err != nil {
		return model.SwapRecord{}, fmt.Errorf("sqrt price: %w", err)
	}

	return model.SwapRecord{
		Timestamp: unixTime(log.Timestamp),
		Price:     price,
		AmountETH: scaleTokenAmount(amount0),
		AmountOP:  scaleTokenAmount(amount1),
		Liquidity: decimal.NewFromBigInt(liquidity, 0).InexactFloat64(),
		Tick:      tick,
	}, nil
}

// DecodeAll reads JSONL-exported logs and decodes every Swap line. Lines
// with a foreign topic0 are skipped; a malformed Swap line is an error.
func (d *SwapDecoder) DecodeAll(r io.Reader) ([]model.SwapRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var swaps []model.SwapRecord
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var log RawLog
		if err := json.Unmarshal([]byte(text), &log); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(log.Topics) == 0 || !d.CanDecode(log.Topics[0]) {
			d.logger.Debug("skipping non-swap log", zap.Int("line", line))
			continue
		}
		swap, err := d.Decode(log)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		swaps = append(swaps, swap)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return swaps, nil
}

// scaleTokenAmount converts a raw signed 18-decimal amount to a float,
// going through decimal so the scaling itself is exact.
func scaleTokenAmount(raw *big.Int) float64 {
	return decimal.NewFromBigInt(raw, -tokenDecimals).InexactFloat64()
}

func unixTime(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}

func asBigInt(value interface{}) (*big.Int, error) {
	parsed, ok := value.(*big.Int)
	if !ok || parsed == nil {
		return nil, fmt.Errorf("expected big int, got %T", value)
	}
	return parsed, nil
}

func int24FromBig(value *big.Int) (int, error) {
	if value == nil {
		return 0, fmt.Errorf("nil tick")
	}
	if !value.IsInt64() {
		return 0, fmt.Errorf("tick overflows: %s", value)
	}
	tick := value.Int64()
	if tick < -8388608 || tick > 8388607 {
		return 0, fmt.Errorf("tick %d outside int24", tick)
	}
	return int(tick), nil
}
