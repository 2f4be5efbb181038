package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"buybackScope/internal/model"
)

// Store provides Postgres persistence: swap and fee tables in, per-day and
// per-run results out.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// LoadSwaps reads the swap tape for the half-open window [from, to),
// ordered by execution time.
func (s *Store) LoadSwaps(ctx context.Context, from, to time.Time) ([]model.SwapRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT block_timestamp, price, amount_eth, amount_op, liquidity, tick
		FROM pool_swaps
		WHERE block_timestamp >= $1 AND block_timestamp < $2
		ORDER BY block_timestamp
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var swaps []model.SwapRecord
	for rows.Next() {
		var swap model.SwapRecord
		if err := rows.Scan(&swap.Timestamp, &swap.Price, &swap.AmountETH,
			&swap.AmountOP, &swap.Liquidity, &swap.Tick); err != nil {
			return nil, err
		}
		swaps = append(swaps, swap)
	}
	return swaps, rows.Err()
}

// LoadDailyFees reads fee revenue for the window [from, to), ordered by day.
func (s *Store) LoadDailyFees(ctx context.Context, from, to time.Time) ([]model.DailyFee, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT block_date, fees_eth, tx_count
		FROM daily_fees
		WHERE block_date >= $1 AND block_date < $2
		ORDER BY block_date
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fees []model.DailyFee
	for rows.Next() {
		var fee model.DailyFee
		if err := rows.Scan(&fee.Date, &fee.FeesETH, &fee.TxCount); err != nil {
			return nil, err
		}
		fees = append(fees, fee)
	}
	return fees, rows.Err()
}

// UpsertDayRecords persists one strategy's per-day log, keyed by strategy
// and date so re-running a simulation overwrites its previous results.
func (s *Store) UpsertDayRecords(ctx context.Context, strategy string, records []model.DayRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
			INSERT INTO strategy_days (
				strategy, day, action, price, eth_spent, op_acquired,
				eth_reserve, fees_eth, fees_op, liquidity, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,now(),now())
			ON CONFLICT (strategy, day)
			DO UPDATE SET
				action = EXCLUDED.action,
				price = EXCLUDED.price,
				eth_spent = EXCLUDED.eth_spent,
				op_acquired = EXCLUDED.op_acquired,
				eth_reserve = EXCLUDED.eth_reserve,
				fees_eth = EXCLUDED.fees_eth,
				fees_op = EXCLUDED.fees_op,
				liquidity = EXCLUDED.liquidity,
				updated_at = now()
		`,
			strategy,
			rec.Date,
			rec.Action,
			rec.Price,
			rec.ETHSpent,
			rec.OPAcquired,
			rec.ETHReserve,
			rec.FeesETH,
			rec.FeesOP,
			rec.Liquidity,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertRunResults persists a Monte Carlo batch under a batch label.
func (s *Store) UpsertRunResults(ctx context.Context, batchLabel string, results []model.RunResult) error {
	if len(results) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, res := range results {
		batch.Queue(`
			INSERT INTO monte_carlo_runs (
				batch_label, run_id, seed, eth_spent, op_bought, avg_price, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,now())
			ON CONFLICT (batch_label, run_id)
			DO UPDATE SET
				seed = EXCLUDED.seed,
				eth_spent = EXCLUDED.eth_spent,
				op_bought = EXCLUDED.op_bought,
				avg_price = EXCLUDED.avg_price
		`,
			batchLabel,
			res.RunID,
			res.Seed,
			res.ETHSpent,
			res.OPBought,
			res.AvgPrice,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range results {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
