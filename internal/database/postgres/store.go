package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"tradewatch/internal/model"
)

// Store implements trade storage on PostgreSQL.
type Store struct {
	Pool *pgxpool.Pool
}

// New connects a pool to the database at dsn and checks it is reachable.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return &Store{Pool: pool}, nil
}

// The dedup index treats NULL transaction dates as equal (PostgreSQL 15+).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS trades (
		id BIGSERIAL PRIMARY KEY,
		politician_name TEXT NOT NULL,
		transaction_date TIMESTAMPTZ,
		disclosure_date TIMESTAMPTZ NOT NULL,
		ticker TEXT NOT NULL,
		asset_description TEXT NOT NULL DEFAULT '',
		asset_type TEXT NOT NULL DEFAULT '',
		transaction_type TEXT NOT NULL,
		amount_range TEXT NOT NULL DEFAULT '',
		amount_min DOUBLE PRECISION NOT NULL DEFAULT 0,
		amount_max DOUBLE PRECISION NOT NULL DEFAULT 0,
		comment TEXT NOT NULL DEFAULT '',
		notified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trades_politician_name ON trades (politician_name)`,
	`CREATE INDEX IF NOT EXISTS idx_trades_ticker ON trades (ticker)`,
	`CREATE INDEX IF NOT EXISTS idx_trades_disclosure_date ON trades (disclosure_date)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_trades_dedup_key
		ON trades (politician_name, ticker, transaction_date, transaction_type) NULLS NOT DISTINCT`,
}

func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "apply schema")
		}
	}
	return nil
}

func (s *Store) TradeExists(ctx context.Context, key model.TradeKey) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM trades
		WHERE politician_name = $1
		  AND ticker = $2
		  AND transaction_date IS NOT DISTINCT FROM $3::timestamptz
		  AND transaction_type = $4
	)`

	var exists bool
	err := s.Pool.QueryRow(ctx, query,
		key.PoliticianName, key.Ticker, key.TransactionDate, key.TransactionType,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "query trade by dedup key")
	}
	return exists, nil
}

func (s *Store) AddTrade(ctx context.Context, trade model.Trade) (model.Trade, error) {
	const query = `INSERT INTO trades (
		politician_name, transaction_date, disclosure_date, ticker, asset_description,
		asset_type, transaction_type, amount_range, amount_min, amount_max, comment,
		notified, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id`

	trade.CreatedAt = time.Now().UTC()
	err := s.Pool.QueryRow(ctx, query,
		trade.PoliticianName, trade.TransactionDate, trade.DisclosureDate, trade.Ticker,
		trade.AssetDescription, trade.AssetType, trade.TransactionType, trade.AmountRange,
		trade.AmountMin, trade.AmountMax, trade.Comment, trade.Notified, trade.CreatedAt,
	).Scan(&trade.ID)
	if err != nil {
		return model.Trade{}, errors.Wrap(err, "insert trade")
	}
	return trade, nil
}

func (s *Store) MarkNotified(ctx context.Context, id int64) error {
	if _, err := s.Pool.Exec(ctx, `UPDATE trades SET notified = TRUE WHERE id = $1`, id); err != nil {
		return errors.Wrapf(err, "mark trade %d notified", id)
	}
	return nil
}

const selectColumns = `SELECT id, politician_name, transaction_date, disclosure_date, ticker,
	asset_description, asset_type, transaction_type, amount_range, amount_min, amount_max,
	comment, notified, created_at FROM trades`

func (s *Store) RecentTrades(ctx context.Context, politician string, days int) ([]model.Trade, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	var (
		rows pgx.Rows
		err  error
	)
	if politician == "" {
		rows, err = s.Pool.Query(ctx,
			selectColumns+` WHERE disclosure_date >= $1 ORDER BY disclosure_date DESC, id DESC`, cutoff)
	} else {
		rows, err = s.Pool.Query(ctx,
			selectColumns+` WHERE disclosure_date >= $1 AND politician_name = $2 ORDER BY disclosure_date DESC, id DESC`,
			cutoff, politician)
	}
	if err != nil {
		return nil, errors.Wrap(err, "query recent trades")
	}
	return collectTrades(rows)
}

func (s *Store) UnnotifiedTrades(ctx context.Context) ([]model.Trade, error) {
	rows, err := s.Pool.Query(ctx, selectColumns+` WHERE notified = FALSE ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "query unnotified trades")
	}
	return collectTrades(rows)
}

func (s *Store) Close() error {
	s.Pool.Close()
	return nil
}

func collectTrades(rows pgx.Rows) ([]model.Trade, error) {
	trades, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Trade])
	if err != nil {
		return nil, errors.Wrap(err, "scan trades")
	}
	for i := range trades {
		trades[i].DisclosureDate = trades[i].DisclosureDate.UTC()
		trades[i].CreatedAt = trades[i].CreatedAt.UTC()
		if d := trades[i].TransactionDate; d != nil {
			u := d.UTC()
			trades[i].TransactionDate = &u
		}
	}
	return trades, nil
}
