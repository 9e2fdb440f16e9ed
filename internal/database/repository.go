package database

import (
	"context"

	"tradewatch/internal/model"
)

// Repository defines the standard interface for trade storage. Rows are
// append-only; the notified flag is the only field that changes after insert.
type Repository interface {
	Migrate(ctx context.Context) error
	TradeExists(ctx context.Context, key model.TradeKey) (bool, error)
	AddTrade(ctx context.Context, trade model.Trade) (model.Trade, error)
	MarkNotified(ctx context.Context, id int64) error
	RecentTrades(ctx context.Context, politician string, days int) ([]model.Trade, error)
	UnnotifiedTrades(ctx context.Context) ([]model.Trade, error)
	Close() error
}
