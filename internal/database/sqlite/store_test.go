package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradewatch/internal/model"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "trades.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func date(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}

func sampleTrade() model.Trade {
	return model.Trade{
		PoliticianName:  "Nancy Pelosi",
		TransactionDate: date("2024-01-15"),
		DisclosureDate:  time.Now().UTC().AddDate(0, 0, -2).Truncate(time.Second),
		Ticker:          "NVDA",
		AssetType:       "stock",
		TransactionType: "Purchase",
		AmountRange:     "$1,001 - $15,000",
		AmountMin:       1001,
		AmountMax:       15000,
	}
}

func TestStore_AddTradeAssignsIdentity(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	stored, err := store.AddTrade(ctx, sampleTrade())
	require.NoError(t, err)

	assert.NotZero(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.False(t, stored.Notified)
	assert.Equal(t, "NVDA", stored.Ticker)
	assert.Equal(t, 1001.0, stored.AmountMin)
	assert.Equal(t, 15000.0, stored.AmountMax)

	second, err := store.AddTrade(ctx, sampleTrade())
	require.NoError(t, err)
	assert.NotEqual(t, stored.ID, second.ID)
}

func TestStore_TradeExists(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	trade := sampleTrade()
	exists, err := store.TradeExists(ctx, trade.Key())
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.AddTrade(ctx, trade)
	require.NoError(t, err)

	exists, err = store.TradeExists(ctx, trade.Key())
	require.NoError(t, err)
	assert.True(t, exists)

	t.Run("differs by type", func(t *testing.T) {
		key := trade.Key()
		key.TransactionType = "Sale"
		exists, err := store.TradeExists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("differs by date", func(t *testing.T) {
		key := trade.Key()
		key.TransactionDate = date("2024-01-16")
		exists, err := store.TradeExists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("nil date does not match a dated row", func(t *testing.T) {
		key := trade.Key()
		key.TransactionDate = nil
		exists, err := store.TradeExists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestStore_TradeExistsNullDatesAreDuplicates(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	trade := sampleTrade()
	trade.TransactionDate = nil
	_, err := store.AddTrade(ctx, trade)
	require.NoError(t, err)

	exists, err := store.TradeExists(ctx, model.TradeKey{
		PoliticianName:  "Nancy Pelosi",
		Ticker:          "NVDA",
		TransactionType: "Purchase",
	})
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_MarkNotified(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	stored, err := store.AddTrade(ctx, sampleTrade())
	require.NoError(t, err)

	pending, err := store.UnnotifiedTrades(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, store.MarkNotified(ctx, stored.ID))
	require.NoError(t, store.MarkNotified(ctx, stored.ID))
	require.NoError(t, store.MarkNotified(ctx, 9999))

	pending, err = store.UnnotifiedTrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestStore_RecentTrades(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	add := func(name, ticker string, disclosedDaysAgo int) {
		trade := sampleTrade()
		trade.PoliticianName = name
		trade.Ticker = ticker
		trade.DisclosureDate = now.AddDate(0, 0, -disclosedDaysAgo)
		_, err := store.AddTrade(ctx, trade)
		require.NoError(t, err)
	}
	add("Nancy Pelosi", "AAPL", 5)
	add("Nancy Pelosi", "MSFT", 1)
	add("Dan Crenshaw", "TSLA", 3)
	add("Nancy Pelosi", "GOOG", 45)

	all, err := store.RecentTrades(ctx, "", 30)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"MSFT", "TSLA", "AAPL"}, tickers(all))

	pelosi, err := store.RecentTrades(ctx, "Nancy Pelosi", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"MSFT", "AAPL"}, tickers(pelosi))

	wide, err := store.RecentTrades(ctx, "Nancy Pelosi", 60)
	require.NoError(t, err)
	assert.Len(t, wide, 3)
}

func tickers(trades []model.Trade) []string {
	out := make([]string, 0, len(trades))
	for _, trade := range trades {
		out = append(out, trade.Ticker)
	}
	return out
}
