package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradewatch/internal/model"
)

func TestNormalizeTrade(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	trade := NormalizeTrade(model.RawDisclosure{
		Senator:          "Nancy Pelosi",
		Ticker:           "NVDA",
		TransactionDate:  "2024-01-15",
		DisclosureDate:   "2024-02-01",
		AssetType:        "stock",
		TransactionType:  "Purchase",
		Amount:           "$1,001 - $15,000",
		AssetDescription: "NVIDIA Corporation",
		Comment:          "--",
	}, now)

	assert.Equal(t, "Nancy Pelosi", trade.PoliticianName)
	assert.Equal(t, "NVDA", trade.Ticker)
	require.NotNil(t, trade.TransactionDate)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *trade.TransactionDate)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), trade.DisclosureDate)
	assert.Equal(t, "stock", trade.AssetType)
	assert.Equal(t, "Purchase", trade.TransactionType)
	assert.Equal(t, "$1,001 - $15,000", trade.AmountRange)
	assert.Equal(t, 1001.0, trade.AmountMin)
	assert.Equal(t, 15000.0, trade.AmountMax)
	assert.Equal(t, "NVIDIA Corporation", trade.AssetDescription)
	assert.Equal(t, "--", trade.Comment)
	assert.False(t, trade.Notified)
	assert.Zero(t, trade.ID)
}

func TestNormalizeTrade_EmptyRecord(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	trade := NormalizeTrade(model.RawDisclosure{}, now)

	assert.Equal(t, UnknownPolitician, trade.PoliticianName)
	assert.Equal(t, UnknownTicker, trade.Ticker)
	assert.Equal(t, UnknownTransactionType, trade.TransactionType)
	assert.Nil(t, trade.TransactionDate)
	assert.Equal(t, now, trade.DisclosureDate)
	assert.Empty(t, trade.AmountRange)
	assert.Zero(t, trade.AmountMin)
	assert.Zero(t, trade.AmountMax)
	assert.False(t, trade.Notified)
}

func TestNormalizeTrade_MalformedDates(t *testing.T) {
	before := time.Now().UTC()
	trade := NormalizeTrade(model.RawDisclosure{
		Representative:  "Dan Crenshaw",
		TransactionDate: "01/15/2024",
		DisclosureDate:  "not a date",
	}, time.Now())

	assert.Equal(t, "Dan Crenshaw", trade.PoliticianName)
	assert.Nil(t, trade.TransactionDate)
	assert.WithinDuration(t, before, trade.DisclosureDate, 5*time.Second)
	assert.Equal(t, time.UTC, trade.DisclosureDate.Location())
}

func TestNormalizeTrade_SenatorPreferred(t *testing.T) {
	trade := NormalizeTrade(model.RawDisclosure{
		Senator:        "Tommy Tuberville",
		Representative: "Dan Crenshaw",
	}, time.Now())
	assert.Equal(t, "Tommy Tuberville", trade.PoliticianName)

	trade = NormalizeTrade(model.RawDisclosure{
		Senator:        "   ",
		Representative: "Dan Crenshaw",
	}, time.Now())
	assert.Equal(t, "Dan Crenshaw", trade.PoliticianName)
}
