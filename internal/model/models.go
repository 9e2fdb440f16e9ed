package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"time"
)

// Trade is one disclosed transaction by a tracked politician.
type Trade struct {
	ID               int64      `db:"id"`
	PoliticianName   string     `db:"politician_name"`
	TransactionDate  *time.Time `db:"transaction_date"`
	DisclosureDate   time.Time  `db:"disclosure_date"`
	Ticker           string     `db:"ticker"`
	AssetDescription string     `db:"asset_description"`
	AssetType        string     `db:"asset_type"`
	TransactionType  string     `db:"transaction_type"`
	AmountRange      string     `db:"amount_range"`
	AmountMin        float64    `db:"amount_min"`
	AmountMax        float64    `db:"amount_max"`
	Comment          string     `db:"comment"`
	Notified         bool       `db:"notified"`
	CreatedAt        time.Time  `db:"created_at"`
}

// Key returns the dedup key of the trade.
func (t Trade) Key() TradeKey {
	return TradeKey{
		PoliticianName:  t.PoliticianName,
		Ticker:          t.Ticker,
		TransactionDate: t.TransactionDate,
		TransactionType: t.TransactionType,
	}
}

// TradeKey identifies a trade for deduplication. A nil TransactionDate
// matches only other trades with a nil TransactionDate.
type TradeKey struct {
	PoliticianName  string
	Ticker          string
	TransactionDate *time.Time
	TransactionType string
}

// RawDisclosure is one element of the inbound feed array.
type RawDisclosure struct {
	Senator          FeedText `json:"senator"`
	Representative   FeedText `json:"representative"`
	Ticker           FeedText `json:"ticker"`
	TransactionDate  FeedText `json:"transaction_date"`
	DisclosureDate   FeedText `json:"disclosure_date"`
	AssetType        FeedText `json:"type"`
	TransactionType  FeedText `json:"transaction_type"`
	Amount           FeedText `json:"amount"`
	AssetDescription FeedText `json:"asset_description"`
	Comment          FeedText `json:"comment"`
}

// FeedText is a loosely typed feed value: strings are kept as-is, numbers and
// booleans keep their JSON text, null and absent fields are empty.
type FeedText string

var feedTextType = reflect.TypeOf(FeedText(""))

func (f *FeedText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FeedText(s)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		return &json.UnmarshalTypeError{Value: "object", Type: feedTextType}
	}
	*f = FeedText(data)
	return nil
}

// String returns the value with surrounding whitespace removed.
func (f FeedText) String() string {
	return strings.TrimSpace(string(f))
}

// Present reports whether the field carried a non-blank value.
func (f FeedText) Present() bool {
	return f.String() != ""
}
