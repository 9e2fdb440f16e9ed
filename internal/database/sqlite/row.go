package sqlite

import (
	"time"

	"tradewatch/internal/model"
)

type tradeRow struct {
	ID               int64      `gorm:"column:id;primaryKey;autoIncrement"`
	PoliticianName   string     `gorm:"column:politician_name;type:text;not null;index;index:idx_trades_dedup_key,priority:1"`
	TransactionDate  *time.Time `gorm:"column:transaction_date;index:idx_trades_dedup_key,priority:3"`
	DisclosureDate   time.Time  `gorm:"column:disclosure_date;not null;index"`
	Ticker           string     `gorm:"column:ticker;type:text;not null;index;index:idx_trades_dedup_key,priority:2"`
	AssetDescription string     `gorm:"column:asset_description;type:text;not null;default:''"`
	AssetType        string     `gorm:"column:asset_type;type:text;not null;default:''"`
	TransactionType  string     `gorm:"column:transaction_type;type:text;not null;index:idx_trades_dedup_key,priority:4"`
	AmountRange      string     `gorm:"column:amount_range;type:text;not null;default:''"`
	AmountMin        float64    `gorm:"column:amount_min;not null;default:0"`
	AmountMax        float64    `gorm:"column:amount_max;not null;default:0"`
	Comment          string     `gorm:"column:comment;type:text;not null;default:''"`
	Notified         bool       `gorm:"column:notified;not null;default:false"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null"`
}

func (tradeRow) TableName() string {
	return "trades"
}

func newTradeRow(t model.Trade) tradeRow {
	return tradeRow{
		ID:               t.ID,
		PoliticianName:   t.PoliticianName,
		TransactionDate:  utcPtr(t.TransactionDate),
		DisclosureDate:   t.DisclosureDate.UTC(),
		Ticker:           t.Ticker,
		AssetDescription: t.AssetDescription,
		AssetType:        t.AssetType,
		TransactionType:  t.TransactionType,
		AmountRange:      t.AmountRange,
		AmountMin:        t.AmountMin,
		AmountMax:        t.AmountMax,
		Comment:          t.Comment,
		Notified:         t.Notified,
		CreatedAt:        t.CreatedAt.UTC(),
	}
}

func (r tradeRow) toModel() model.Trade {
	return model.Trade{
		ID:               r.ID,
		PoliticianName:   r.PoliticianName,
		TransactionDate:  utcPtr(r.TransactionDate),
		DisclosureDate:   r.DisclosureDate.UTC(),
		Ticker:           r.Ticker,
		AssetDescription: r.AssetDescription,
		AssetType:        r.AssetType,
		TransactionType:  r.TransactionType,
		AmountRange:      r.AmountRange,
		AmountMin:        r.AmountMin,
		AmountMax:        r.AmountMax,
		Comment:          r.Comment,
		Notified:         r.Notified,
		CreatedAt:        r.CreatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
