package tracker

import (
	"time"

	"tradewatch/internal/model"
)

const (
	dateLayout = "2006-01-02"

	UnknownPolitician      = "Unknown"
	UnknownTicker          = "N/A"
	UnknownTransactionType = "Unknown"
)

// NormalizeTrade maps one feed record onto a Trade. It never fails: a
// missing or malformed transaction date stays nil, while a missing or
// malformed disclosure date becomes now.
func NormalizeTrade(raw model.RawDisclosure, now time.Time) model.Trade {
	amountRange := raw.Amount.String()
	amountMin, amountMax := ParseAmountRange(amountRange)

	disclosed, ok := parseDate(raw.DisclosureDate)
	if !ok {
		disclosed = now.UTC()
	}

	var transacted *time.Time
	if d, ok := parseDate(raw.TransactionDate); ok {
		transacted = &d
	}

	return model.Trade{
		PoliticianName:   politicianName(raw),
		TransactionDate:  transacted,
		DisclosureDate:   disclosed,
		Ticker:           orDefault(raw.Ticker, UnknownTicker),
		AssetDescription: raw.AssetDescription.String(),
		AssetType:        raw.AssetType.String(),
		TransactionType:  orDefault(raw.TransactionType, UnknownTransactionType),
		AmountRange:      amountRange,
		AmountMin:        amountMin,
		AmountMax:        amountMax,
		Comment:          raw.Comment.String(),
		Notified:         false,
	}
}

func politicianName(raw model.RawDisclosure) string {
	switch {
	case raw.Senator.Present():
		return raw.Senator.String()
	case raw.Representative.Present():
		return raw.Representative.String()
	default:
		return UnknownPolitician
	}
}

func parseDate(v model.FeedText) (time.Time, bool) {
	if !v.Present() {
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, v.String())
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func orDefault(v model.FeedText, fallback string) string {
	if v.Present() {
		return v.String()
	}
	return fallback
}
