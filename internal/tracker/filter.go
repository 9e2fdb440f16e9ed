package tracker

import (
	"strings"

	"tradewatch/internal/model"
)

// MatchesWatchlist reports whether any watchlist entry occurs, ignoring case,
// inside name. Blank entries are ignored, so an empty watchlist matches nothing.
func MatchesWatchlist(name string, watchlist []string) bool {
	lowered := strings.ToLower(name)
	for _, entry := range watchlist {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if strings.Contains(lowered, entry) {
			return true
		}
	}
	return false
}

// FilterTracked keeps the trades whose politician is on the watchlist.
func FilterTracked(trades []model.Trade, watchlist []string) []model.Trade {
	tracked := make([]model.Trade, 0, len(trades))
	for _, trade := range trades {
		if MatchesWatchlist(trade.PoliticianName, watchlist) {
			tracked = append(tracked, trade)
		}
	}
	return tracked
}
