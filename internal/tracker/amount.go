package tracker

import (
	"strconv"
	"strings"
)

const amountSeparator = " - "

// ParseAmountRange converts a disclosed range such as "$1,001 - $15,000"
// into its bounds. Anything that is not exactly two numbers joined by " - "
// yields (0, 0).
func ParseAmountRange(amount string) (float64, float64) {
	if amount == "" {
		return 0, 0
	}

	cleaned := strings.NewReplacer("$", "", ",", "").Replace(amount)
	parts := strings.Split(cleaned, amountSeparator)
	if len(parts) != 2 {
		return 0, 0
	}

	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0
	}
	return lo, hi
}
