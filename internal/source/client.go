package source

import (
	"context"

	"tradewatch/internal/model"
)

// Client defines the standard interface for all disclosure feeds.
type Client interface {
	GetName() string
	FetchDisclosures(ctx context.Context) ([]model.RawDisclosure, error)
}
