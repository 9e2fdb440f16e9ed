package source

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tradewatch/internal/config"
)

const (
	SenateStockWatcher = "senate_stock_watcher"
	HouseStockWatcher  = "house_stock_watcher"
)

const defaultTimeout = 30 * time.Second

// NewClient creates a feed client based on the configured source type.
func NewClient(cfg config.DataSourceConfig, logger *zap.Logger) (Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	switch cfg.Type {
	case SenateStockWatcher, HouseStockWatcher:
		return NewStockWatcherClient(cfg.Type, cfg.URL, httpClient, logger), nil
	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Type)
	}
}
