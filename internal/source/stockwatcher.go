package source

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tradewatch/internal/model"
)

// StockWatcherClient reads the aggregate JSON dumps published by the
// Senate and House Stock Watcher projects. Both are a flat array of objects.
type StockWatcherClient struct {
	name   string
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewStockWatcherClient creates a new StockWatcherClient.
func NewStockWatcherClient(name, url string, httpClient *http.Client, logger *zap.Logger) *StockWatcherClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockWatcherClient{name: name, url: url, client: httpClient, logger: logger}
}

func (c *StockWatcherClient) GetName() string {
	return c.name
}

// FetchDisclosures downloads the feed. A transport failure, a non-2xx status
// or a body that is not a JSON array is an error; an array element that does
// not decode as a disclosure is logged and dropped.
func (c *StockWatcherClient) FetchDisclosures(ctx context.Context) ([]model.RawDisclosure, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build feed request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", c.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.Errorf("fetch %s: unexpected status %d", c.url, resp.StatusCode)
	}

	var elements []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&elements); err != nil {
		return nil, errors.Wrap(err, "decode feed array")
	}

	records := make([]model.RawDisclosure, 0, len(elements))
	for i, element := range elements {
		var record model.RawDisclosure
		if err := json.Unmarshal(element, &record); err != nil {
			c.logger.Warn("skipping malformed feed record", zap.String("source", c.name), zap.Int("index", i), zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
