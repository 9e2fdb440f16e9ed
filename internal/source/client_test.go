package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tradewatch/internal/config"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient(t *testing.T) {
	for _, kind := range []string{SenateStockWatcher, HouseStockWatcher} {
		c, err := NewClient(config.DataSourceConfig{Type: kind, URL: "http://example.invalid"}, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, kind, c.GetName())
	}

	_, err := NewClient(config.DataSourceConfig{Type: "quiver", URL: "http://example.invalid"}, zap.NewNop())
	assert.Error(t, err)
}

func TestStockWatcherClient_FetchDisclosures(t *testing.T) {
	srv := serve(t, http.StatusOK, `[
		{"senator":"Nancy Pelosi","ticker":"NVDA","transaction_date":"2024-01-15","disclosure_date":"2024-02-01","type":"stock","transaction_type":"Purchase","amount":"$1,001 - $15,000"},
		{"representative":"Dan Crenshaw","ticker":null,"amount":15000,"comment":"--"},
		42,
		{"senator":{"first":"Tommy"}},
		{"senator":"Tommy Tuberville","asset_description":"Microsoft Corp"}
	]`)

	c := NewStockWatcherClient(SenateStockWatcher, srv.URL, srv.Client(), zap.NewNop())
	records, err := c.FetchDisclosures(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Nancy Pelosi", records[0].Senator.String())
	assert.Equal(t, "NVDA", records[0].Ticker.String())
	assert.Equal(t, "stock", records[0].AssetType.String())
	assert.Equal(t, "$1,001 - $15,000", records[0].Amount.String())

	assert.Equal(t, "Dan Crenshaw", records[1].Representative.String())
	assert.False(t, records[1].Ticker.Present())
	assert.Equal(t, "15000", records[1].Amount.String())

	assert.Equal(t, "Microsoft Corp", records[2].AssetDescription.String())
}

func TestStockWatcherClient_Errors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := serve(t, http.StatusServiceUnavailable, `oops`)
		c := NewStockWatcherClient(SenateStockWatcher, srv.URL, srv.Client(), zap.NewNop())
		_, err := c.FetchDisclosures(context.Background())
		assert.Error(t, err)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"not":"an array"}`)
		c := NewStockWatcherClient(SenateStockWatcher, srv.URL, srv.Client(), zap.NewNop())
		_, err := c.FetchDisclosures(context.Background())
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `[]`)
		url := srv.URL
		srv.Close()
		c := NewStockWatcherClient(SenateStockWatcher, url, &http.Client{Timeout: time.Second}, zap.NewNop())
		_, err := c.FetchDisclosures(context.Background())
		assert.Error(t, err)
	})
}
