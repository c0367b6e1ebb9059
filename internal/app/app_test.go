package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stockfolio/internal/common"
)

// writeTestConfig writes a sqlite-backed config into a temp dir and returns its path.
func writeTestConfig(t *testing.T, baseURL, apiKey string) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`
environment = "test"

[storage]
backend = "sqlite"
seed_sample_data = true

[storage.sqlite]
path = %q

[clients.alphavantage]
base_url = %q
api_key = %q
call_interval = "1ms"
timeout = "5s"

[logging]
level = "error"
`, filepath.Join(dir, "stockfolio.db"), baseURL, apiKey)

	path := filepath.Join(dir, "stockfolio.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestApp(t *testing.T, baseURL, apiKey string) *App {
	t.Helper()
	t.Setenv("ALPHA_VANTAGE_API_KEY", "")
	t.Setenv("STOCKFOLIO_ALPHA_VANTAGE_API_KEY", "")

	cfg, err := ResolveConfig(writeTestConfig(t, baseURL, apiKey))
	require.NoError(t, err)

	a, err := New(context.Background(), cfg, common.NewSilentLogger(), Options{})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNew_InitializesAllServices(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1", "")

	assert.NotNil(t, a.Config)
	assert.NotNil(t, a.Logger)
	assert.NotNil(t, a.Store)
	assert.NotNil(t, a.QuoteClient)
	assert.NotNil(t, a.PriceService)
	assert.NotNil(t, a.ReportService)
	assert.False(t, a.StartupTime.IsZero())
	assert.False(t, a.PriceService.Configured())
}

func TestNew_SeedsSampleDataOnFirstRun(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:1", "")

	dash, err := a.ReportService.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, dash.Holdings, 5)
	assert.Equal(t, 7918.30, dash.Summary.MarketValue)
}

func TestResolveConfig_EnvPath(t *testing.T) {
	path := writeTestConfig(t, "http://example.invalid", "")
	t.Setenv("STOCKFOLIO_CONFIG", path)

	cfg, err := ResolveConfig("")
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "http://example.invalid", cfg.Clients.AlphaVantage.BaseURL)
}

func TestApp_RefreshUpdatesQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sym := r.URL.Query().Get("symbol")
		if sym == "TSLA" {
			w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
			return
		}
		fmt.Fprintf(w, `{"Global Quote": {"01. symbol": %q, "05. price": "200.0000"}}`, sym)
	}))
	defer srv.Close()

	a := newTestApp(t, srv.URL, "test-key")
	ctx := context.Background()

	summary, err := a.PriceService.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Updated)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "TSLA", summary.Failures[0].Symbol)

	q, err := a.Store.GetQuote(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, 200.0, q.Price)
}
