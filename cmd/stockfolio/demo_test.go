package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoReport_SampleData(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "")
	ctx := context.Background()

	a, err := openDemoApp(ctx, filepath.Join(t.TempDir(), "demo.db"))
	require.NoError(t, err)
	defer a.Close()

	md, err := demoReport(ctx, a, "aapl")
	require.NoError(t, err)

	for _, want := range []string{
		"## Holdings",
		"| AAPL |",
		"**Market Value:** $7,918.30",
		"**Unrealized P&L:** $1,368.38",
		"## AAPL Transactions",
		"## Estimated Realized P&L",
		"$65.01",
		"**$115.01**",
	} {
		assert.Contains(t, md, want)
	}

	// TSLA has no quote: listed, excluded from totals
	assert.Contains(t, md, "| TSLA |")
	assert.Contains(t, md, "1 of 5 holdings have no current price")

	// the AAPL ledger section lists only AAPL rows
	ledger := md[strings.Index(md, "## AAPL Transactions"):strings.Index(md, "## Estimated Realized P&L")]
	assert.NotContains(t, ledger, "| MSFT |")
}

func TestDemoReport_ReopenIsFresh(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "demo.db")

	a, err := openDemoApp(ctx, path)
	require.NoError(t, err)
	require.NoError(t, a.Store.UpsertQuote(ctx, "TSLA", 250, a.StartupTime))
	a.Close()

	// ForceInit reloads the sample data, dropping the TSLA quote
	a, err = openDemoApp(ctx, path)
	require.NoError(t, err)
	defer a.Close()

	q, err := a.Store.GetQuote(ctx, "TSLA")
	require.NoError(t, err)
	assert.Nil(t, q)
}
