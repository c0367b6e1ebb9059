package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/stockfolio/internal/models"
)

// PortfolioStore is the persistent store for instruments, holdings,
// transactions and quotes. Monetary results are rounded to 2 dp.
type PortfolioStore interface {
	// ListHoldings returns holdings joined with instrument and quote, ordered by symbol
	ListHoldings(ctx context.Context) ([]models.Holding, error)

	// PortfolioValue sums market value over holdings with a quote
	PortfolioValue(ctx context.Context) (float64, error)

	// UnrealizedPnL sums unrealized P&L over holdings with a quote
	UnrealizedPnL(ctx context.Context) (float64, error)

	// ListTransactions returns the ledger, most recent first. Empty symbol means all.
	ListTransactions(ctx context.Context, symbol string) ([]models.Transaction, error)

	// ListInstruments returns all instruments ordered by symbol
	ListInstruments(ctx context.Context) ([]models.Instrument, error)

	// GetQuote returns the latest quote, or nil when none exists
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// RealizedEstimates estimates realized P&L of SELL transactions against current average cost
	RealizedEstimates(ctx context.Context) ([]models.RealizedEstimate, error)

	// UpsertQuote inserts or replaces the single quote row for symbol
	UpsertQuote(ctx context.Context, symbol string, price float64, at time.Time) error

	// Initialized reports whether the schema exists
	Initialized(ctx context.Context) (bool, error)

	// ApplySchema drops and recreates the four tables
	ApplySchema(ctx context.Context) error

	// LoadSampleData inserts the sample instruments, holdings and transactions
	LoadSampleData(ctx context.Context) error

	Close() error
}
