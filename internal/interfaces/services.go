package interfaces

import (
	"context"

	"github.com/bobmcallan/stockfolio/internal/models"
)

// PriceService refreshes quotes for every tracked instrument
type PriceService interface {
	// Refresh fetches and persists a quote per instrument, sequentially
	Refresh(ctx context.Context) (*models.RefreshSummary, error)

	// Configured reports whether refresh can reach the quote API
	Configured() bool
}

// ReportService produces the read-side portfolio views
type ReportService interface {
	// Dashboard returns holdings plus aggregate value and P&L
	Dashboard(ctx context.Context) (*models.Dashboard, error)

	// Transactions returns the ledger, optionally filtered by symbol
	Transactions(ctx context.Context, symbol string) ([]models.Transaction, error)

	// RealizedEstimates returns estimated realized P&L per SELL transaction
	RealizedEstimates(ctx context.Context) ([]models.RealizedEstimate, error)

	// AllocationChart renders a PNG pie chart of market value by holding
	AllocationChart(ctx context.Context) ([]byte, error)
}
