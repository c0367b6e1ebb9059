// Package report provides the read-side portfolio views
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/interfaces"
	"github.com/bobmcallan/stockfolio/internal/models"
)

// ErrNoPricedHoldings is returned by AllocationChart when no holding has a quote.
var ErrNoPricedHoldings = errors.New("no priced holdings")

// Service implements interfaces.ReportService
type Service struct {
	store  interfaces.PortfolioStore
	logger *common.Logger
}

// NewService creates a new report service
func NewService(store interfaces.PortfolioStore, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Dashboard returns holdings with the aggregate market value and unrealized P&L.
func (s *Service) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	holdings, err := s.store.ListHoldings(ctx)
	if err != nil {
		return nil, err
	}
	value, err := s.store.PortfolioValue(ctx)
	if err != nil {
		return nil, err
	}
	pnl, err := s.store.UnrealizedPnL(ctx)
	if err != nil {
		return nil, err
	}

	priced := 0
	for _, h := range holdings {
		if h.Priced() {
			priced++
		}
	}

	return &models.Dashboard{
		Holdings: holdings,
		Summary: models.PortfolioSummary{
			MarketValue:   value,
			UnrealizedPnL: pnl,
			Holdings:      len(holdings),
			Priced:        priced,
		},
	}, nil
}

// Transactions returns the ledger, most recent first. Empty symbol means all.
func (s *Service) Transactions(ctx context.Context, symbol string) ([]models.Transaction, error) {
	return s.store.ListTransactions(ctx, symbol)
}

// RealizedEstimates returns the estimated realized P&L of each SELL.
func (s *Service) RealizedEstimates(ctx context.Context) ([]models.RealizedEstimate, error) {
	return s.store.RealizedEstimates(ctx)
}

// AllocationChart renders the current allocation by market value as a PNG.
func (s *Service) AllocationChart(ctx context.Context) ([]byte, error) {
	holdings, err := s.store.ListHoldings(ctx)
	if err != nil {
		return nil, err
	}
	png, err := RenderAllocationChart(holdings)
	if err != nil {
		return nil, fmt.Errorf("allocation chart: %w", err)
	}
	return png, nil
}

// Compile-time check
var _ interfaces.ReportService = (*Service)(nil)
