// Package prices refreshes stored quotes from the quote API
package prices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/interfaces"
	"github.com/bobmcallan/stockfolio/internal/models"
)

// Service implements interfaces.PriceService.
type Service struct {
	store   interfaces.PortfolioStore
	fetcher interfaces.QuoteFetcher
	logger  *common.Logger
	now     func() time.Time // injectable clock for testing
}

// NewService creates a price refresh service.
func NewService(store interfaces.PortfolioStore, fetcher interfaces.QuoteFetcher, logger *common.Logger) *Service {
	return &Service{
		store:   store,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Configured reports whether the fetcher has an API credential.
func (s *Service) Configured() bool {
	return s.fetcher.Configured()
}

// Refresh fetches a quote for every instrument, one at a time, and stores
// each success. A fetch failure leaves that instrument's quote untouched and
// is recorded in the summary; the loop moves on. Store errors and context
// cancellation abort the loop and are returned with the partial summary.
func (s *Service) Refresh(ctx context.Context) (*models.RefreshSummary, error) {
	summary := &models.RefreshSummary{StartedAt: s.now()}
	logger := common.LoggerFromContext(ctx, s.logger)

	if !s.fetcher.Configured() {
		logger.Warn().Msg("Price refresh skipped: API key not configured")
		summary.Unconfigured = true
		summary.FinishedAt = s.now()
		return summary, nil
	}

	instruments, err := s.store.ListInstruments(ctx)
	if err != nil {
		summary.FinishedAt = s.now()
		return summary, fmt.Errorf("failed to list instruments: %w", err)
	}
	summary.Instruments = len(instruments)

	logger.Info().Int("instruments", len(instruments)).Msg("Price refresh started")

	for _, inst := range instruments {
		if err := ctx.Err(); err != nil {
			summary.FinishedAt = s.now()
			return summary, err
		}

		price, err := s.fetcher.FetchPrice(ctx, inst.Symbol)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				summary.FinishedAt = s.now()
				return summary, ctxErr
			}
			s.recordFailure(logger, summary, inst.Symbol, err)
			continue
		}

		if err := s.store.UpsertQuote(ctx, inst.Symbol, price, s.now()); err != nil {
			summary.FinishedAt = s.now()
			return summary, fmt.Errorf("failed to store quote for %s: %w", inst.Symbol, err)
		}
		summary.Updated++

		logger.Info().Str("symbol", inst.Symbol).Float64("price", price).Msg("Price updated")
	}

	summary.FinishedAt = s.now()

	logger.Info().
		Int("updated", summary.Updated).
		Int("failed", summary.Failed).
		Dur("elapsed", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("Price refresh complete")

	return summary, nil
}

func (s *Service) recordFailure(logger *common.Logger, summary *models.RefreshSummary, symbol string, err error) {
	kind := models.FetchErrorKindOf(err)
	summary.Failed++
	summary.Failures = append(summary.Failures, models.RefreshFailure{
		Symbol:  symbol,
		Kind:    kind,
		Message: err.Error(),
	})

	logger.Warn().
		Str("symbol", symbol).
		Str("kind", string(kind)).
		Err(err).
		Msg("Price fetch failed")
}

// Compile-time check
var _ interfaces.PriceService = (*Service)(nil)
