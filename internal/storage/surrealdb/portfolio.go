package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/models"
)

type instrumentRecord struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type holdingRecord struct {
	Symbol      string  `json:"symbol"`
	Quantity    float64 `json:"quantity"`
	AverageCost float64 `json:"average_cost"`
}

type ledgerRecord struct {
	Seq           int64     `json:"seq"`
	Symbol        string    `json:"symbol"`
	Type          string    `json:"type"`
	Quantity      float64   `json:"quantity"`
	PricePerShare float64   `json:"price_per_share"`
	Date          time.Time `json:"date"`
}

type quoteRecord struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// selectAll runs a single-statement query and returns its rows.
func selectAll[T any](ctx context.Context, db *surrealdb.DB, sql string, vars map[string]any) ([]T, error) {
	results, err := surrealdb.Query[[]T](ctx, db, sql, vars)
	if err != nil {
		return nil, err
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}

func (s *Store) instrumentNames(ctx context.Context) (map[string]string, error) {
	rows, err := selectAll[instrumentRecord](ctx, s.db, "SELECT symbol, name FROM instrument", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		names[r.Symbol] = r.Name
	}
	return names, nil
}

func (s *Store) quotesBySymbol(ctx context.Context) (map[string]quoteRecord, error) {
	rows, err := selectAll[quoteRecord](ctx, s.db, "SELECT symbol, price, updated_at FROM quote", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	quotes := make(map[string]quoteRecord, len(rows))
	for _, r := range rows {
		quotes[r.Symbol] = r
	}
	return quotes, nil
}

// ListHoldings joins holdings with instruments and quotes in memory.
// Holdings whose instrument record is missing are skipped.
func (s *Store) ListHoldings(ctx context.Context) ([]models.Holding, error) {
	rows, err := selectAll[holdingRecord](ctx, s.db,
		"SELECT symbol, quantity, average_cost FROM holding ORDER BY symbol", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	names, err := s.instrumentNames(ctx)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quotesBySymbol(ctx)
	if err != nil {
		return nil, err
	}

	holdings := []models.Holding{}
	for _, r := range rows {
		name, ok := names[r.Symbol]
		if !ok {
			continue
		}
		h := models.Holding{
			Symbol:      r.Symbol,
			Name:        name,
			Quantity:    r.Quantity,
			AverageCost: r.AverageCost,
		}
		if q, ok := quotes[r.Symbol]; ok {
			price := q.Price
			updated := q.UpdatedAt.UTC()
			mv := common.RoundMoney(h.Quantity * price)
			pnl := common.RoundMoney((price - h.AverageCost) * h.Quantity)
			h.CurrentPrice = &price
			h.PriceUpdatedAt = &updated
			h.MarketValue = &mv
			h.UnrealizedPnL = &pnl
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

func (s *Store) PortfolioValue(ctx context.Context) (float64, error) {
	return s.sumOverPriced(ctx, func(h models.Holding) float64 {
		return h.Quantity * *h.CurrentPrice
	})
}

func (s *Store) UnrealizedPnL(ctx context.Context) (float64, error) {
	return s.sumOverPriced(ctx, func(h models.Holding) float64 {
		return (*h.CurrentPrice - h.AverageCost) * h.Quantity
	})
}

func (s *Store) sumOverPriced(ctx context.Context, term func(models.Holding) float64) (float64, error) {
	holdings, err := s.ListHoldings(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, h := range holdings {
		if h.Priced() {
			total += term(h)
		}
	}
	return common.RoundMoney(total), nil
}

const ledgerFields = "seq, symbol, type, quantity, price_per_share, date"

func (s *Store) ListTransactions(ctx context.Context, symbol string) ([]models.Transaction, error) {
	sql := "SELECT " + ledgerFields + " FROM ledger"
	vars := map[string]any{}
	if symbol = models.NormalizeSymbol(symbol); symbol != "" {
		sql += " WHERE symbol = $symbol"
		vars["symbol"] = symbol
	}
	sql += " ORDER BY date DESC, seq DESC"

	rows, err := selectAll[ledgerRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	names, err := s.instrumentNames(ctx)
	if err != nil {
		return nil, err
	}

	txns := []models.Transaction{}
	for _, r := range rows {
		txns = append(txns, models.Transaction{
			ID:            r.Seq,
			Symbol:        r.Symbol,
			Name:          names[r.Symbol],
			Type:          models.TransactionType(r.Type),
			Quantity:      r.Quantity,
			PricePerShare: r.PricePerShare,
			Total:         common.RoundMoney(r.Quantity * r.PricePerShare),
			Date:          r.Date.UTC(),
		})
	}
	return txns, nil
}

func (s *Store) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	rows, err := selectAll[instrumentRecord](ctx, s.db, "SELECT symbol, name FROM instrument ORDER BY symbol", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	instruments := []models.Instrument{}
	for i, r := range rows {
		// records are keyed by symbol; ID is the position in symbol order
		instruments = append(instruments, models.Instrument{ID: int64(i + 1), Symbol: r.Symbol, Name: r.Name})
	}
	return instruments, nil
}

func (s *Store) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = models.NormalizeSymbol(symbol)
	rec, err := surrealdb.Select[quoteRecord](ctx, s.db, surrealmodels.NewRecordID(tableQuote, symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	if rec == nil {
		return nil, nil
	}
	return &models.Quote{Symbol: rec.Symbol, Price: rec.Price, UpdatedAt: rec.UpdatedAt.UTC()}, nil
}

func (s *Store) RealizedEstimates(ctx context.Context) ([]models.RealizedEstimate, error) {
	rows, err := selectAll[ledgerRecord](ctx, s.db,
		"SELECT "+ledgerFields+" FROM ledger WHERE type = 'SELL' ORDER BY date, seq", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list realized estimates: %w", err)
	}
	holdings, err := selectAll[holdingRecord](ctx, s.db, "SELECT symbol, quantity, average_cost FROM holding", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	avg := make(map[string]float64, len(holdings))
	for _, h := range holdings {
		avg[h.Symbol] = h.AverageCost
	}

	estimates := []models.RealizedEstimate{}
	for _, r := range rows {
		cost, ok := avg[r.Symbol]
		if !ok {
			continue
		}
		estimates = append(estimates, models.RealizedEstimate{
			Symbol:       r.Symbol,
			Date:         r.Date.UTC(),
			QuantitySold: r.Quantity,
			SellPrice:    r.PricePerShare,
			AverageCost:  cost,
			EstimatedPnL: common.RoundMoney((r.PricePerShare - cost) * r.Quantity),
		})
	}
	return estimates, nil
}

// UpsertQuote replaces the quote record for symbol.
func (s *Store) UpsertQuote(ctx context.Context, symbol string, price float64, at time.Time) error {
	symbol = models.NormalizeSymbol(symbol)

	inst, err := surrealdb.Select[instrumentRecord](ctx, s.db, surrealmodels.NewRecordID(tableInstrument, symbol))
	if err != nil {
		return fmt.Errorf("failed to resolve instrument %s: %w", symbol, err)
	}
	if inst == nil {
		return fmt.Errorf("upsert quote %s: %w", symbol, models.ErrUnknownInstrument)
	}

	sql := "UPSERT $rid CONTENT $data"
	vars := map[string]any{
		"rid":  surrealmodels.NewRecordID(tableQuote, symbol),
		"data": quoteRecord{Symbol: symbol, Price: price, UpdatedAt: at.UTC()},
	}
	if _, err := surrealdb.Query[[]quoteRecord](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to upsert quote for %s: %w", symbol, err)
	}

	s.logger.Debug().Str("symbol", symbol).Float64("price", price).Msg("Quote stored")
	return nil
}
