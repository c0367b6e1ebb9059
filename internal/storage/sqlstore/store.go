// Package sqlstore implements the portfolio store on SQLite and PostgreSQL
// through database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/models"
)

//go:embed schema/*.sql
var scripts embed.FS

// Store implements interfaces.PortfolioStore on a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *common.Logger
}

// Open connects to dsn using the dialect's driver and verifies the connection.
func Open(ctx context.Context, logger *common.Logger, dialect Dialect, dsn string) (*Store, error) {
	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		// single writer; avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", dialect, err)
	}

	logger.Info().Str("dialect", string(dialect)).Msg("SQL store opened")

	return &Store{db: db, dialect: dialect, logger: logger}, nil
}

// OpenSQLite opens (creating if needed) the SQLite database file at path.
func OpenSQLite(ctx context.Context, logger *common.Logger, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	return Open(ctx, logger, DialectSQLite, dsn)
}

// OpenPostgres connects to PostgreSQL using a pgx DSN or URL.
func OpenPostgres(ctx context.Context, logger *common.Logger, dsn string) (*Store, error) {
	return Open(ctx, logger, DialectPostgres, dsn)
}

// Dialect returns the store's SQL dialect.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.rebind(q), args...)
}

func (s *Store) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.rebind(q), args...)
}

func (s *Store) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.rebind(q), args...)
}

// --- Reads ---

const holdingsQuery = `
SELECT i.symbol, i.name, h.quantity, h.average_cost, q.price, q.updated_at
FROM holdings h
JOIN instruments i ON i.id = h.instrument_id
LEFT JOIN quotes q ON q.instrument_id = h.instrument_id
ORDER BY i.symbol`

func (s *Store) ListHoldings(ctx context.Context) ([]models.Holding, error) {
	rows, err := s.query(ctx, holdingsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	holdings := []models.Holding{}
	for rows.Next() {
		var h models.Holding
		var price sql.NullFloat64
		var updated sqlTime
		if err := rows.Scan(&h.Symbol, &h.Name, &h.Quantity, &h.AverageCost, &price, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		if price.Valid {
			p := price.Float64
			h.CurrentPrice = &p
			mv := common.RoundMoney(h.Quantity * p)
			pnl := common.RoundMoney((p - h.AverageCost) * h.Quantity)
			h.MarketValue = &mv
			h.UnrealizedPnL = &pnl
		}
		if updated.Valid {
			ts := updated.Time
			h.PriceUpdatedAt = &ts
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}
	return holdings, nil
}

func (s *Store) PortfolioValue(ctx context.Context) (float64, error) {
	return s.sumOverPriced(ctx, "h.quantity * q.price")
}

func (s *Store) UnrealizedPnL(ctx context.Context) (float64, error) {
	return s.sumOverPriced(ctx, "(q.price - h.average_cost) * h.quantity")
}

// sumOverPriced aggregates expr over holdings that have a quote.
func (s *Store) sumOverPriced(ctx context.Context, expr string) (float64, error) {
	q := "SELECT COALESCE(SUM(" + expr + "), 0) FROM holdings h JOIN quotes q ON q.instrument_id = h.instrument_id"
	var total float64
	if err := s.queryRow(ctx, q).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to aggregate holdings: %w", err)
	}
	return common.RoundMoney(total), nil
}

func (s *Store) ListTransactions(ctx context.Context, symbol string) ([]models.Transaction, error) {
	q := `
SELECT t.id, i.symbol, i.name, t.type, t.quantity, t.price_per_share, t.transaction_date
FROM transactions t
JOIN instruments i ON i.id = t.instrument_id`
	var args []any
	if symbol = models.NormalizeSymbol(symbol); symbol != "" {
		q += "\nWHERE i.symbol = ?"
		args = append(args, symbol)
	}
	q += "\nORDER BY t.transaction_date DESC, t.id DESC"

	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var typ string
		var date sqlTime
		if err := rows.Scan(&t.ID, &t.Symbol, &t.Name, &typ, &t.Quantity, &t.PricePerShare, &date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Type = models.TransactionType(typ)
		t.Date = date.Time
		t.Total = common.RoundMoney(t.Quantity * t.PricePerShare)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

func (s *Store) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	rows, err := s.query(ctx, "SELECT id, symbol, name FROM instruments ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	defer rows.Close()

	instruments := []models.Instrument{}
	for rows.Next() {
		var in models.Instrument
		if err := rows.Scan(&in.ID, &in.Symbol, &in.Name); err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		instruments = append(instruments, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate instruments: %w", err)
	}
	return instruments, nil
}

func (s *Store) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	q := `
SELECT i.symbol, q.price, q.updated_at
FROM quotes q
JOIN instruments i ON i.id = q.instrument_id
WHERE i.symbol = ?`

	var quote models.Quote
	var updated sqlTime
	err := s.queryRow(ctx, q, models.NormalizeSymbol(symbol)).Scan(&quote.Symbol, &quote.Price, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	quote.UpdatedAt = updated.Time
	return &quote, nil
}

func (s *Store) RealizedEstimates(ctx context.Context) ([]models.RealizedEstimate, error) {
	q := `
SELECT i.symbol, t.transaction_date, t.quantity, t.price_per_share, h.average_cost
FROM transactions t
JOIN instruments i ON i.id = t.instrument_id
JOIN holdings h ON h.instrument_id = t.instrument_id
WHERE t.type = 'SELL'
ORDER BY t.transaction_date, t.id`

	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list realized estimates: %w", err)
	}
	defer rows.Close()

	estimates := []models.RealizedEstimate{}
	for rows.Next() {
		var e models.RealizedEstimate
		var date sqlTime
		if err := rows.Scan(&e.Symbol, &date, &e.QuantitySold, &e.SellPrice, &e.AverageCost); err != nil {
			return nil, fmt.Errorf("failed to scan realized estimate: %w", err)
		}
		e.Date = date.Time
		e.EstimatedPnL = common.RoundMoney((e.SellPrice - e.AverageCost) * e.QuantitySold)
		estimates = append(estimates, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate realized estimates: %w", err)
	}
	return estimates, nil
}

// --- Writes ---

// UpsertQuote replaces the quote for symbol. Returns models.ErrUnknownInstrument
// when symbol is not tracked.
func (s *Store) UpsertQuote(ctx context.Context, symbol string, price float64, at time.Time) error {
	symbol = models.NormalizeSymbol(symbol)

	var id int64
	err := s.queryRow(ctx, "SELECT id FROM instruments WHERE symbol = ?", symbol).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("upsert quote %s: %w", symbol, models.ErrUnknownInstrument)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve instrument %s: %w", symbol, err)
	}

	q := `
INSERT INTO quotes (instrument_id, price, updated_at) VALUES (?, ?, ?)
ON CONFLICT (instrument_id) DO UPDATE SET price = excluded.price, updated_at = excluded.updated_at`
	if _, err := s.exec(ctx, q, id, price, s.dialect.timeArg(at)); err != nil {
		return fmt.Errorf("failed to upsert quote for %s: %w", symbol, err)
	}

	s.logger.Debug().Str("symbol", symbol).Float64("price", price).Msg("Quote stored")
	return nil
}
