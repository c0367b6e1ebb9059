// Package models defines data structures for Stockfolio
package models

import (
	"errors"
	"strings"
	"time"
)

// ErrUnknownInstrument is returned when a symbol has no instrument record.
var ErrUnknownInstrument = errors.New("unknown instrument")

// Instrument is a tracked tradable security.
type Instrument struct {
	ID     int64  `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// NormalizeSymbol upper-cases and trims a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Holding is a position joined with its instrument and latest quote.
// CurrentPrice, PriceUpdatedAt, MarketValue and UnrealizedPnL are nil when
// no quote has been fetched for the instrument yet.
type Holding struct {
	Symbol         string     `json:"symbol"`
	Name           string     `json:"name"`
	Quantity       float64    `json:"quantity"`
	AverageCost    float64    `json:"average_cost"`
	CurrentPrice   *float64   `json:"current_price"`
	PriceUpdatedAt *time.Time `json:"price_updated_at"`
	MarketValue    *float64   `json:"market_value"`
	UnrealizedPnL  *float64   `json:"unrealized_pnl"`
}

// Priced reports whether the holding has a current quote.
func (h Holding) Priced() bool {
	return h.CurrentPrice != nil
}

// CostBasis returns quantity times average cost.
func (h Holding) CostBasis() float64 {
	return h.Quantity * h.AverageCost
}

// TransactionType is BUY or SELL
type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionBuy || t == TransactionSell
}

// Transaction is one append-only ledger entry.
type Transaction struct {
	ID            int64           `json:"id"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Type          TransactionType `json:"type"`
	Quantity      float64         `json:"quantity"`
	PricePerShare float64         `json:"price_per_share"`
	Total         float64         `json:"total"` // quantity * price, rounded to 2dp
	Date          time.Time       `json:"date"`
}

// Quote is the latest known price of an instrument.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PortfolioSummary carries the dashboard aggregates.
// MarketValue and UnrealizedPnL only include priced holdings.
type PortfolioSummary struct {
	MarketValue   float64 `json:"market_value"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
	Holdings      int     `json:"holdings"`
	Priced        int     `json:"priced"`
}

// RealizedEstimate approximates the realized P&L of a SELL transaction
// against the holding's current average cost.
type RealizedEstimate struct {
	Symbol       string    `json:"symbol"`
	Date         time.Time `json:"date"`
	QuantitySold float64   `json:"quantity_sold"`
	SellPrice    float64   `json:"sell_price"`
	AverageCost  float64   `json:"average_cost"`
	EstimatedPnL float64   `json:"estimated_pnl"`
}

// Dashboard is the data behind the portfolio overview page.
type Dashboard struct {
	Holdings []Holding        `json:"holdings"`
	Summary  PortfolioSummary `json:"summary"`
}
