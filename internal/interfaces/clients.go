// Package interfaces defines service contracts for Stockfolio
package interfaces

import "context"

// QuoteFetcher retrieves the latest market price for a symbol.
type QuoteFetcher interface {
	// FetchPrice returns a positive price or a *models.FetchError
	FetchPrice(ctx context.Context, symbol string) (float64, error)

	// Configured reports whether the fetcher has an API credential
	Configured() bool
}
