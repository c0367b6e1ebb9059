package storage

import (
	"context"
	"fmt"

	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/interfaces"
)

// BootstrapOptions controls first-run initialization.
type BootstrapOptions struct {
	Force      bool // re-apply the schema even when already initialized
	SampleData bool // load the sample portfolio after applying the schema
}

// Bootstrap applies the schema (and optionally sample data) when the store
// is not yet initialized, or unconditionally when opts.Force is set.
// Reports whether the schema was applied.
func Bootstrap(ctx context.Context, store interfaces.PortfolioStore, logger *common.Logger, opts BootstrapOptions) (bool, error) {
	if !opts.Force {
		ok, err := store.Initialized(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			logger.Debug().Msg("Store already initialized")
			return false, nil
		}
	}

	logger.Info().Bool("force", opts.Force).Bool("sample_data", opts.SampleData).Msg("Initializing store")

	if err := store.ApplySchema(ctx); err != nil {
		return false, err
	}
	if opts.SampleData {
		if err := store.LoadSampleData(ctx); err != nil {
			return true, fmt.Errorf("schema applied but sample data failed: %w", err)
		}
	}
	return true, nil
}
