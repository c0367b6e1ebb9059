// Package app wires configuration, storage, the quote client and services.
// It is the shared core used by both cmd/stockfolio-server and cmd/stockfolio.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/stockfolio/internal/clients/alphavantage"
	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/interfaces"
	"github.com/bobmcallan/stockfolio/internal/ratelimit"
	"github.com/bobmcallan/stockfolio/internal/services/prices"
	"github.com/bobmcallan/stockfolio/internal/services/report"
	"github.com/bobmcallan/stockfolio/internal/storage"
)

// App holds all initialized services, clients and storage.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Store         interfaces.PortfolioStore
	Cooldown      *ratelimit.Cooldown
	QuoteClient   interfaces.QuoteFetcher
	PriceService  interfaces.PriceService
	ReportService interfaces.ReportService
	StartupTime   time.Time
}

// Options controls startup behaviour.
type Options struct {
	ForceInit bool // re-apply the schema (and sample data when enabled) on startup
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfig loads configuration from configPath, or when empty from
// STOCKFOLIO_CONFIG, then the binary directory, then config/stockfolio.toml.
// Missing files fall back to defaults plus environment overrides.
func ResolveConfig(configPath string) (*common.Config, error) {
	common.LoadVersionFromFile()

	if configPath == "" {
		configPath = os.Getenv("STOCKFOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "stockfolio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/stockfolio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return config, nil
}

// New opens the configured store, bootstraps it when needed and builds the services.
func New(ctx context.Context, config *common.Config, logger *common.Logger, opts Options) (*App, error) {
	startupStart := time.Now()

	store, err := storage.NewStore(ctx, logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if _, err := storage.Bootstrap(ctx, store, logger, storage.BootstrapOptions{
		Force:      opts.ForceInit,
		SampleData: config.Storage.SeedSampleData,
	}); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to bootstrap storage: %w", err)
	}

	av := config.Clients.AlphaVantage
	if av.APIKey == "" {
		logger.Warn().Msg("ALPHA_VANTAGE_API_KEY not set - price refresh will be unavailable")
	}

	// one cooldown per process, shared by every refresh
	cooldown := ratelimit.NewCooldown(av.GetCallInterval())
	quoteClient := alphavantage.NewClient(av.APIKey,
		alphavantage.WithBaseURL(av.BaseURL),
		alphavantage.WithLogger(logger),
		alphavantage.WithTimeout(av.GetTimeout()),
		alphavantage.WithCooldown(cooldown),
	)

	a := &App{
		Config:        config,
		Logger:        logger,
		Store:         store,
		Cooldown:      cooldown,
		QuoteClient:   quoteClient,
		PriceService:  prices.NewService(store, quoteClient, logger),
		ReportService: report.NewService(store, logger),
		StartupTime:   startupStart,
	}

	logger.Info().
		Str("storage", config.StorageDescription()).
		Dur("call_interval", cooldown.Interval()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Close releases the store.
func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close store")
		}
		a.Store = nil
	}
}
