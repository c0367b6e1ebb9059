package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobmcallan/stockfolio/internal/app"
	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/server"
)

var (
	configFile  = flag.String("config", "", "Configuration file path (default: STOCKFOLIO_CONFIG, then stockfolio.toml)")
	serverPort  = flag.Int("port", 0, "Server port (overrides config)")
	serverPortP = flag.Int("p", 0, "Server port (shorthand)")
	serverHost  = flag.String("host", "", "Server host (overrides config)")
	initDB      = flag.Bool("init-db", false, "Re-apply the schema (and sample data when enabled) before serving")
	showVersion = flag.Bool("version", false, "Print version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		common.LoadVersionFromFile()
		fmt.Printf("stockfolio-server version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// Shorthand takes precedence
	finalPort := *serverPort
	if *serverPortP != 0 {
		finalPort = *serverPortP
	}

	cfg, err := app.ResolveConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	common.ApplyFlagOverrides(cfg, finalPort, *serverHost)

	logger := common.NewLoggerFromConfig(cfg.Logging)
	common.PrintBanner(cfg, logger)

	a, err := app.New(context.Background(), cfg, logger, app.Options{ForceInit: *initDB})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize app")
		os.Exit(1)
	}

	srv := server.NewServer(a)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Bool("api_configured", cfg.APIConfigured()).
		Msg("Server ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info().Msg("Shutdown signal received")
	case err := <-errChan:
		logger.Error().Err(err).Msg("HTTP server failed")
	}

	// Refreshes still running after the grace period are cancelled, and
	// Shutdown waits for them before the store is closed.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	a.Close()
	common.PrintShutdownBanner(logger)
	logger.Info().Msg("Server stopped")
}
