package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/bobmcallan/stockfolio/internal/app"
	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/services/report"
)

// loadConfig resolves the configuration and a stderr logger at -log-level.
func loadConfig() (*common.Config, *common.Logger, error) {
	cfg, err := app.ResolveConfig(*configFile)
	if err != nil {
		return nil, nil, err
	}
	cfg.Logging.Level = *logLevel
	cfg.Logging.Outputs = []string{"console"}
	return cfg, common.NewLoggerFromConfig(cfg.Logging), nil
}

// openApp loads configuration and opens the configured store.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger, app.Options{})
}

func formatter(a *app.App) report.Formatter {
	return report.Formatter{Currency: a.Config.DisplayCurrency}
}

// printMarkdown renders md for the terminal, or prints it raw with -plain.
func printMarkdown(md string) {
	if *plain {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
