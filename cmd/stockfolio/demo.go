package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"github.com/bobmcallan/stockfolio/internal/app"
	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/models"
)

// demoCmd loads the sample portfolio into a throwaway SQLite database and prints the reports.
type demoCmd struct {
	symbol string
	keep   bool
}

func (*demoCmd) Name() string     { return "demo" }
func (*demoCmd) Synopsis() string { return "print the portfolio reports for the sample data set" }
func (*demoCmd) Usage() string {
	return `stockfolio demo [-s <symbol>] [-keep]

  Creates a temporary SQLite database with the sample portfolio and prints
  holdings, totals, one symbol's ledger and estimated realized P&L.
  No network calls are made.
`
}

func (c *demoCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "AAPL", "symbol whose transactions are listed")
	f.BoolVar(&c.keep, "keep", false, "keep the temporary database and print its path")
}

func (c *demoCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	dir, err := os.MkdirTemp("", "stockfolio-demo-")
	if err != nil {
		fail("Error creating temp dir: %v", err)
		return subcommands.ExitFailure
	}
	if !c.keep {
		defer os.RemoveAll(dir)
	}

	a, err := openDemoApp(ctx, filepath.Join(dir, "demo.db"))
	if err != nil {
		fail("Error preparing demo database: %v", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	md, err := demoReport(ctx, a, c.symbol)
	if err != nil {
		fail("Error building demo report: %v", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)

	if c.keep {
		fmt.Printf("Demo database kept at %s\n", filepath.Join(dir, "demo.db"))
	}
	return subcommands.ExitSuccess
}

// openDemoApp wires an App over a fresh SQLite file seeded with the sample portfolio.
// The quote API is left unconfigured.
func openDemoApp(ctx context.Context, dbPath string) (*app.App, error) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.SQLite.Path = dbPath
	cfg.Storage.SeedSampleData = true
	cfg.Clients.AlphaVantage.APIKey = ""
	cfg.Logging.Level = *logLevel

	return app.New(ctx, cfg, common.NewLoggerFromConfig(cfg.Logging), app.Options{ForceInit: true})
}

// demoReport renders the six demonstration reports as one markdown document.
func demoReport(ctx context.Context, a *app.App, symbol string) (string, error) {
	f := formatter(a)
	symbol = models.NormalizeSymbol(symbol)

	dash, err := a.ReportService.Dashboard(ctx)
	if err != nil {
		return "", err
	}
	txns, err := a.ReportService.Transactions(ctx, symbol)
	if err != nil {
		return "", err
	}
	estimates, err := a.ReportService.RealizedEstimates(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# Portfolio Demo\n\n")
	sb.WriteString(f.Holdings(dash.Holdings))
	sb.WriteString("\n")
	sb.WriteString(f.Summary(dash.Summary))
	sb.WriteString("\n")
	sb.WriteString(f.Transactions(symbol+" Transactions", txns))
	sb.WriteString("\n")
	sb.WriteString(f.RealizedEstimates(estimates))
	return sb.String(), nil
}
