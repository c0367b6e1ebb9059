package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/bobmcallan/stockfolio/internal/models"
)

// holdingsCmd prints the holdings table and totals.
type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display holdings with market value and unrealized P&L" }
func (*holdingsCmd) Usage() string {
	return `stockfolio holdings

  Displays every holding with its latest quote, market value and unrealized P&L.
`
}

func (*holdingsCmd) SetFlags(*flag.FlagSet) {}

func (*holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fail("Error opening store: %v", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	dash, err := a.ReportService.Dashboard(ctx)
	if err != nil {
		fail("Error loading holdings: %v", err)
		return subcommands.ExitFailure
	}

	f := formatter(a)
	printMarkdown(f.Holdings(dash.Holdings) + "\n" + f.Summary(dash.Summary))
	return subcommands.ExitSuccess
}

// transactionsCmd prints the ledger, newest first.
type transactionsCmd struct {
	symbol string
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "display the transaction ledger" }
func (*transactionsCmd) Usage() string {
	return `stockfolio transactions [-s <symbol>]

  Displays recorded transactions, newest first.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "only show transactions for this symbol")
}

func (c *transactionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fail("Error opening store: %v", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	symbol := models.NormalizeSymbol(c.symbol)
	txns, err := a.ReportService.Transactions(ctx, symbol)
	if err != nil {
		fail("Error loading transactions: %v", err)
		return subcommands.ExitFailure
	}

	title := "Transactions"
	if symbol != "" {
		title = symbol + " " + title
	}
	printMarkdown(formatter(a).Transactions(title, txns))
	return subcommands.ExitSuccess
}
