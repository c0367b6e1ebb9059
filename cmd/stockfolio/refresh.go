package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"
)

// refreshCmd runs the price refresh routine once.
type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch the latest quote for every instrument" }
func (*refreshCmd) Usage() string {
	return `stockfolio refresh

  Fetches a quote per instrument from Alpha Vantage, one call per cooldown
  interval, and stores the prices. Requires ALPHA_VANTAGE_API_KEY.
`
}

func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (*refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fail("Error opening store: %v", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	summary, err := a.PriceService.Refresh(ctx)
	if summary != nil {
		printMarkdown(formatter(a).RefreshMessages(summary.Messages()))
	}
	if err != nil {
		fail("Price refresh did not complete: %v", err)
		return subcommands.ExitFailure
	}
	if summary.Unconfigured || (summary.Failed > 0 && summary.Updated == 0) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
