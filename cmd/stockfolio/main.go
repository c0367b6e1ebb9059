// Command stockfolio manages and reports on the portfolio store from the terminal.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

var (
	configFile = flag.String("config", "", "Configuration file path (default: STOCKFOLIO_CONFIG, then stockfolio.toml)")
	logLevel   = flag.String("log-level", "warn", "Log level for command output on stderr")
	plain      = flag.Bool("plain", false, "Print raw markdown instead of terminal-rendered output")
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&initCmd{}, "store")
	subcommands.Register(&demoCmd{}, "store")

	subcommands.Register(&holdingsCmd{}, "reports")
	subcommands.Register(&transactionsCmd{}, "reports")

	subcommands.Register(&refreshCmd{}, "prices")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
