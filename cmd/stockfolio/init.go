package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/bobmcallan/stockfolio/internal/storage"
)

// initCmd bootstraps the configured store.
type initCmd struct {
	force  bool
	sample bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create the schema (and sample data) in the configured store" }
func (*initCmd) Usage() string {
	return `stockfolio init [-force] [-sample=false]

  Creates the portfolio tables when the store is not yet initialized.
  -force drops and recreates them, discarding existing data.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "drop and recreate tables even if already initialized")
	f.BoolVar(&c.sample, "sample", true, "load the sample portfolio after creating the tables")
}

func (c *initCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := loadConfig()
	if err != nil {
		fail("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}

	store, err := storage.NewStore(ctx, logger, &cfg.Storage)
	if err != nil {
		fail("Error opening store: %v", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	applied, err := storage.Bootstrap(ctx, store, logger, storage.BootstrapOptions{
		Force:      c.force,
		SampleData: c.sample,
	})
	if err != nil {
		fail("Error initializing store: %v", err)
		return subcommands.ExitFailure
	}

	if !applied {
		fmt.Printf("Store already initialized (%s). Use -force to recreate it.\n", cfg.StorageDescription())
		return subcommands.ExitSuccess
	}
	fmt.Printf("Store initialized (%s).\n", cfg.StorageDescription())
	return subcommands.ExitSuccess
}
