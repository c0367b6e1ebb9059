// Package surrealdb implements the portfolio store on SurrealDB.
package surrealdb

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/interfaces"
)

//go:embed scripts/*.surql
var scripts embed.FS

const (
	tableInstrument = "instrument"
	tableHolding    = "holding"
	tableLedger     = "ledger"
	tableQuote      = "quote"
	tableMeta       = "stockfolio_meta"
)

var tables = []string{tableInstrument, tableHolding, tableLedger, tableQuote, tableMeta}

// Store implements interfaces.PortfolioStore using SurrealDB.
type Store struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewStore connects to SurrealDB, signs in and selects the namespace and database.
func NewStore(ctx context.Context, logger *common.Logger, config common.SurrealDBConfig) (*Store, error) {
	db, err := surrealdb.New(config.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Username,
		"pass": config.Password,
	}); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Namespace, config.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	s, err := NewStoreWithDB(ctx, db, logger)
	if err != nil {
		db.Close(ctx)
		return nil, err
	}

	logger.Info().
		Str("address", config.Address).
		Str("namespace", config.Namespace).
		Str("database", config.Database).
		Msg("SurrealDB store initialized")

	return s, nil
}

// NewStoreWithDB wraps an already connected client.
func NewStoreWithDB(ctx context.Context, db *surrealdb.DB, logger *common.Logger) (*Store, error) {
	// SurrealDB v3 errors on querying non-existent tables
	for _, table := range tables {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close(context.Background())
}

// --- Bootstrap ---

type metaRecord struct {
	Version int `json:"version"`
}

// Initialized reports whether the schema marker record exists.
func (s *Store) Initialized(ctx context.Context) (bool, error) {
	meta, err := surrealdb.Select[metaRecord](ctx, s.db, surrealmodels.NewRecordID(tableMeta, "schema"))
	if err != nil {
		return false, fmt.Errorf("failed to read schema marker: %w", err)
	}
	return meta != nil, nil
}

// ApplySchema removes and redefines every portfolio table.
func (s *Store) ApplySchema(ctx context.Context) error {
	if err := s.runScript(ctx, "scripts/schema.surql"); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	s.logger.Info().Msg("SurrealDB schema applied")
	return nil
}

// LoadSampleData inserts the bundled sample portfolio.
func (s *Store) LoadSampleData(ctx context.Context) error {
	if err := s.runScript(ctx, "scripts/sample_data.surql"); err != nil {
		return fmt.Errorf("failed to load sample data: %w", err)
	}
	s.logger.Info().Msg("Sample data loaded")
	return nil
}

func (s *Store) runScript(ctx context.Context, name string) error {
	data, err := scripts.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	for i, stmt := range statements(string(data)) {
		if _, err := surrealdb.Query[any](ctx, s.db, stmt, nil); err != nil {
			return fmt.Errorf("%s statement %d: %w", name, i+1, err)
		}
	}
	return nil
}

// statements splits a script into one statement per ';'-terminated line,
// skipping comments.
func statements(script string) []string {
	var out []string
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Compile-time check
var _ interfaces.PortfolioStore = (*Store)(nil)
