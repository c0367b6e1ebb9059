// Package storage selects and bootstraps the portfolio store backend.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/stockfolio/internal/common"
	"github.com/bobmcallan/stockfolio/internal/interfaces"
	"github.com/bobmcallan/stockfolio/internal/storage/sqlstore"
	"github.com/bobmcallan/stockfolio/internal/storage/surrealdb"
)

// Backend type constants.
const (
	BackendSQLite    = "sqlite"
	BackendPostgres  = "postgres"
	BackendSurrealDB = "surrealdb"
)

// ErrUnknownBackend is returned for an unsupported storage.backend value.
var ErrUnknownBackend = errors.New("unknown storage backend")

// NewStore opens the store named by config.Backend.
// Supported backends: "sqlite" (default), "postgres", "surrealdb".
func NewStore(ctx context.Context, logger *common.Logger, config *common.StorageConfig) (interfaces.PortfolioStore, error) {
	backend := config.Backend
	if backend == "" {
		backend = BackendSQLite
	}

	switch backend {
	case BackendSQLite:
		path := config.SQLite.Path
		if path == "" {
			path = "data/stockfolio.db"
		}
		return sqlstore.OpenSQLite(ctx, logger, path)

	case BackendPostgres:
		if config.Postgres.DSN == "" {
			return nil, fmt.Errorf("postgres backend requires storage.postgres.dsn")
		}
		return sqlstore.OpenPostgres(ctx, logger, config.Postgres.DSN)

	case BackendSurrealDB:
		return surrealdb.NewStore(ctx, logger, config.SurrealDB)

	default:
		return nil, fmt.Errorf("%w: %s (supported: sqlite, postgres, surrealdb)", ErrUnknownBackend, backend)
	}
}
