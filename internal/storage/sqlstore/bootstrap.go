package sqlstore

import (
	"context"
	"fmt"
)

// Initialized reports whether the instruments table exists.
func (s *Store) Initialized(ctx context.Context) (bool, error) {
	var n int
	if err := s.queryRow(ctx, s.dialect.tableExistsQuery(), "instruments").Scan(&n); err != nil {
		return false, fmt.Errorf("failed to inspect schema: %w", err)
	}
	return n > 0, nil
}

// ApplySchema drops and recreates all tables.
func (s *Store) ApplySchema(ctx context.Context) error {
	if err := s.runScript(ctx, s.dialect.schemaFile()); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	s.logger.Info().Str("dialect", string(s.dialect)).Msg("Schema applied")
	return nil
}

// LoadSampleData inserts the bundled sample portfolio.
func (s *Store) LoadSampleData(ctx context.Context) error {
	if err := s.runScript(ctx, "schema/sample_data.sql"); err != nil {
		return fmt.Errorf("failed to load sample data: %w", err)
	}
	s.logger.Info().Msg("Sample data loaded")
	return nil
}

// runScript executes an embedded script in a single transaction.
func (s *Store) runScript(ctx context.Context, name string) error {
	data, err := scripts.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range splitStatements(string(data)) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s statement %d: %w", name, i+1, err)
		}
	}
	return tx.Commit()
}
