package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the schema version this build reads and writes.
// Opening a database that cannot reach it is fatal.
const ExpectedSchemaVersion = 3

// schemaStep moves the database from version-1 to version.
type schemaStep struct {
	name       string
	statements []string
	version    int
}

var schemaSteps = []schemaStep{
	{
		version: 1,
		name:    "record store",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS kv_store (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		version: 2,
		name:    "subcategory registry",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS subcategories (
				category TEXT NOT NULL,
				name TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (category, name)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_subcategories_name ON subcategories(name)`,
		},
	},
	{
		version: 3,
		name:    "checkpoint catalogue",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS checkpoint_metadata (
				id TEXT PRIMARY KEY,
				created_at DATETIME NOT NULL,
				description TEXT,
				file_size INTEGER,
				row_counts TEXT,
				schema_version INTEGER,
				is_auto BOOLEAN DEFAULT 0
			)`,
			`CREATE INDEX IF NOT EXISTS idx_checkpoint_metadata_created_at ON checkpoint_metadata(created_at)`,
		},
	},
}

// SchemaVersion reports the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate brings the schema up to ExpectedSchemaVersion. Each step runs in
// its own transaction together with the user_version bump.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, step := range schemaSteps {
		if step.version <= current {
			continue
		}
		if err := s.applyStep(ctx, step); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", step.version, step.name, err)
		}
		slog.Debug("Applied migration", "version", step.version, "name", step.name)
	}

	reached, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if reached != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, reached)
	}
	return nil
}

func (s *SQLiteStorage) applyStep(ctx context.Context, step schemaStep) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range step.statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	// PRAGMA does not take bound parameters.
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", step.version)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	return tx.Commit()
}
