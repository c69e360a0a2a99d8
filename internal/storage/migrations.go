package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			// position keeps the register in the order rows were written
			_, err := tx.Exec(`CREATE TABLE IF NOT EXISTS correspondence (
				position INTEGER PRIMARY KEY,
				ref_id TEXT NOT NULL,
				date_received TEXT NOT NULL,
				type TEXT NOT NULL DEFAULT '',
				classification TEXT NOT NULL DEFAULT '',
				sender TEXT NOT NULL DEFAULT '',
				subject TEXT NOT NULL DEFAULT '',
				assigned_to TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL,
				date_completed TEXT,
				tat_days INTEGER NOT NULL DEFAULT 0
			)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "Index ref ids and statuses",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_correspondence_ref_id ON correspondence(ref_id)`,
				`CREATE INDEX IF NOT EXISTS idx_correspondence_status ON correspondence(status)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
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

// Migrate applies pending migrations and returns the number applied.
func (s *SQLiteStorage) Migrate(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return applied, fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return applied, fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}
		applied++

		s.logger.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return applied, fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return applied, fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return applied, nil
}
