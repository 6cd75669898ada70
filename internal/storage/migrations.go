package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
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
			queries := []string{
				`CREATE TABLE IF NOT EXISTS queue_items (
					id TEXT PRIMARY KEY,
					document_type TEXT NOT NULL,
					source TEXT NOT NULL,
					filename TEXT,
					uploaded_by TEXT NOT NULL,
					uploaded_at DATETIME NOT NULL,
					company_id TEXT,
					status TEXT NOT NULL,
					confidence REAL NOT NULL DEFAULT 0,
					confidence_threshold REAL NOT NULL DEFAULT 0,
					partial_extraction INTEGER NOT NULL DEFAULT 0,
					extraction_error TEXT,
					raw_text TEXT,
					fields TEXT,
					calculator_id TEXT,
					co2e_kg REAL NOT NULL DEFAULT 0,
					scope INTEGER NOT NULL DEFAULT 0,
					scopes TEXT,
					trees_needed REAL NOT NULL DEFAULT 0,
					car_km REAL NOT NULL DEFAULT 0,
					deleted_at DATETIME
				)`,

				`CREATE TABLE IF NOT EXISTS status_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					item_id TEXT NOT NULL,
					from_status TEXT NOT NULL,
					to_status TEXT NOT NULL,
					actor TEXT NOT NULL,
					reason TEXT,
					occurred_at DATETIME NOT NULL,
					FOREIGN KEY (item_id) REFERENCES queue_items(id)
				)`,

				`CREATE TABLE IF NOT EXISTS audit_log (
					id TEXT PRIMARY KEY,
					action TEXT NOT NULL,
					actor TEXT NOT NULL,
					target_id TEXT NOT NULL,
					batch_ref TEXT,
					details TEXT,
					origin TEXT,
					timestamp DATETIME NOT NULL
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Query indexes for queue listing and audit lookups",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_queue_items_status ON queue_items(status)`,
				`CREATE INDEX IF NOT EXISTS idx_queue_items_type ON queue_items(document_type)`,
				`CREATE INDEX IF NOT EXISTS idx_queue_items_uploaded_at ON queue_items(uploaded_at)`,
				`CREATE INDEX IF NOT EXISTS idx_status_history_item ON status_history(item_id)`,
				`CREATE INDEX IF NOT EXISTS idx_audit_log_target ON audit_log(target_id)`,
				`CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate runs all pending migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
