package database

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Schema is the DDL of the run ledger
const Schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id UUID PRIMARY KEY,
		journey VARCHAR(255) NOT NULL,
		account VARCHAR(64) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL,
		final_state VARCHAR(64) NOT NULL DEFAULT '',
		failure TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_journey ON runs(journey);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

// RunMigrations creates the run ledger tables
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	logrus.Debug("Database migrations completed successfully")
	return nil
}
