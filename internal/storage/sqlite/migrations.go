package sqlite

import (
	"context"
	"database/sql"
)

// Migrate runs all database migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	migrations := []string{
		// Runs table
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			source_mode TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			max_cases INTEGER NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			valid_marker TEXT NOT NULL DEFAULT 'V',
			product_size INTEGER NOT NULL,
			sampled INTEGER NOT NULL DEFAULT 0,
			variables_json TEXT NOT NULL,
			classes_json TEXT NOT NULL,
			cases_json TEXT NOT NULL,
			annotations_json TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source)`,
	}

	for _, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return err
		}
	}

	return nil
}
