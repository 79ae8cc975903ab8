package store

import (
	"context"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteDialect = dialect{
	name: "SQLite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS training_emails (
			id TEXT PRIMARY KEY,
			phase TEXT NOT NULL,
			position INTEGER NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_training_emails_phase ON training_emails(phase, position)`,
		`CREATE TABLE IF NOT EXISTS lab_challenges (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			payload TEXT NOT NULL
		)`,
	},
}

// NewSQLiteStore opens (creating if needed) a SQLite dataset store
func NewSQLiteStore(ctx context.Context, dbPath string, logger *zap.Logger) (*SQLStore, error) {
	return openStore(ctx, "sqlite3", dbPath, sqliteDialect, logger)
}
