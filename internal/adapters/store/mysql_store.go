package store

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var mysqlDialect = dialect{
	name: "MySQL",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS training_emails (
			id VARCHAR(64) PRIMARY KEY,
			phase VARCHAR(16) NOT NULL,
			position INT NOT NULL,
			payload JSON NOT NULL,
			INDEX idx_training_emails_phase (phase, position)
		)`,
		`CREATE TABLE IF NOT EXISTS lab_challenges (
			id VARCHAR(64) PRIMARY KEY,
			position INT NOT NULL,
			payload JSON NOT NULL
		)`,
	},
}

// NewMySQLStore connects to a MySQL dataset store
func NewMySQLStore(ctx context.Context, dsn string, logger *zap.Logger) (*SQLStore, error) {
	return openStore(ctx, "mysql", dsn, mysqlDialect, logger)
}
