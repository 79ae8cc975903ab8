package store

import (
	"context"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

var postgresDialect = dialect{
	name: "PostgreSQL",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS training_emails (
			id TEXT PRIMARY KEY,
			phase TEXT NOT NULL,
			position INTEGER NOT NULL,
			payload JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_training_emails_phase ON training_emails(phase, position)`,
		`CREATE TABLE IF NOT EXISTS lab_challenges (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			payload JSONB NOT NULL
		)`,
	},
	bind: dollarPlaceholders,
}

// dollarPlaceholders turns each '?' into $1, $2, ...
func dollarPlaceholders(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NewPostgresStore connects to a PostgreSQL dataset store through pgx
func NewPostgresStore(ctx context.Context, dsn string, logger *zap.Logger) (*SQLStore, error) {
	return openStore(ctx, "pgx", dsn, postgresDialect, logger)
}
