// Package store serves training content from SQL databases.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/dataset"
	"go.uber.org/zap"
)

const (
	phaseQuickfire = "quickfire"
	phaseInbox     = "inbox"
)

// dialect holds the statements that differ between SQL backends
type dialect struct {
	name   string
	schema []string
	// bind rewrites '?' placeholders for drivers that want something else
	bind func(query string) string
}

// SQLStore is a SQL implementation of the DatasetRepository interface.
// Rows hold the JSON encoding of one email or challenge.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

func openStore(ctx context.Context, driver, dsn string, d dialect, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", d.name, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", d.name, err)
	}

	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s schema: %w", d.name, err)
		}
	}

	return &SQLStore{db: db, dialect: d, logger: logger}, nil
}

func (s *SQLStore) query(q string) string {
	if s.dialect.bind == nil {
		return q
	}
	return s.dialect.bind(q)
}

// QuickfireEmails returns the quickfire emails in position order
func (s *SQLStore) QuickfireEmails(ctx context.Context) ([]core.Email, error) {
	return s.emails(ctx, phaseQuickfire)
}

// InboxEmails returns the inbox emails in position order
func (s *SQLStore) InboxEmails(ctx context.Context) ([]core.Email, error) {
	return s.emails(ctx, phaseInbox)
}

func (s *SQLStore) emails(ctx context.Context, phase string) ([]core.Email, error) {
	rows, err := s.db.QueryContext(ctx, s.query(`
		SELECT payload FROM training_emails
		WHERE phase = ?
		ORDER BY position
	`), phase)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s emails: %w", phase, err)
	}
	defer rows.Close()

	var emails []core.Email
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan %s email: %w", phase, err)
		}
		var email core.Email
		if err := json.Unmarshal(payload, &email); err != nil {
			return nil, fmt.Errorf("failed to decode %s email: %w", phase, err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s emails: %w", phase, err)
	}

	s.logger.Debug("Loaded emails", zap.String("backend", s.dialect.name),
		zap.String("phase", phase), zap.Int("count", len(emails)))
	return emails, nil
}

// Challenges returns the lab challenges in position order
func (s *SQLStore) Challenges(ctx context.Context) ([]core.Challenge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM lab_challenges
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	var challenges []core.Challenge
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		var c core.Challenge
		if err := json.Unmarshal(payload, &c); err != nil {
			return nil, fmt.Errorf("failed to decode challenge: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read challenges: %w", err)
	}
	return challenges, nil
}

// Seed replaces the stored content with ds in a single transaction
func (s *SQLStore) Seed(ctx context.Context, ds *dataset.Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM training_emails", "DELETE FROM lab_challenges"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
	}

	insertEmail := s.query(`INSERT INTO training_emails (id, phase, position, payload) VALUES (?, ?, ?, ?)`)
	for phase, emails := range map[string][]core.Email{phaseQuickfire: ds.Quickfire, phaseInbox: ds.Inbox} {
		for i, email := range emails {
			payload, err := json.Marshal(email)
			if err != nil {
				return fmt.Errorf("failed to encode email %s: %w", email.ID, err)
			}
			if _, err := tx.ExecContext(ctx, insertEmail, email.ID, phase, i, string(payload)); err != nil {
				return fmt.Errorf("failed to insert email %s: %w", email.ID, err)
			}
		}
	}

	insertChallenge := s.query(`INSERT INTO lab_challenges (id, position, payload) VALUES (?, ?, ?)`)
	for i, c := range ds.Challenges {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to encode challenge %s: %w", c.ID, err)
		}
		if _, err := tx.ExecContext(ctx, insertChallenge, c.ID, i, string(payload)); err != nil {
			return fmt.Errorf("failed to insert challenge %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	s.logger.Info("Seeded dataset",
		zap.String("backend", s.dialect.name),
		zap.Int("quickfire", len(ds.Quickfire)),
		zap.Int("inbox", len(ds.Inbox)),
		zap.Int("challenges", len(ds.Challenges)))
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close %s database: %w", s.dialect.name, err)
	}
	return nil
}
