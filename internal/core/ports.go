package core

import (
	"context"
	"time"
)

// DatasetRepository serves the static training content
type DatasetRepository interface {
	// QuickfireEmails returns the quickfire emails in presentation order
	QuickfireEmails(ctx context.Context) ([]Email, error)

	// InboxEmails returns the inbox emails in presentation order
	InboxEmails(ctx context.Context) ([]Email, error)

	// Challenges returns the lab challenges in presentation order
	Challenges(ctx context.Context) ([]Challenge, error)
}

// VerdictCache memoizes analysis results
type VerdictCache interface {
	// Get retrieves a cached result
	Get(ctx context.Context, key string) (*AnalysisResult, error)

	// Set stores a result for ttl
	Set(ctx context.Context, key string, result *AnalysisResult, ttl time.Duration) error
}

// Coach produces study advice for a finished playthrough
type Coach interface {
	Advise(ctx context.Context, card *Scorecard) (*Advice, error)
}
