package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CoachService asks the configured coach for advice on a scorecard.
// Coaching is optional; failures are logged and swallowed.
type CoachService struct {
	coach   Coach
	logger  *zap.Logger
	timeout time.Duration
}

// NewCoachService creates a new coach service. A nil coach disables coaching.
func NewCoachService(coach Coach, logger *zap.Logger, timeout time.Duration) *CoachService {
	return &CoachService{
		coach:   coach,
		logger:  logger,
		timeout: timeout,
	}
}

// Enabled reports whether a coach is configured
func (s *CoachService) Enabled() bool {
	return s != nil && s.coach != nil
}

// Advise returns advice for the scorecard, or nil when coaching is disabled
// or the coach failed
func (s *CoachService) Advise(ctx context.Context, card *Scorecard) *Advice {
	if !s.Enabled() || card == nil {
		return nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	advice, err := s.coach.Advise(ctx, card)
	if err != nil {
		s.logger.Error("Coach request failed",
			zap.String("session_id", card.SessionID),
			zap.Error(err))
		return nil
	}

	s.logger.Info("Coach advice received",
		zap.String("session_id", card.SessionID),
		zap.String("model", advice.ModelUsed),
		zap.Int("tips", len(advice.Tips)),
		zap.Duration("elapsed", time.Since(start)))

	return advice
}
