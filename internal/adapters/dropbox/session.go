package dropbox

import (
	"context"
	"fmt"
	"io"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
)

// backend implements the go-smtp Backend interface
type backend struct {
	box *Server
}

// NewSession creates a new SMTP session
func (b *backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &session{
		box:    b.box,
		remote: c.Conn().RemoteAddr().String(),
	}, nil
}

// session implements the go-smtp Session interface
type session struct {
	box        *Server
	remote     string
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *session) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Mail checks the sender against the submitter whitelist
func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	if !s.box.checker.Permits(from) {
		s.box.logger.Info("Rejecting submitter",
			zap.String("from", from),
			zap.String("remote", s.remote))
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      "Submitter domain not allowed",
		}
	}
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data analyzes the sample
func (s *session) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.box.logger.Error("Failed to read message data", zap.Error(err))
		return fmt.Errorf("failed to read message data: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()

	sub := s.box.Inspect(ctx, s.sender, s.recipients, raw)
	sub.Rejected = sub.Suspicious && s.box.cfg.RejectSuspicious
	s.box.record(sub)

	fields := []zap.Field{
		zap.String("submission_id", sub.ID),
		zap.String("from", sub.Sender),
		zap.String("subject", sub.Subject),
		zap.Bool("suspicious", sub.Suspicious),
		zap.Int("urls", len(sub.URLs)),
		zap.Strings("reasons", sub.Reasons()),
	}

	if sub.Rejected {
		s.box.logger.Info("Rejecting suspicious sample", fields...)
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Rejected as suspicious (%d signals)", len(sub.Reasons())),
		}
	}

	s.box.logger.Info("Analyzed sample", fields...)
	return nil
}

// Logout handles SMTP logout
func (s *session) Logout() error {
	return nil
}
