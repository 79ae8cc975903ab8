// Package dropbox runs a local SMTP endpoint that accepts forwarded sample
// emails and runs the lab analyzers over them.
package dropbox

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/phishdefender/phish-defender/internal/analyzer"
	"github.com/phishdefender/phish-defender/internal/config"
	"github.com/phishdefender/phish-defender/internal/whitelist"
	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned by Start on a running server
var ErrAlreadyStarted = errors.New("drop box already started")

const (
	analysisTimeout = 10 * time.Second
	maxRecipients   = 50
)

// Server is the lab drop box
type Server struct {
	analyzer *analyzer.Service
	checker  *whitelist.Checker
	logger   *zap.Logger
	cfg      config.DropboxConfig

	server   *smtp.Server
	listener net.Listener
	done     chan struct{}

	mu          sync.Mutex
	submissions []*Submission
}

// NewServer creates a new drop box
func NewServer(
	svc *analyzer.Service,
	checker *whitelist.Checker,
	cfg config.DropboxConfig,
	logger *zap.Logger,
) *Server {
	if cfg.MaxSubmissions <= 0 {
		cfg.MaxSubmissions = 100
	}
	return &Server{
		analyzer: svc,
		checker:  checker,
		logger:   logger,
		cfg:      cfg,
	}
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	if s.server != nil {
		return ErrAlreadyStarted
	}

	l, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddress, err)
	}

	s.server = smtp.NewServer(&backend{box: s})
	s.server.Domain = s.cfg.Domain
	s.server.ReadTimeout = 30 * time.Second
	s.server.WriteTimeout = 30 * time.Second
	s.server.MaxMessageBytes = s.cfg.MaxMessageBytes
	s.server.MaxRecipients = maxRecipients
	s.listener = l
	s.done = make(chan struct{})

	s.logger.Info("Drop box starting", zap.String("address", l.Addr().String()))

	go func() {
		defer close(s.done)
		if err := s.server.Serve(l); err != nil && !errors.Is(err, smtp.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			s.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the address the server is listening on, or nil before Start
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and every open connection and waits for the
// serve loop to exit
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	err := s.server.Close()
	if lerr := s.closeListener(); err == nil {
		err = lerr
	}
	<-s.done
	if err != nil && !errors.Is(err, smtp.ErrServerClosed) {
		return fmt.Errorf("failed to stop drop box: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for open sessions to end
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	if lerr := s.closeListener(); err == nil {
		err = lerr
	}
	<-s.done
	if err != nil && !errors.Is(err, smtp.ErrServerClosed) {
		return fmt.Errorf("failed to shut down drop box: %w", err)
	}
	return nil
}

// closeListener closes the listener directly. The SMTP server only closes
// listeners that Serve has already registered, which it may not have done
// yet right after Start.
func (s *Server) closeListener() error {
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// Submissions returns the retained submissions, oldest first
func (s *Server) Submissions() []*Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Submission, len(s.submissions))
	copy(out, s.submissions)
	return out
}

func (s *Server) record(sub *Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, sub)
	if over := len(s.submissions) - s.cfg.MaxSubmissions; over > 0 {
		s.submissions = append(s.submissions[:0:0], s.submissions[over:]...)
	}
}
