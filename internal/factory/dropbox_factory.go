package factory

import (
	"github.com/phishdefender/phish-defender/internal/adapters/dropbox"
	"github.com/phishdefender/phish-defender/internal/analyzer"
	"github.com/phishdefender/phish-defender/internal/config"
	"github.com/phishdefender/phish-defender/internal/whitelist"
	"go.uber.org/zap"
)

// DropboxFactory creates the lab drop box
type DropboxFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDropboxFactory creates a new drop box factory
func NewDropboxFactory(cfg *config.Config, logger *zap.Logger) *DropboxFactory {
	return &DropboxFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateServer creates an unstarted drop box
func (f *DropboxFactory) CreateServer(svc *analyzer.Service) *dropbox.Server {
	dbCfg := f.cfg.GetDropbox()
	checker := whitelist.NewChecker(dbCfg.AllowedSubmitterDomains, f.logger)
	return dropbox.NewServer(svc, checker, dbCfg, f.logger)
}
