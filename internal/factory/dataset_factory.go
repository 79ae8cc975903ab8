package factory

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/phishdefender/phish-defender/internal/adapters/store"
	"github.com/phishdefender/phish-defender/internal/config"
	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/dataset"
	"go.uber.org/zap"
)

// DatasetFactory creates dataset repositories based on configuration
type DatasetFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDatasetFactory creates a new dataset factory
func NewDatasetFactory(cfg *config.Config, logger *zap.Logger) *DatasetFactory {
	return &DatasetFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateRepository creates the repository named by dataset.type
func (f *DatasetFactory) CreateRepository(ctx context.Context) (core.DatasetRepository, error) {
	if f.cfg.GetDataset().Type == "embedded" {
		return dataset.NewEmbeddedStore()
	}
	return f.CreateSQLStore(ctx)
}

// CreateSQLStore creates a SQL store; it fails for the embedded type
func (f *DatasetFactory) CreateSQLStore(ctx context.Context) (*store.SQLStore, error) {
	dsCfg := f.cfg.GetDataset()

	switch dsCfg.Type {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(dsCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(ctx, dsCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(ctx, dsCfg.MySQLDSN, f.logger)
	case "postgres":
		return store.NewPostgresStore(ctx, dsCfg.PostgresDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported dataset type for SQL store: %s", dsCfg.Type)
	}
}

// LoadDataset reads and validates the full dataset, closing the repository
// afterwards. Content is read once per process.
func (f *DatasetFactory) LoadDataset(ctx context.Context) (*dataset.Dataset, error) {
	repo, err := f.CreateRepository(ctx)
	if err != nil {
		return nil, err
	}
	if c, ok := repo.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				f.logger.Warn("Failed to close dataset repository", zap.Error(err))
			}
		}()
	}

	ds, err := dataset.Load(ctx, repo)
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	f.logger.Debug("Dataset loaded",
		zap.String("type", f.cfg.GetDataset().Type),
		zap.Int("quickfire", len(ds.Quickfire)),
		zap.Int("inbox", len(ds.Inbox)),
		zap.Int("challenges", len(ds.Challenges)))
	return ds, nil
}
