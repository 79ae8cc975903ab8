package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/phishdefender/phish-defender/internal/adapters/cache"
	"github.com/phishdefender/phish-defender/internal/adapters/dropbox"
	"github.com/phishdefender/phish-defender/internal/analyzer"
	"github.com/phishdefender/phish-defender/internal/config"
	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/dataset"
	"github.com/phishdefender/phish-defender/internal/factory"
	"github.com/phishdefender/phish-defender/internal/game"
	"github.com/phishdefender/phish-defender/internal/logging"
	"github.com/phishdefender/phish-defender/internal/utils"
)

// Options carries the command line inputs the container needs
type Options struct {
	ConfigFile string
	Verbose    bool
	JSONLog    bool
	// LogOutput replaces logging.output when set
	LogOutput string
	// Overrides are applied on top of the loaded configuration
	Overrides map[string]any
}

// BuildContainer creates and configures a dependency injection container.
// Components are built lazily, so a command only connects to what it uses.
func BuildContainer(opts Options) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		cfg, err := config.New(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		for key, value := range opts.Overrides {
			cfg.Set(key, value)
		}
		if opts.LogOutput != "" {
			cfg.Set("logging.output", opts.LogOutput)
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register logger; command line flags win over the config file
	if err := container.Provide(func(cfg *config.Config) (*zap.Logger, error) {
		var (
			logger *zap.Logger
			err    error
		)
		if opts.Verbose || opts.JSONLog {
			logger, err = logging.InitConsoleLogger(opts.Verbose, opts.JSONLog, cfg.GetString("logging.output"))
		} else {
			logger, err = logging.InitLogger(cfg)
		}
		if err != nil {
			return nil, err
		}
		if used := cfg.ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}
		return logger, nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	for _, ctor := range []any{
		factory.NewTextProcessorFactory,
		factory.NewCacheFactory,
		factory.NewCoachFactory,
		factory.NewDatasetFactory,
		factory.NewDropboxFactory,
	} {
		if err := container.Provide(ctor); err != nil {
			return nil, err
		}
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register verdict cache and analyzer service
	if err := container.Provide(func(f *factory.CacheFactory) (*cache.MemoryCache, error) {
		return f.CreateVerdictCache()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory, c *cache.MemoryCache) (*analyzer.Service, error) {
		return f.CreateAnalyzer(c)
	}); err != nil {
		return nil, err
	}

	// Register training content
	if err := container.Provide(func(f *factory.DatasetFactory) (*dataset.Dataset, error) {
		return f.LoadDataset(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register coach service
	if err := container.Provide(func(f *factory.CoachFactory) (*core.CoachService, error) {
		return f.CreateCoachService(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register drop box
	if err := container.Provide(func(f *factory.DropboxFactory, svc *analyzer.Service) *dropbox.Server {
		return f.CreateServer(svc)
	}); err != nil {
		return nil, err
	}

	// Register game settings
	if err := container.Provide(GameSettings); err != nil {
		return nil, err
	}

	return container, nil
}

// GameSettings maps the game configuration onto controller settings
func GameSettings(cfg *config.Config) (game.Settings, error) {
	gameCfg, err := cfg.GetGame()
	if err != nil {
		return game.Settings{}, err
	}
	return game.Settings{
		CountdownTicks:  gameCfg.CountdownTicks,
		TickInterval:    gameCfg.TickInterval,
		CompletionDelay: gameCfg.CompletionDelay,
		QuickfirePoints: gameCfg.QuickfirePoints,
		InboxPoints:     gameCfg.InboxPoints,
		LabPoints:       gameCfg.LabPoints,
		TopMissed:       gameCfg.TopMissed,
	}, nil
}
