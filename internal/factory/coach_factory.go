package factory

import (
	"context"
	"fmt"

	"github.com/phishdefender/phish-defender/internal/adapters/bedrock"
	"github.com/phishdefender/phish-defender/internal/adapters/gemini"
	"github.com/phishdefender/phish-defender/internal/adapters/openai"
	"github.com/phishdefender/phish-defender/internal/config"
	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/utils"
	"go.uber.org/zap"
)

// CoachFactory creates the LLM coach named by coach.provider
type CoachFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewCoachFactory creates a new coach factory
func NewCoachFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *CoachFactory {
	return &CoachFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateCoach creates a coach based on the configuration. The "none"
// provider yields a nil coach and no error.
func (f *CoachFactory) CreateCoach(ctx context.Context) (core.Coach, error) {
	coachCfg, err := f.cfg.GetCoach()
	if err != nil {
		return nil, err
	}

	switch coachCfg.Provider {
	case "", "none":
		return nil, nil
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateCoach(ctx)
	case "gemini":
		if f.cfg.GetGemini().APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		return gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateCoach(ctx)
	case "openai":
		if f.cfg.GetOpenAI().APIKey == "" {
			return nil, fmt.Errorf("openai API key is required")
		}
		return openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateCoach()
	default:
		return nil, fmt.Errorf("unsupported coach provider: %s", coachCfg.Provider)
	}
}

// CreateCoachService wraps the configured coach with its timeout. Provider
// errors are logged and leave the service disabled.
func (f *CoachFactory) CreateCoachService(ctx context.Context) (*core.CoachService, error) {
	coachCfg, err := f.cfg.GetCoach()
	if err != nil {
		return nil, err
	}

	c, err := f.CreateCoach(ctx)
	if err != nil {
		f.logger.Error("Coach unavailable, continuing without advice",
			zap.String("provider", coachCfg.Provider), zap.Error(err))
		c = nil
	}
	return core.NewCoachService(c, f.logger, coachCfg.Timeout), nil
}
