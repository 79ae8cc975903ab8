package gemini

import (
	"context"

	"github.com/phishdefender/phish-defender/internal/config"
	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/utils"
	"go.uber.org/zap"
)

// Factory creates new instances of GeminiCoach
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for GeminiCoach instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateCoach creates a new GeminiCoach
func (f *Factory) CreateCoach(ctx context.Context) (core.Coach, error) {
	geminiCfg := f.cfg.GetGemini()

	return NewGeminiCoach(
		ctx,
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		geminiCfg.MaxPromptSize,
		f.logger,
		f.textProcessor,
	)
}
