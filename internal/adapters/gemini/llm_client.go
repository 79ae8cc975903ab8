package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/phishdefender/phish-defender/internal/adapters/coach"
	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ContentGenerator is the part of a Gemini model the coach uses
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiCoach is an implementation of the Coach interface using Google Gemini
type GeminiCoach struct {
	client        *genai.Client
	model         ContentGenerator
	modelName     string
	maxPromptSize int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeminiCoach creates a Gemini client and configures a generative model
func NewGeminiCoach(
	ctx context.Context,
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxPromptSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiCoach, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = genai.NewUserContent(genai.Text(coach.SystemPrompt))

	c := newGeminiCoach(model, modelName, maxPromptSize, logger, textProcessor)
	c.client = client
	return c, nil
}

func newGeminiCoach(model ContentGenerator, modelName string, maxPromptSize int, logger *zap.Logger, textProcessor *utils.TextProcessor) *GeminiCoach {
	return &GeminiCoach{
		model:         model,
		modelName:     modelName,
		maxPromptSize: maxPromptSize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Close closes the Gemini client
func (c *GeminiCoach) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Advise asks the model for coaching feedback on a scorecard
func (c *GeminiCoach) Advise(ctx context.Context, card *core.Scorecard) (*core.Advice, error) {
	prompt := coach.BuildPrompt(card, c.textProcessor, c.maxPromptSize)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("empty response from Gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	c.logger.Debug("Gemini coach responded",
		zap.String("model", c.modelName),
		zap.Int("response_size", text.Len()))

	return coach.ParseAdvice(text.String(), c.modelName, "")
}
