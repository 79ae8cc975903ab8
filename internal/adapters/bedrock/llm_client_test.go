package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/phishdefender/phish-defender/internal/adapters/coach"
	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func newTestCoach(inv ModelInvoker, model string) *BedrockCoach {
	return NewBedrockCoach(inv, model, 300, 0.3, 0.9, 4096, zap.NewNop(), utils.NewTextProcessor(zap.NewNop()))
}

func card() *core.Scorecard {
	return &core.Scorecard{SuccessRate: 40, Tier: core.TierBeginner, Total: core.Tally{Correct: 10, Total: 25}}
}

func TestBedrockCoachPayloads(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		body     string
		wantKeys []string
	}{
		{
			name:     "anthropic",
			model:    "anthropic.claude-v2",
			body:     `{"completion":" {\"summary\":\"Keep practicing.\",\"tips\":[\"Slow down\"]}"}`,
			wantKeys: []string{"prompt", "max_tokens_to_sample", "temperature", "top_p"},
		},
		{
			name:     "titan",
			model:    "amazon.titan-text-express-v1",
			body:     `{"results":[{"outputText":"{\"summary\":\"Keep practicing.\",\"tips\":[\"Slow down\"]}"}]}`,
			wantKeys: []string{"inputText", "textGenerationConfig"},
		},
		{
			name:     "generic",
			model:    "meta.llama3",
			body:     `{"output":"{\"summary\":\"Keep practicing.\",\"tips\":[\"Slow down\"]}"}`,
			wantKeys: []string{"prompt", "max_tokens", "temperature", "top_p"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInvoker{body: tt.body}
			advice, err := newTestCoach(inv, tt.model).Advise(context.Background(), card())
			require.NoError(t, err)

			assert.Equal(t, "Keep practicing.", advice.Summary)
			assert.Equal(t, []string{"Slow down"}, advice.Tips)
			assert.Equal(t, tt.model, advice.ModelUsed)

			require.NotNil(t, inv.input)
			assert.Equal(t, tt.model, *inv.input.ModelId)
			var payload map[string]any
			require.NoError(t, json.Unmarshal(inv.input.Body, &payload))
			for _, key := range tt.wantKeys {
				assert.Contains(t, payload, key)
			}
		})
	}
}

func TestBedrockCoachAnthropicFraming(t *testing.T) {
	inv := &fakeInvoker{body: `{"completion":"{\"summary\":\"x\"}"}`}
	_, err := newTestCoach(inv, "anthropic.claude-instant-v1").Advise(context.Background(), card())
	require.NoError(t, err)

	var payload struct {
		Prompt string `json:"prompt"`
	}
	require.NoError(t, json.Unmarshal(inv.input.Body, &payload))
	assert.Contains(t, payload.Prompt, "\n\nHuman: ")
	assert.Contains(t, payload.Prompt, "Skill tier: Beginner")
	assert.True(t, strings.HasSuffix(payload.Prompt, "\n\nAssistant:"))
}

func TestBedrockCoachErrors(t *testing.T) {
	boom := errors.New("throttled")
	_, err := newTestCoach(&fakeInvoker{err: boom}, "anthropic.claude-v2").Advise(context.Background(), card())
	assert.ErrorIs(t, err, boom)

	_, err = newTestCoach(&fakeInvoker{body: `{"results":[]}`}, "amazon.titan-text-lite-v1").Advise(context.Background(), card())
	assert.ErrorContains(t, err, "empty response from Titan model")

	_, err = newTestCoach(&fakeInvoker{body: `{"completion":"{\"tips\":[]}"}`}, "anthropic.claude-v2").Advise(context.Background(), card())
	assert.ErrorIs(t, err, coach.ErrEmptyAdvice)
}
