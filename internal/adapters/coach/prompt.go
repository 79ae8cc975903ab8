// Package coach holds the prompt and response format shared by the LLM
// coach adapters.
package coach

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/utils"
)

// SystemPrompt is sent as the system message where the provider supports one
const SystemPrompt = "You are a security awareness coach. Respond only with JSON."

const promptFormat = `You are a security awareness coach. A trainee just finished a phishing
recognition exercise. Give them short, encouraging, specific advice.
Respond with a JSON object containing:
- summary: string (two sentences at most)
- tips: array of strings (three concrete tips, most important first)

Results:
Skill tier: %s
Success rate: %d%%
Quickfire: %d of %d correct
Inbox triage: %d of %d correct
Security lab: %d of %d correct
Most missed warning signs:
%s

Respond only with the JSON object and nothing else.`

// ErrEmptyAdvice is returned when the model answered without a summary or tips
var ErrEmptyAdvice = errors.New("coach returned no advice")

// AdviceResponse is the JSON object the model is asked to produce
type AdviceResponse struct {
	Summary string   `json:"summary"`
	Tips    []string `json:"tips"`
}

// BuildPrompt renders the coaching prompt for a scorecard, truncated to
// maxSize bytes
func BuildPrompt(card *core.Scorecard, tp *utils.TextProcessor, maxSize int) string {
	var missed strings.Builder
	if len(card.TopMissed) == 0 {
		missed.WriteString("- none\n")
	}
	for _, f := range card.TopMissed {
		fmt.Fprintf(&missed, "- %s (missed %d times)\n", f.Flag, f.Count)
	}

	prompt := fmt.Sprintf(promptFormat,
		card.Tier, card.SuccessRate,
		card.Quickfire.Correct, card.Quickfire.Total,
		card.Inbox.Correct, card.Inbox.Total,
		card.Lab.Correct, card.Lab.Total,
		strings.TrimRight(missed.String(), "\n"))

	return tp.ProcessText(prompt, maxSize)
}

// ParseAdvice decodes the model's answer into core.Advice
func ParseAdvice(text, model, responseID string) (*core.Advice, error) {
	var resp AdviceResponse
	if err := utils.DecodeJSONObject(text, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.Summary) == "" && len(resp.Tips) == 0 {
		return nil, ErrEmptyAdvice
	}
	return &core.Advice{
		Summary:    strings.TrimSpace(resp.Summary),
		Tips:       resp.Tips,
		ModelUsed:  model,
		CreatedAt:  time.Now(),
		ResponseID: responseID,
	}, nil
}

// MarshalRequest is json.Marshal with a wrapped error, for provider payloads
func MarshalRequest(v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}
	return payload, nil
}
