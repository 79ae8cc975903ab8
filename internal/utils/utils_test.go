package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "short", tp.TruncateText("short", 10))
	assert.Equal(t, "short", tp.TruncateText("short", 0))

	// "é" is two bytes; cutting through it must back off to a rune boundary
	got := tp.TruncateText("abé", 3)
	assert.Equal(t, "ab"+TruncationMarker, got)
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
	assert.Equal(t, "ok", tp.SanitizeUTF8("ok"))
}

func TestDecodeJSONObject(t *testing.T) {
	var v struct {
		Summary string `json:"summary"`
	}

	require.NoError(t, DecodeJSONObject(`{"summary":"plain"}`, &v))
	assert.Equal(t, "plain", v.Summary)

	require.NoError(t, DecodeJSONObject("Sure!\n```json\n{\"summary\":\"wrapped\"}\n```", &v))
	assert.Equal(t, "wrapped", v.Summary)

	err := DecodeJSONObject("no json here", &v)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to extract JSON"))

	err = DecodeJSONObject("{broken}", &v)
	assert.ErrorContains(t, err, "failed to parse LLM response as JSON")
}
