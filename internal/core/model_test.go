package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthStatusDisplay(t *testing.T) {
	tests := []struct {
		status AuthStatus
		want   string
	}{
		{"", "Unknown"},
		{AuthPass, "pass"},
		{AuthFail, "fail"},
		{AuthNone, "none"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.Display())
	}
}

func TestAnalysisResultClone(t *testing.T) {
	var nilResult *AnalysisResult
	assert.Nil(t, nilResult.Clone())

	r := &AnalysisResult{
		Kind:    AnalysisURL,
		Reasons: []string{"a"},
		URL:     &URLComponents{Hostname: "x.com", Query: map[string][]string{"q": {"1"}}},
		Header:  &HeaderComponents{ReceivedChain: []string{"hop"}},
	}
	c := r.Clone()
	assert.Equal(t, r, c)

	c.Reasons[0] = "b"
	c.URL.Query["q"][0] = "2"
	c.Header.ReceivedChain[0] = "other"
	assert.Equal(t, "a", r.Reasons[0])
	assert.Equal(t, "1", r.URL.Query["q"][0])
	assert.Equal(t, "hop", r.Header.ReceivedChain[0])
}
