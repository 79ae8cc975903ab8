package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestChecker(t *testing.T) {
	c := NewChecker([]string{" Example.COM ", "", "lab.internal."}, zap.NewNop())

	tests := []struct {
		from string
		want bool
	}{
		{"alice@example.com", true},
		{"ALICE@EXAMPLE.COM", true},
		{"bob@mail.example.com", true},
		{"<carol@lab.internal>", true},
		{"eve@notexample.com", false},
		{"eve@example.com.evil.net", false},
		{"no-at-sign", false},
		{"trailing@", false},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsWhitelisted(tt.from))
			assert.Equal(t, tt.want, c.Permits(tt.from))
		})
	}
}

func TestEmptyChecker(t *testing.T) {
	c := NewChecker(nil, nil)
	assert.True(t, c.Empty())
	assert.False(t, c.IsWhitelisted("a@example.com"))
	assert.True(t, c.Permits("a@example.com"))

	var nilChecker *Checker
	assert.True(t, nilChecker.Permits("a@example.com"))
}
