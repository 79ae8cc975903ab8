package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeHeader_ReturnPathMismatch(t *testing.T) {
	result := AnalyzeHeader("From: a@x.com\nReturn-Path: <b@y.com>")

	assert.True(t, result.Suspicious)
	assert.Equal(t, []string{
		"From address doesn't match Return-Path (potential spoofing)",
		"From domain (x.com) doesn't match Return-Path domain (y.com)",
	}, result.Reasons)
}

func TestAnalyzeHeader_Clean(t *testing.T) {
	input := `Return-Path: <alerts@bank.com>
Received: from mail.bank.com (mail.bank.com [203.0.113.5])
Received: from edge.bank.com
Authentication-Results: mx.example.net; dkim=pass header.d=bank.com; spf=pass smtp.mailfrom=bank.com
From: Bank Alerts <alerts@bank.com>
Message-ID: <20240115.1234@bank.com>
X-Mailer: Microsoft Outlook 16.0`

	result := AnalyzeHeader(input)
	require.NotNil(t, result.Header)

	assert.False(t, result.Suspicious)
	assert.Empty(t, result.Reasons)
	assert.Equal(t, "Bank Alerts <alerts@bank.com>", result.Header.From)
	assert.Equal(t, "<alerts@bank.com>", result.Header.ReturnPath)
	assert.Equal(t, "pass", result.Header.DKIM)
	assert.Equal(t, "pass", result.Header.SPF)
	assert.Equal(t, []string{
		"from mail.bank.com (mail.bank.com [203.0.113.5])",
		"from edge.bank.com",
	}, result.Header.ReceivedChain)
}

func TestAnalyzeHeader_Rules(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		reasons []string
	}{
		{
			name:  "reply-to mismatch",
			input: "From: support@shop.com\nReply-To: <collect@evil.net>",
			reasons: []string{
				"Reply-To doesn't match From address",
				"From domain (shop.com) doesn't match Reply-To domain (evil.net)",
			},
		},
		{
			name:    "both auth mechanisms fail",
			input:   "Authentication-Results: dkim=fail; spf=softfail",
			reasons: []string{"Failed email authentication (DKIM and SPF)"},
		},
		{
			name:    "only spf fails",
			input:   "X-Auth: dkim=pass\nX-Auth2: spf=none",
			reasons: []string{"Failed email authentication (SPF)"},
		},
		{
			name:    "last auth token wins",
			input:   "A: dkim=fail\nB: dkim=pass",
			reasons: nil,
		},
		{
			name:    "bulk mailer",
			input:   "X-Mailer: PHPMailer 5.2.9",
			reasons: []string{"Suspicious X-Mailer value (PHPMailer)"},
		},
		{
			name:  "message-id domain mismatch and random pattern",
			input: "From: it@corp.com\nMessage-ID: <random123@mailer.biz>",
			reasons: []string{
				"Message-ID domain (mailer.biz) doesn't match From domain (corp.com)",
				"Message-ID has suspicious random-looking pattern",
			},
		},
		{
			name:    "uuid-like message id",
			input:   "Message-ID: <3f2a9c1e-1b2c-4d5e-8f90-0123456789ab>",
			reasons: []string{"Message-ID has suspicious random-looking pattern"},
		},
		{
			name:    "case-insensitive field names",
			input:   "FROM: a@x.com\nreturn-path: a@x.com",
			reasons: nil,
		},
		{
			name:    "garbage lines ignored",
			input:   "\n\n:::\nnot a header\n\t\n",
			reasons: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeHeader(tt.input)
			assert.Equal(t, tt.reasons != nil, result.Suspicious)
			assert.Equal(t, tt.reasons, result.Reasons)
		})
	}
}

func TestAnalyzeHeader_MissingAuthIsUnknown(t *testing.T) {
	result := AnalyzeHeader("From: a@x.com")
	assert.Empty(t, result.Header.DKIM)
	assert.Empty(t, result.Header.SPF)
	assert.False(t, result.Suspicious)
}
