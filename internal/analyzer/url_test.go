package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeURL(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		suspicious bool
		reasons    []string
	}{
		{
			name:       "legitimate amazon product page",
			input:      "https://www.amazon.com/dp/B08N5M7S6K/",
			suspicious: false,
		},
		{
			name:       "paypal typosquat",
			input:      "https://paypa1.com/account/verify",
			suspicious: true,
			reasons:    []string{"Possible typosquatting of paypal.com"},
		},
		{
			name:       "raw ip over http",
			input:      "http://93.184.216.34/login.php",
			suspicious: true,
			reasons: []string{
				"Uses insecure HTTP protocol instead of HTTPS",
				"Uses IP address instead of domain name",
				"Complex or unusual domain structure",
				"Path contains authentication-related keywords",
			},
		},
		{
			name:       "scheme defaults to http",
			input:      "example.com",
			suspicious: true,
			reasons:    []string{"Uses insecure HTTP protocol instead of HTTPS"},
		},
		{
			name:       "security subdomain with brand on other domain",
			input:      "https://secure.paypal.account-verify.com/signin",
			suspicious: true,
			reasons: []string{
				"Possible typosquatting of paypal.com",
				"Suspicious subdomain containing security-related terms (secure.paypal)",
				"Contains paypal in subdomain but different main domain",
				"Complex or unusual domain structure",
				"Path contains authentication-related keywords",
			},
		},
		{
			name:       "redirect parameter",
			input:      "https://example.com/track?redirect=https://evil.test",
			suspicious: true,
			reasons:    []string{"Contains redirection parameters"},
		},
		{
			name:       "brand on unusual tld",
			input:      "https://apple.xyz",
			suspicious: true,
			reasons: []string{
				"Possible typosquatting of apple.com",
				"Unusual TLD (.xyz) for apple - official domains use .com",
			},
		},
		{
			name:       "ip- token in host",
			input:      "https://ip-10-0-0-1.example.com",
			suspicious: true,
			reasons: []string{
				"Uses IP address instead of domain name",
				"Complex or unusual domain structure",
			},
		},
		{
			name:       "deep subdomain chain",
			input:      "https://a.b.c.example.org",
			suspicious: true,
			reasons:    []string{"Complex or unusual domain structure"},
		},
		{
			name:       "uppercase host is normalized",
			input:      "HTTPS://WWW.GOOGLE.COM/",
			suspicious: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := AnalyzeURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.suspicious, result.Suspicious)
			if tt.reasons == nil {
				assert.Empty(t, result.Reasons)
			} else {
				assert.Equal(t, tt.reasons, result.Reasons)
			}
			assert.Equal(t, tt.input, result.Input)
		})
	}
}

func TestAnalyzeURL_Components(t *testing.T) {
	result, err := AnalyzeURL("https://Shop.Example.com/cart?id=7&url=x")
	require.NoError(t, err)
	require.NotNil(t, result.URL)

	assert.Equal(t, "https", result.URL.Protocol)
	assert.Equal(t, "shop.example.com", result.URL.Hostname)
	assert.Equal(t, "/cart", result.URL.Path)
	assert.Equal(t, []string{"7"}, result.URL.Query["id"])
	assert.Contains(t, result.Reasons, "Contains redirection parameters")
}

func TestAnalyzeURL_StopsAtFirstTyposquat(t *testing.T) {
	// matches both the paypal and the apple patterns
	result, err := AnalyzeURL("https://paypa1-appl3.net")
	require.NoError(t, err)

	var typo []string
	for _, r := range result.Reasons {
		if strings.HasPrefix(r, "Possible typosquatting") {
			typo = append(typo, r)
		}
	}
	assert.Equal(t, []string{"Possible typosquatting of paypal.com"}, typo)
}

func TestAnalyzeURL_Invalid(t *testing.T) {
	for _, input := range []string{"not a url", "", "http://", "https://exa mple.com"} {
		t.Run(input, func(t *testing.T) {
			result, err := AnalyzeURL(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidURL)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, InvalidURL, perr.Kind)
			assert.Equal(t, input, perr.Input)

			require.NotNil(t, result)
			assert.True(t, result.Suspicious)
			assert.Equal(t, []string{InvalidURLReason}, result.Reasons)
			assert.Nil(t, result.URL)
		})
	}
}

func TestAnalyzeURL_Deterministic(t *testing.T) {
	first, err := AnalyzeURL("http://micr0soft-support.com/login")
	require.NoError(t, err)
	second, err := AnalyzeURL("http://micr0soft-support.com/login")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
