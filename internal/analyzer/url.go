// Package analyzer implements the heuristic phishing checks behind the
// security lab. Both analyzers are pure and never touch the network.
package analyzer

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/phishdefender/phish-defender/internal/core"
	"golang.org/x/text/unicode/norm"
)

// InvalidURLReason is the single reason carried by a result for unparseable input
const InvalidURLReason = "Invalid URL format"

var (
	schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://`)
	ipv4Re   = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)
)

type brandPattern struct {
	brand   string
	pattern *regexp.Regexp
}

// Order matters: the first brand that flags wins.
var typosquatPatterns = []brandPattern{
	{"paypal", regexp.MustCompile(`(?i)paypa[l1]|pay-?pal|payp[a@]l`)},
	{"microsoft", regexp.MustCompile(`(?i)micr[o0]s[o0]ft|micro-soft|msft`)},
	{"amazon", regexp.MustCompile(`(?i)amaz[o0]n|am[a@]z[o0]n|a-?mazon`)},
	{"apple", regexp.MustCompile(`(?i)[a@]ppl[e3]|ap-?ple`)},
	{"google", regexp.MustCompile(`(?i)g[o0][o0]gl[e3]|go-?ogle`)},
	{"facebook", regexp.MustCompile(`(?i)f[a@]c[e3]b[o0][o0]k|face-?book`)},
}

var securitySubdomainTerms = []string{"secure", "login", "account", "banking", "verify", "auth", "signin"}

var redirectParams = []string{"redirect", "url", "link"}

type brandTLDs struct {
	name string
	tlds []string
}

var wellKnownDomains = []brandTLDs{
	{"google", []string{"com", "co.uk", "ca", "de", "fr"}},
	{"microsoft", []string{"com", "net", "org"}},
	{"apple", []string{"com"}},
	{"amazon", []string{"com", "co.uk", "ca", "de", "fr"}},
	{"facebook", []string{"com", "net"}},
	{"paypal", []string{"com", "co.uk", "me"}},
}

// AnalyzeURL evaluates a URL against the phishing rule set. Input without a
// scheme is treated as http. When the input cannot be parsed, the returned
// result is still usable (suspicious, with a single generic reason) and the
// error is a *ParseError of kind InvalidURL.
func AnalyzeURL(input string) (*core.AnalysisResult, error) {
	raw := norm.NFKC.String(strings.TrimSpace(input))
	if !schemeRe.MatchString(raw) {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err == nil && u.Hostname() == "" {
		err = errors.New("missing host")
	}
	if err != nil {
		return invalidURLResult(input), &ParseError{Kind: InvalidURL, Input: input, Err: err}
	}

	host := strings.ToLower(u.Hostname())
	protocol := strings.ToLower(u.Scheme)
	query := u.Query()

	var reasons []string
	flag := func(format string, args ...any) {
		reasons = append(reasons, fmt.Sprintf(format, args...))
	}

	if protocol == "http" {
		flag("Uses insecure HTTP protocol instead of HTTPS")
	}

	if strings.Contains(host, "ip-") || ipv4Re.MatchString(host) {
		flag("Uses IP address instead of domain name")
	}

	for _, p := range typosquatPatterns {
		if p.pattern.MatchString(host) && !strings.Contains(host, p.brand+".com") {
			flag("Possible typosquatting of %s.com", p.brand)
			break
		}
	}

	labels := strings.Split(host, ".")
	if len(labels) > 2 {
		domain := strings.Join(labels[len(labels)-2:], ".")
		subdomain := strings.Join(labels[:len(labels)-2], ".")

		for _, term := range securitySubdomainTerms {
			if strings.Contains(subdomain, term) {
				flag("Suspicious subdomain containing security-related terms (%s)", subdomain)
				break
			}
		}

		for _, p := range typosquatPatterns {
			if strings.Contains(subdomain, p.brand) && !strings.Contains(domain, p.brand) {
				flag("Contains %s in subdomain but different main domain", p.brand)
				break
			}
		}
	}

	if strings.Contains(host, "-") || len(labels) > 3 {
		flag("Complex or unusual domain structure")
	}

	path := strings.ToLower(u.Path)
	if strings.Contains(path, "login") || strings.Contains(path, "signin") {
		flag("Path contains authentication-related keywords")
	}

	for _, key := range redirectParams {
		if query.Has(key) {
			flag("Contains redirection parameters")
			break
		}
	}

	if len(labels) >= 2 {
		tld := labels[len(labels)-1]
		secondLevel := labels[len(labels)-2]
		for _, d := range wellKnownDomains {
			if secondLevel == d.name && !slices.Contains(d.tlds, tld) {
				flag("Unusual TLD (.%s) for %s - official domains use %s", tld, d.name, dotted(d.tlds))
			}
		}
	}

	return &core.AnalysisResult{
		Kind:  core.AnalysisURL,
		Input: input,
		URL: &core.URLComponents{
			Protocol: protocol,
			Hostname: host,
			Path:     u.Path,
			Query:    query,
		},
		Suspicious: len(reasons) > 0,
		Reasons:    reasons,
	}, nil
}

func invalidURLResult(input string) *core.AnalysisResult {
	return &core.AnalysisResult{
		Kind:       core.AnalysisURL,
		Input:      input,
		Suspicious: true,
		Reasons:    []string{InvalidURLReason},
		Error:      "Invalid URL format. Please enter a valid URL.",
	}
}

func dotted(tlds []string) string {
	out := make([]string, len(tlds))
	for i, t := range tlds {
		out[i] = "." + t
	}
	return strings.Join(out, ", ")
}
