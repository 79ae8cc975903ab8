package analyzer

import (
	"regexp"
	"strings"

	"github.com/phishdefender/phish-defender/internal/core"
	"golang.org/x/text/unicode/norm"
)

var (
	domainRe    = regexp.MustCompile(`@([^>]+)`)
	uuidLikeRe  = regexp.MustCompile(`[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`)
	angleStrip  = strings.NewReplacer("<", "", ">", "")
	bulkMailers = []string{"PHPMailer", "Mass Mailer", "Bulk Mailer"}
)

type headerField struct {
	prefix string
	assign func(h *core.HeaderComponents, value string)
}

var headerFields = []headerField{
	{"from:", func(h *core.HeaderComponents, v string) { h.From = v }},
	{"return-path:", func(h *core.HeaderComponents, v string) { h.ReturnPath = v }},
	{"reply-to:", func(h *core.HeaderComponents, v string) { h.ReplyTo = v }},
	{"received:", func(h *core.HeaderComponents, v string) { h.ReceivedChain = append(h.ReceivedChain, v) }},
	{"message-id:", func(h *core.HeaderComponents, v string) { h.MessageID = v }},
	{"x-mailer:", func(h *core.HeaderComponents, v string) { h.XMailer = v }},
}

// AnalyzeHeader evaluates a raw header block. Lines that match no known
// field are ignored, so this never fails.
func AnalyzeHeader(input string) *core.AnalysisResult {
	h := parseHeader(norm.NFKC.String(input))

	var reasons []string

	if h.From != "" && h.ReturnPath != "" && !strings.Contains(h.From, angleStrip.Replace(h.ReturnPath)) {
		reasons = append(reasons, "From address doesn't match Return-Path (potential spoofing)")
		from, okFrom := extractDomain(h.From)
		rp, okRP := extractDomain(h.ReturnPath)
		if okFrom && okRP && from != rp {
			reasons = append(reasons, "From domain ("+from+") doesn't match Return-Path domain ("+rp+")")
		}
	}

	if h.From != "" && h.ReplyTo != "" && !strings.Contains(h.From, angleStrip.Replace(h.ReplyTo)) {
		reasons = append(reasons, "Reply-To doesn't match From address")
		from, okFrom := extractDomain(h.From)
		rt, okRT := extractDomain(h.ReplyTo)
		if okFrom && okRT && from != rt {
			reasons = append(reasons, "From domain ("+from+") doesn't match Reply-To domain ("+rt+")")
		}
	}

	var failed []string
	if h.DKIM == string(core.AuthFail) {
		failed = append(failed, "DKIM")
	}
	if h.SPF == string(core.AuthFail) {
		failed = append(failed, "SPF")
	}
	if len(failed) > 0 {
		reasons = append(reasons, "Failed email authentication ("+strings.Join(failed, " and ")+")")
	}

	for _, mailer := range bulkMailers {
		if strings.Contains(h.XMailer, mailer) {
			reasons = append(reasons, "Suspicious X-Mailer value ("+mailer+")")
			break
		}
	}

	if h.MessageID != "" {
		msgDomain, okMsg := extractDomain(h.MessageID)
		from, okFrom := extractDomain(h.From)
		if okMsg && okFrom && msgDomain != from {
			reasons = append(reasons, "Message-ID domain ("+msgDomain+") doesn't match From domain ("+from+")")
		}
		if strings.Contains(h.MessageID, "random") || uuidLikeRe.MatchString(h.MessageID) {
			reasons = append(reasons, "Message-ID has suspicious random-looking pattern")
		}
	}

	return &core.AnalysisResult{
		Kind:       core.AnalysisHeader,
		Input:      input,
		Header:     h,
		Suspicious: len(reasons) > 0,
		Reasons:    reasons,
	}
}

func parseHeader(input string) *core.HeaderComponents {
	h := &core.HeaderComponents{}
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lower := strings.ToLower(line)

		for _, f := range headerFields {
			if strings.HasPrefix(lower, f.prefix) {
				f.assign(h, strings.TrimSpace(line[len(f.prefix):]))
				break
			}
		}

		// Authentication-Results style tokens can sit on any line.
		if strings.Contains(lower, "dkim=") {
			h.DKIM = authVerdict(lower, "dkim=pass")
		}
		if strings.Contains(lower, "spf=") {
			h.SPF = authVerdict(lower, "spf=pass")
		}
	}
	return h
}

func authVerdict(lower, passToken string) string {
	if strings.Contains(lower, passToken) {
		return string(core.AuthPass)
	}
	return string(core.AuthFail)
}

func extractDomain(value string) (string, bool) {
	m := domainRe.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	return m[1], true
}
