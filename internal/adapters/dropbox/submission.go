package dropbox

import (
	"bufio"
	"context"
	"net/textproto"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phishdefender/phish-defender/internal/core"
)

var bodyURLRe = regexp.MustCompile(`https?://[^\s<>"]+`)

// maxURLs bounds the analyzed links per sample
const maxURLs = 20

// Submission is one analyzed sample
type Submission struct {
	ID         string
	ReceivedAt time.Time
	Sender     string
	Recipients []string
	Subject    string
	Header     *core.AnalysisResult
	URLs       []*core.AnalysisResult
	Suspicious bool
	Rejected   bool
}

// Reasons flattens the header and URL reasons in order
func (s *Submission) Reasons() []string {
	var reasons []string
	if s.Header != nil {
		reasons = append(reasons, s.Header.Reasons...)
	}
	for _, u := range s.URLs {
		for _, r := range u.Reasons {
			reasons = append(reasons, u.Input+": "+r)
		}
	}
	return reasons
}

// splitMessage separates the raw header block from the body
func splitMessage(raw []byte) (header, body string) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	if i := strings.Index(text, "\n\n"); i >= 0 {
		return text[:i], text[i+2:]
	}
	return text, ""
}

// subjectOf pulls the Subject field out of a header block
func subjectOf(header string) string {
	r := textproto.NewReader(bufio.NewReader(strings.NewReader(header + "\n\n")))
	// A malformed line ends parsing; whatever was read before it still counts
	h, _ := r.ReadMIMEHeader()
	return h.Get("Subject")
}

// bodyURLs returns the distinct URLs in a body, in order of appearance
func bodyURLs(body string) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, u := range bodyURLRe.FindAllString(body, -1) {
		u = strings.TrimRight(u, ".,;:)]'")
		if seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
		if len(urls) == maxURLs {
			break
		}
	}
	return urls
}

// Inspect analyzes a raw message. It does not record the result.
func (s *Server) Inspect(ctx context.Context, sender string, recipients []string, raw []byte) *Submission {
	header, body := splitMessage(raw)

	sub := &Submission{
		ID:         uuid.NewString(),
		ReceivedAt: time.Now(),
		Sender:     sender,
		Recipients: recipients,
		Subject:    subjectOf(header),
		Header:     s.analyzer.AnalyzeHeader(ctx, header),
	}
	sub.Suspicious = sub.Header.Suspicious

	for _, u := range bodyURLs(body) {
		// Unparseable links come back as suspicious fail-safe results
		result, _ := s.analyzer.AnalyzeURL(ctx, u)
		sub.URLs = append(sub.URLs, result)
		if result.Suspicious {
			sub.Suspicious = true
		}
	}

	return sub
}
