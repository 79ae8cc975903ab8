// Package content turns static email content into presentation-ready pieces.
package content

import (
	"sort"
	"strings"

	"github.com/phishdefender/phish-defender/internal/core"
)

// TokenKind tells a plain text run from a link
type TokenKind string

const (
	TokenText TokenKind = "text"
	TokenLink TokenKind = "link"
)

// Token is one run of an email body. Link is set only for link tokens.
type Token struct {
	Kind  TokenKind
	Value string
	Link  *core.Link
}

type span struct {
	start, end int
	link       *core.Link
}

// Tokenize splits body into text and link tokens. Each link claims the first
// occurrence of its text that does not overlap a link claimed before it;
// links are considered in the order given.
func Tokenize(body string, links []core.Link) []Token {
	var spans []span
	for i := range links {
		l := &links[i]
		if l.Text == "" {
			continue
		}
		if s, ok := firstFree(body, l.Text, spans); ok {
			s.link = l
			spans = append(spans, s)
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var tokens []Token
	pos := 0
	for _, s := range spans {
		if s.start > pos {
			tokens = append(tokens, Token{Kind: TokenText, Value: body[pos:s.start]})
		}
		tokens = append(tokens, Token{Kind: TokenLink, Value: body[s.start:s.end], Link: s.link})
		pos = s.end
	}
	if pos < len(body) {
		tokens = append(tokens, Token{Kind: TokenText, Value: body[pos:]})
	}
	return tokens
}

func firstFree(body, text string, taken []span) (span, bool) {
	from := 0
	for from <= len(body)-len(text) {
		idx := strings.Index(body[from:], text)
		if idx < 0 {
			return span{}, false
		}
		s := span{start: from + idx, end: from + idx + len(text)}
		if !overlaps(s, taken) {
			return s, true
		}
		from = s.start + 1
	}
	return span{}, false
}

func overlaps(s span, taken []span) bool {
	for _, t := range taken {
		if s.start < t.end && t.start < s.end {
			return true
		}
	}
	return false
}
