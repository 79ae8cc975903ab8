package core

import (
	"slices"
	"time"
)

// Email represents a static training email shown in the quickfire and inbox phases
type Email struct {
	ID          string        `yaml:"id" json:"id"`
	Sender      string        `yaml:"sender" json:"sender"`
	SenderEmail string        `yaml:"sender_email" json:"sender_email"`
	Subject     string        `yaml:"subject" json:"subject"`
	Preview     string        `yaml:"preview" json:"preview"`
	Body        string        `yaml:"body" json:"body"`
	Date        string        `yaml:"date" json:"date"`
	IsPhishing  bool          `yaml:"is_phishing" json:"is_phishing"`
	RedFlags    []string      `yaml:"red_flags,omitempty" json:"red_flags,omitempty"`
	Explanation string        `yaml:"explanation,omitempty" json:"explanation,omitempty"`
	Attachments []Attachment  `yaml:"attachments,omitempty" json:"attachments,omitempty"`
	Links       []Link        `yaml:"links,omitempty" json:"links,omitempty"`
	Headers     *EmailHeaders `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// Attachment is a file attached to a training email
type Attachment struct {
	Name             string `yaml:"name" json:"name"`
	Type             string `yaml:"type" json:"type"`
	Size             string `yaml:"size" json:"size"`
	IsSuspicious     bool   `yaml:"is_suspicious" json:"is_suspicious"`
	SuspiciousReason string `yaml:"suspicious_reason,omitempty" json:"suspicious_reason,omitempty"`
}

// Link is a hyperlink inside a training email. DisplayURL is what the reader
// sees on hover, ActualURL is where it really goes.
type Link struct {
	Text         string `yaml:"text" json:"text"`
	DisplayURL   string `yaml:"display_url" json:"display_url"`
	ActualURL    string `yaml:"actual_url" json:"actual_url"`
	IsSuspicious bool   `yaml:"is_suspicious" json:"is_suspicious"`
}

// AuthStatus is an SPF or DKIM verdict
type AuthStatus string

const (
	AuthPass    AuthStatus = "pass"
	AuthFail    AuthStatus = "fail"
	AuthNeutral AuthStatus = "neutral"
	AuthNone    AuthStatus = "none"
)

// Display is the status as shown to the player. No status at all reads
// "Unknown".
func (s AuthStatus) Display() string {
	if s == "" {
		return "Unknown"
	}
	return string(s)
}

// EmailHeaders carries the delivery headers of an inbox email
type EmailHeaders struct {
	ReturnPath   string     `yaml:"return_path" json:"return_path"`
	SPF          AuthStatus `yaml:"spf" json:"spf"`
	DKIM         AuthStatus `yaml:"dkim" json:"dkim"`
	ReceivedFrom string     `yaml:"received_from" json:"received_from"`
	MessageID    string     `yaml:"message_id" json:"message_id"`
	XMailer      string     `yaml:"x_mailer,omitempty" json:"x_mailer,omitempty"`
	ContentType  string     `yaml:"content_type" json:"content_type"`
	MimeVersion  string     `yaml:"mime_version" json:"mime_version"`
}

// ChallengeOption is one answer choice of a lab challenge
type ChallengeOption struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Challenge is a static multiple-choice lab exercise
type Challenge struct {
	ID            string            `yaml:"id" json:"id"`
	Title         string            `yaml:"title" json:"title"`
	Prompt        string            `yaml:"prompt" json:"prompt"`
	Options       []ChallengeOption `yaml:"options" json:"options"`
	CorrectAnswer string            `yaml:"correct_answer" json:"correct_answer"`
	Explanation   string            `yaml:"explanation" json:"explanation"`
	Tip           string            `yaml:"tip" json:"tip"`
	Skill         string            `yaml:"skill" json:"skill"`
	Image         string            `yaml:"image,omitempty" json:"image,omitempty"`
}

// HasOption reports whether value is one of the challenge's answer options
func (c Challenge) HasOption(value string) bool {
	for _, opt := range c.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Tally is a correct/total pair for one phase
type Tally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// FlagCount is a missed red flag with the number of times it was missed
type FlagCount struct {
	Flag  string `json:"flag"`
	Count int    `json:"count"`
}

// SkillTier is the player's final rank
type SkillTier string

const (
	TierExpert       SkillTier = "Expert"
	TierAdvanced     SkillTier = "Advanced"
	TierIntermediate SkillTier = "Intermediate"
	TierBeginner     SkillTier = "Beginner"
	TierNovice       SkillTier = "Novice"
)

// Scorecard is a read-only summary of a finished playthrough
type Scorecard struct {
	SessionID   string        `json:"session_id"`
	Score       int           `json:"score"`
	Quickfire   Tally         `json:"quickfire"`
	Inbox       Tally         `json:"inbox"`
	Lab         Tally         `json:"lab"`
	Total       Tally         `json:"total"`
	SuccessRate int           `json:"success_rate"`
	Tier        SkillTier     `json:"tier"`
	TopMissed   []FlagCount   `json:"top_missed"`
	TimeSpent   time.Duration `json:"time_spent"`
}

// Advice is coaching feedback produced for a scorecard
type Advice struct {
	Summary    string
	Tips       []string
	ModelUsed  string
	CreatedAt  time.Time
	ResponseID string
}

// AnalysisKind tells which analyzer produced a result
type AnalysisKind string

const (
	AnalysisURL    AnalysisKind = "url"
	AnalysisHeader AnalysisKind = "header"
)

// URLComponents are the parsed parts of an analyzed URL
type URLComponents struct {
	Protocol string              `json:"protocol"`
	Hostname string              `json:"hostname"`
	Path     string              `json:"path"`
	Query    map[string][]string `json:"query,omitempty"`
}

// HeaderComponents are the fields picked out of an analyzed header block.
// DKIM and SPF are empty when no token was seen.
type HeaderComponents struct {
	From          string   `json:"from,omitempty"`
	ReturnPath    string   `json:"return_path,omitempty"`
	ReplyTo       string   `json:"reply_to,omitempty"`
	ReceivedChain []string `json:"received_chain,omitempty"`
	DKIM          string   `json:"dkim,omitempty"`
	SPF           string   `json:"spf,omitempty"`
	MessageID     string   `json:"message_id,omitempty"`
	XMailer       string   `json:"x_mailer,omitempty"`
}

// AnalysisResult is the verdict of a single URL or header analysis.
// Every analysis call returns a result of its own, including cache hits.
type AnalysisResult struct {
	Kind       AnalysisKind      `json:"kind"`
	Input      string            `json:"input"`
	URL        *URLComponents    `json:"url,omitempty"`
	Header     *HeaderComponents `json:"header,omitempty"`
	Suspicious bool              `json:"suspicious"`
	Reasons    []string          `json:"reasons"`
	Error      string            `json:"error,omitempty"`
}

// Clone returns a copy that shares no slices or maps with r
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Reasons = slices.Clone(r.Reasons)
	if r.URL != nil {
		u := *r.URL
		if r.URL.Query != nil {
			u.Query = make(map[string][]string, len(r.URL.Query))
			for k, v := range r.URL.Query {
				u.Query[k] = slices.Clone(v)
			}
		}
		out.URL = &u
	}
	if r.Header != nil {
		h := *r.Header
		h.ReceivedChain = slices.Clone(r.Header.ReceivedChain)
		out.Header = &h
	}
	return &out
}
