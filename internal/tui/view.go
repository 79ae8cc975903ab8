package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/phishdefender/phish-defender/internal/content"
	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/game"
	"github.com/phishdefender/phish-defender/internal/session"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCase = cases.Title(language.English)

var phaseTitles = map[session.Phase]string{
	session.Quickfire: "Quickfire Round",
	session.Inbox:     "Inbox Simulation",
	session.Lab:       "Security Lab",
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	switch m.ctrl.State() {
	case game.StateStart:
		m.viewStart(&b)
	case game.StateQuickfire:
		m.viewQuickfire(&b)
	case game.StateInbox:
		m.viewInbox(&b)
	case game.StateLab:
		m.viewLab(&b)
	case game.StateCompletion:
		m.viewCompletion(&b)
	case game.StateScorecard:
		m.viewScorecard(&b)
	}

	if m.status != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.status) + "\n")
	}
	return b.String()
}

func (m Model) header(b *strings.Builder, title string) {
	fmt.Fprintf(b, "%s  %s\n\n",
		m.styles.Title.Render(title),
		m.styles.Muted.Render(fmt.Sprintf("Score: %d", m.ctrl.Session().Score())))
}

func (m Model) help(b *strings.Builder, keys string) {
	b.WriteString("\n" + m.styles.Help.Render(keys) + "\n")
}

func (m Model) viewStart(b *strings.Builder) {
	b.WriteString(m.styles.Title.Render("Phish Defender") + "\n\n")
	b.WriteString("Learn to spot phishing in three rounds:\n\n")
	fmt.Fprintf(b, "  1. %s  classify emails against the clock\n", phaseTitles[session.Quickfire])
	fmt.Fprintf(b, "  2. %s  open, delete or report messages\n", phaseTitles[session.Inbox])
	fmt.Fprintf(b, "  3. %s  analyze URLs, headers and attachments\n", phaseTitles[session.Lab])
	m.help(b, "enter: start  q: quit")
}

func (m Model) viewQuickfire(b *strings.Builder) {
	r := m.ctrl.Quickfire()
	email := r.Current()
	m.header(b, fmt.Sprintf("%s  %d/%d", phaseTitles[session.Quickfire], r.Index()+1, r.Len()))

	if r.State() == game.ItemPresented {
		timer := fmt.Sprintf("Time left: %ds", r.Remaining())
		if r.Remaining() <= 3 {
			timer = m.styles.Warning.Render(timer)
		}
		b.WriteString(timer + "\n\n")
	}

	card := fmt.Sprintf("From: %s <%s>\nSubject: %s\n\n%s",
		email.Sender, email.SenderEmail, m.styles.Subtitle.Render(email.Subject), email.Preview)
	b.WriteString(m.styles.Card.Render(card) + "\n")

	if r.State() == game.ItemPresented {
		m.help(b, "p: phishing  l: legitimate")
		return
	}

	out := r.Outcome()
	switch {
	case out.TimedOut:
		b.WriteString("\n" + m.styles.Error.Render("Time's up!") + "\n")
	case out.Correct:
		b.WriteString("\n" + m.styles.Success.Render(fmt.Sprintf("Correct! +%d", out.Points)) + "\n")
	default:
		b.WriteString("\n" + m.styles.Error.Render("Incorrect") + "\n")
	}
	verdict := "legitimate"
	if email.IsPhishing {
		verdict = "phishing"
	}
	fmt.Fprintf(b, "This email is %s.\n", verdict)
	if email.Explanation != "" {
		b.WriteString(m.styles.Muted.Render(email.Explanation) + "\n")
	}
	m.renderFlags(b, email.RedFlags)
	m.help(b, "enter: next")
}

func (m Model) renderFlags(b *strings.Builder, flags []string) {
	if len(flags) == 0 {
		return
	}
	b.WriteString("\nRed flags:\n")
	for _, f := range flags {
		b.WriteString("  " + m.styles.Warning.Render("! ") + f + "\n")
	}
}

func (m Model) viewInbox(b *strings.Builder) {
	r := m.ctrl.Inbox()
	m.header(b, fmt.Sprintf("%s  %d/%d handled", phaseTitles[session.Inbox], r.ProcessedCount(), r.Len()))

	if m.openID != "" {
		m.viewEmail(b)
		return
	}

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View() + "\n\n")
	}

	emails := r.Filter(m.filter.Value())
	if len(emails) == 0 {
		b.WriteString(m.styles.Muted.Render("No emails match.") + "\n")
	}
	for i, e := range emails {
		label := "     "
		if out, ok := r.Processed(e.ID); ok {
			label = fmt.Sprintf("%-8s", out.Action.Label())
			if out.Correct {
				label = m.styles.Success.Render(label)
			} else {
				label = m.styles.Error.Render(label)
			}
		}
		line := fmt.Sprintf("%s %-22s %s", label, truncate(e.Sender, 22), e.Subject)
		if i == m.cursor {
			line = m.styles.Selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if r.Complete() {
		b.WriteString("\n" + m.styles.Success.Render("All emails handled.") + "\n")
		m.help(b, "enter: finish inbox")
		return
	}
	m.help(b, "j/k: move  enter: read  o: open  d: delete  r: report  /: search")
}

func (m Model) viewEmail(b *strings.Builder) {
	r := m.ctrl.Inbox()
	email, ok := r.Email(m.openID)
	if !ok {
		return
	}

	fmt.Fprintf(b, "From: %s <%s>\nDate: %s\nSubject: %s\n\n",
		email.Sender, email.SenderEmail, email.Date, m.styles.Subtitle.Render(email.Subject))

	for _, tok := range content.Tokenize(email.Body, email.Links) {
		if tok.Kind == content.TokenLink {
			b.WriteString(m.styles.Link.Render(tok.Value))
			b.WriteString(m.styles.Muted.Render(" [" + tok.Link.ActualURL + "]"))
			continue
		}
		b.WriteString(tok.Value)
	}
	b.WriteString("\n")

	if len(email.Attachments) > 0 {
		b.WriteString("\nAttachments:\n")
		for _, a := range email.Attachments {
			fmt.Fprintf(b, "  %s (%s)\n", a.Name, a.Size)
			for _, w := range content.InspectAttachment(a.Name).Warnings() {
				b.WriteString("    " + m.styles.Warning.Render(w) + "\n")
			}
		}
	}

	if h := email.Headers; h != nil {
		b.WriteString("\n" + m.styles.Muted.Render(fmt.Sprintf(
			"Return-Path: %s  SPF: %s  DKIM: %s", h.ReturnPath, h.SPF.Display(), h.DKIM.Display())) + "\n")
	}

	out, done := r.Processed(email.ID)
	if !done {
		m.help(b, "o: mark safe  d: delete  r: report phishing  esc: back")
		return
	}
	switch {
	case out.Best:
		b.WriteString("\n" + m.styles.Success.Render(fmt.Sprintf("%s - best choice! +%d", out.Action.Label(), out.Points)) + "\n")
	case out.Correct:
		b.WriteString("\n" + m.styles.Success.Render(fmt.Sprintf("%s - good, but reporting is better. +%d", out.Action.Label(), out.Points)) + "\n")
	default:
		b.WriteString("\n" + m.styles.Error.Render(out.Action.Label()+" - not the right call") + "\n")
	}
	if email.Explanation != "" {
		b.WriteString(m.styles.Muted.Render(email.Explanation) + "\n")
	}
	m.renderFlags(b, email.RedFlags)
	m.help(b, "esc: back")
}

func (m Model) viewLab(b *strings.Builder) {
	r := m.ctrl.Lab()
	m.header(b, fmt.Sprintf("%s  %d/%d", phaseTitles[session.Lab], r.Index()+1, r.Len()))

	tabs := make([]string, len(labTabNames))
	for i, name := range labTabNames {
		if labTab(i) == m.tab {
			tabs[i] = m.styles.TabOn.Render(name)
		} else {
			tabs[i] = m.styles.Tab.Render(name)
		}
	}
	b.WriteString(strings.Join(tabs, " ") + "\n\n")

	switch m.tab {
	case tabURL:
		b.WriteString(m.urlInput.View() + "\n")
		m.renderAnalysis(b)
		m.help(b, "enter: analyze  tab: next tab  esc: challenges")
		return
	case tabHeader:
		b.WriteString(m.headerInput.View() + "\n")
		m.renderAnalysis(b)
		m.help(b, "ctrl+s: analyze  tab: next tab  esc: challenges")
		return
	}

	ch := r.Current()
	b.WriteString(m.styles.Subtitle.Render(ch.Title) + "\n")
	b.WriteString(ch.Prompt + "\n\n")

	out := r.Outcome()
	for i, opt := range ch.Options {
		cursor := "  "
		if i == m.option && out == nil {
			cursor = m.styles.Selected.Render("> ")
		}
		label := opt.Label
		if out != nil {
			switch {
			case opt.Value == ch.CorrectAnswer:
				label = m.styles.Success.Render(label)
			case opt.Value == out.Answer:
				label = m.styles.Error.Render(label)
			}
		}
		b.WriteString(cursor + label + "\n")
	}

	if out == nil {
		m.help(b, "j/k: choose  enter: submit  tab: analyzers")
		return
	}
	if out.Correct {
		b.WriteString("\n" + m.styles.Success.Render(fmt.Sprintf("Correct! +%d", out.Points)) + "\n")
	} else {
		b.WriteString("\n" + m.styles.Error.Render("Incorrect") + "\n")
	}
	b.WriteString(ch.Explanation + "\n")
	if ch.Tip != "" {
		b.WriteString(m.styles.Muted.Render("Tip: "+ch.Tip) + "\n")
	}
	m.help(b, "enter: next")
}

func (m Model) renderAnalysis(b *strings.Builder) {
	a := m.analysis
	if a == nil {
		return
	}
	b.WriteString("\n")
	if a.Error != "" {
		b.WriteString(m.styles.Error.Render(a.Error) + "\n")
		return
	}
	if u := a.URL; u != nil {
		fmt.Fprintf(b, "Protocol: %s\nHostname: %s\nPath: %s\n", u.Protocol, u.Hostname, u.Path)
	}
	if h := a.Header; h != nil {
		fmt.Fprintf(b, "From: %s\nReturn-Path: %s\nReply-To: %s\nDKIM: %s  SPF: %s\n",
			orNone(h.From), orNone(h.ReturnPath), orNone(h.ReplyTo), core.AuthStatus(h.DKIM).Display(), core.AuthStatus(h.SPF).Display())
	}
	if !a.Suspicious {
		b.WriteString("\n" + m.styles.Success.Render("No suspicious signs found") + "\n")
		return
	}
	b.WriteString("\n" + m.styles.Error.Render("Suspicious") + "\n")
	for _, r := range a.Reasons {
		b.WriteString("  " + m.styles.Warning.Render("! ") + r + "\n")
	}
}

func (m Model) viewCompletion(b *strings.Builder) {
	c := m.ctrl.Completion()
	b.WriteString(m.styles.Title.Render(titleCase.String(string(c.Phase))+" Complete") + "\n\n")
	fmt.Fprintf(b, "Correct: %d of %d\n", c.Correct, c.Total)
	fmt.Fprintf(b, "Points: %d of %d\n", c.Score, c.MaxScore)
	next := "the scorecard"
	if c.Next != game.StateScorecard {
		next = titleCase.String(string(c.Next))
	}
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("Continuing to %s shortly...", next)) + "\n")
	m.help(b, "enter: continue now")
}

func (m Model) viewScorecard(b *strings.Builder) {
	card := m.ctrl.Scorecard()
	b.WriteString(m.styles.Title.Render("Scorecard") + "\n\n")
	fmt.Fprintf(b, "Final score: %d\n", card.Score)
	fmt.Fprintf(b, "Success rate: %d%% (%d of %d)\n", card.SuccessRate, card.Total.Correct, card.Total.Total)
	fmt.Fprintf(b, "Skill level: %s\n", m.styles.Subtitle.Render(string(card.Tier)))
	fmt.Fprintf(b, "Time spent: %s\n\n", card.TimeSpent.Round(time.Second))

	for _, row := range []struct {
		phase session.Phase
		tally core.Tally
	}{
		{session.Quickfire, card.Quickfire},
		{session.Inbox, card.Inbox},
		{session.Lab, card.Lab},
	} {
		fmt.Fprintf(b, "  %-18s %d/%d\n", phaseTitles[row.phase], row.tally.Correct, row.tally.Total)
	}

	if len(card.TopMissed) > 0 {
		b.WriteString("\nMost missed red flags:\n")
		for _, f := range card.TopMissed {
			fmt.Fprintf(b, "  %s (%dx)\n", f.Flag, f.Count)
		}
	}

	switch m.adviceState {
	case advicePending:
		b.WriteString("\n" + m.spinner.View() + " Asking your coach...\n")
	case adviceReady:
		b.WriteString("\n" + m.styles.Subtitle.Render("Coach") + "\n" + m.advice.Summary + "\n")
		for _, tip := range m.advice.Tips {
			b.WriteString("  - " + tip + "\n")
		}
	}
	m.help(b, "r: play again  q: quit")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
