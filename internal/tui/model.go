package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/phishdefender/phish-defender/internal/analyzer"
	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/phishdefender/phish-defender/internal/game"
	"go.uber.org/zap"
)

// timerFiredMsg carries an expired controller timer onto the update loop
type timerFiredMsg func()

// adviceMsg delivers the coach's answer; advice is nil when the coach failed
type adviceMsg struct {
	sessionID string
	advice    *core.Advice
}

type labTab int

const (
	tabChallenges labTab = iota
	tabURL
	tabHeader
)

var labTabNames = []string{"Challenges", "URL Analyzer", "Header Analyzer"}

type adviceState int

const (
	adviceIdle adviceState = iota
	advicePending
	adviceReady
	adviceUnavailable
)

// Model is the root bubbletea model
type Model struct {
	ctrl     *game.Controller
	analyzer *analyzer.Service
	coach    *core.CoachService
	logger   *zap.Logger
	styles   Styles

	width  int
	height int

	lastState game.State
	status    string

	// inbox
	cursor    int
	filter    textinput.Model
	filtering bool
	openID    string

	// lab
	tab         labTab
	option      int
	urlInput    textinput.Model
	headerInput textarea.Model
	analysis    *core.AnalysisResult

	// scorecard
	adviceState adviceState
	advice      *core.Advice
	spinner     spinner.Model
}

// New creates the root model. coach may be nil.
func New(ctrl *game.Controller, svc *analyzer.Service, coach *core.CoachService, logger *zap.Logger) Model {
	filter := textinput.New()
	filter.Placeholder = "search subject, sender or preview"
	filter.Prompt = "/ "

	urlInput := textinput.New()
	urlInput.Placeholder = "https://example.com/login"
	urlInput.Prompt = "URL: "
	urlInput.CharLimit = 2048

	headerInput := textarea.New()
	headerInput.Placeholder = "Paste raw email headers, then press ctrl+s"
	headerInput.ShowLineNumbers = false
	headerInput.SetHeight(8)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctrl:        ctrl,
		analyzer:    svc,
		coach:       coach,
		logger:      logger,
		styles:      DefaultStyles(),
		lastState:   ctrl.State(),
		filter:      filter,
		urlInput:    urlInput,
		headerInput: headerInput,
		spinner:     sp,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.headerInput.SetWidth(max(20, msg.Width-4))
		m.urlInput.Width = max(20, msg.Width-10)

	case timerFiredMsg:
		msg()

	case adviceMsg:
		if msg.sessionID == m.ctrl.Session().ID() && m.adviceState == advicePending {
			m.advice = msg.advice
			m.adviceState = adviceReady
			if msg.advice == nil {
				m.adviceState = adviceUnavailable
			}
		}

	case spinner.TickMsg:
		if m.adviceState == advicePending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.ctrl.Close()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, m.syncState())
	return m, tea.Batch(cmds...)
}

// syncState resets per-screen state after the controller changes state and
// starts the coach request when the scorecard appears
func (m *Model) syncState() tea.Cmd {
	state := m.ctrl.State()
	if state == m.lastState {
		return nil
	}
	m.lastState = state
	m.status = ""

	switch state {
	case game.StateInbox:
		m.cursor, m.openID, m.filtering = 0, "", false
		m.filter.Reset()
		m.filter.Blur()
	case game.StateLab:
		m.tab, m.option, m.analysis = tabChallenges, 0, nil
		m.urlInput.Reset()
		m.headerInput.Reset()
	case game.StateScorecard:
		return m.requestAdvice()
	case game.StateStart:
		m.adviceState, m.advice = adviceIdle, nil
	}
	return nil
}

func (m *Model) requestAdvice() tea.Cmd {
	if !m.coach.Enabled() {
		m.adviceState = adviceUnavailable
		return nil
	}
	m.adviceState = advicePending
	card := m.ctrl.Scorecard()
	coach := m.coach
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return adviceMsg{sessionID: card.SessionID, advice: coach.Advise(context.Background(), card)}
	})
}

// typing reports whether key presses go to a text field
func (m Model) typing() bool {
	switch m.ctrl.State() {
	case game.StateInbox:
		return m.filtering
	case game.StateLab:
		return m.tab == tabURL || m.tab == tabHeader
	}
	return false
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.typing() && msg.String() == "q" {
		m.ctrl.Close()
		return m, tea.Quit
	}

	switch m.ctrl.State() {
	case game.StateStart:
		if isConfirm(msg) {
			m.report(m.ctrl.Begin())
		}
	case game.StateQuickfire:
		return m.handleQuickfireKey(msg)
	case game.StateInbox:
		return m.handleInboxKey(msg)
	case game.StateLab:
		return m.handleLabKey(msg)
	case game.StateCompletion:
		if isConfirm(msg) {
			m.report(m.ctrl.Continue())
		}
	case game.StateScorecard:
		if msg.String() == "r" {
			m.report(m.ctrl.Restart())
		}
	}
	return m, nil
}

func (m Model) handleQuickfireKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	r := m.ctrl.Quickfire()
	if r.State() == game.ItemAnswered {
		if isConfirm(msg) {
			m.report(m.ctrl.Advance())
		}
		return m, nil
	}
	switch msg.String() {
	case "p", "y", "left":
		_, err := m.ctrl.Answer(true)
		m.report(err)
	case "l", "n", "right":
		_, err := m.ctrl.Answer(false)
		m.report(err)
	}
	return m, nil
}

func (m Model) handleInboxKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.filtering {
		switch msg.Type {
		case tea.KeyEnter:
			m.filtering = false
			m.filter.Blur()
			m.cursor = 0
			return m, nil
		case tea.KeyEsc:
			m.filtering = false
			m.filter.Reset()
			m.filter.Blur()
			m.cursor = 0
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.cursor = 0
		return m, cmd
	}

	emails := m.ctrl.Inbox().Filter(m.filter.Value())

	if m.openID != "" {
		switch msg.String() {
		case "esc", "backspace":
			m.openID = ""
		case "o", "d", "r":
			m.act(m.openID, msg.String())
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(emails)-1 {
			m.cursor++
		}
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case "enter":
		if m.ctrl.Inbox().Complete() {
			m.report(m.ctrl.Advance())
		} else if m.cursor < len(emails) {
			m.openID = emails[m.cursor].ID
		}
	case "c":
		m.report(m.ctrl.Advance())
	case "o", "d", "r":
		if m.cursor < len(emails) {
			m.act(emails[m.cursor].ID, msg.String())
		}
	}
	return m, nil
}

var actionKeys = map[string]game.Action{
	"o": game.ActionOpen,
	"d": game.ActionDelete,
	"r": game.ActionReport,
}

func (m *Model) act(emailID, key string) {
	_, err := m.ctrl.Act(emailID, actionKeys[key])
	m.report(err)
}

func (m Model) handleLabKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Type == tea.KeyTab {
		return m.switchTab((m.tab + 1) % labTab(len(labTabNames)))
	}
	if msg.Type == tea.KeyEsc && m.tab != tabChallenges {
		return m.switchTab(tabChallenges)
	}

	switch m.tab {
	case tabURL:
		if msg.Type == tea.KeyEnter {
			result, err := m.analyzer.AnalyzeURL(context.Background(), m.urlInput.Value())
			m.analysis = result
			if err != nil && !analyzer.IsInvalidURL(err) {
				m.report(err)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.urlInput, cmd = m.urlInput.Update(msg)
		return m, cmd
	case tabHeader:
		if msg.Type == tea.KeyCtrlS {
			m.analysis = m.analyzer.AnalyzeHeader(context.Background(), m.headerInput.Value())
			return m, nil
		}
		var cmd tea.Cmd
		m.headerInput, cmd = m.headerInput.Update(msg)
		return m, cmd
	}

	r := m.ctrl.Lab()
	if r.State() == game.ItemAnswered {
		if isConfirm(msg) {
			m.option = 0
			m.report(m.ctrl.Advance())
		}
		return m, nil
	}
	options := r.Current().Options
	switch msg.String() {
	case "up", "k":
		if m.option > 0 {
			m.option--
		}
	case "down", "j":
		if m.option < len(options)-1 {
			m.option++
		}
	case "enter":
		if m.option < len(options) {
			_, err := m.ctrl.Submit(options[m.option].Value)
			m.report(err)
		}
	}
	return m, nil
}

func (m Model) switchTab(tab labTab) (Model, tea.Cmd) {
	m.tab = tab
	m.analysis = nil
	m.urlInput.Blur()
	m.headerInput.Blur()
	switch tab {
	case tabURL:
		return m, m.urlInput.Focus()
	case tabHeader:
		return m, m.headerInput.Focus()
	}
	return m, nil
}

// report shows a rejected operation to the player. Rejections are normal
// input mistakes, so they are logged at debug only.
func (m *Model) report(err error) {
	if err == nil {
		m.status = ""
		return
	}
	m.logger.Debug("Input rejected", zap.String("phase", string(m.ctrl.State())), zap.Error(err))
	switch {
	case errors.Is(err, game.ErrPhaseIncomplete):
		m.status = "Handle every email before moving on."
	case errors.Is(err, game.ErrAlreadyAnswered):
		m.status = "Already handled."
	default:
		m.status = err.Error()
	}
}

func isConfirm(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace
}
