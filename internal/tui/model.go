// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuiquiz/internal/model"
	"github.com/verte-zerg/tuiquiz/internal/quiz"
)

type snapshotMsg model.Snapshot

type sessionClosedMsg struct{}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	session *quiz.Session
	banks   []model.BankInfo
	updates <-chan model.Snapshot
	cancel  func()

	snap   model.Snapshot
	cursor int
	errMsg string

	countInput textinput.Model
	feedback   viewport.Model
	results    table.Model

	width  int
	height int
}

// NewModel constructs a quiz TUI model bound to session. banks lists the
// selectable banks in display order; count prefills the question count field.
func NewModel(session *quiz.Session, banks []model.BankInfo, count int) *Model {
	updates, cancel := session.Subscribe()
	m := &Model{
		session:  session,
		banks:    banks,
		updates:  updates,
		cancel:   cancel,
		feedback: viewport.New(72, 8),
		results:  buildResultTable(nil, 0, 1),
	}
	m.countInput = newCountInput(count)
	m.apply(session.Snapshot())
	return m
}

func newCountInput(count int) textinput.Model {
	input := textinput.New()
	input.Prompt = "Questions: "
	input.CharLimit = 4
	input.Placeholder = "2"
	if count > 0 {
		input.SetValue(strconv.Itoa(count))
	}
	input.Cursor.SetMode(cursor.CursorBlink)
	input.Focus()
	return input
}

func waitForSnapshot(updates <-chan model.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return sessionClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.updates), textinput.Blink)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case snapshotMsg:
		// Key handlers apply state synchronously, so a queued snapshot may
		// already be stale. The session's current state always wins.
		m.apply(m.session.Snapshot())
		return m, waitForSnapshot(m.updates)
	case sessionClosedMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.snap.Phase == model.NotStarted {
			var cmd tea.Cmd
			m.countInput, cmd = m.countInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m.quit()
	case "esc":
		m.session.Reset()
		m.errMsg = ""
		m.apply(m.session.Snapshot())
		return m, nil
	}

	switch m.snap.Phase {
	case model.NotStarted:
		return m.updateSetup(msg)
	case model.AwaitingAnswer:
		return m.updateQuestion(msg)
	case model.ShowingFeedback:
		return m.updateFeedback(msg)
	case model.Ended:
		return m.updateEnded(msg)
	default:
		return m, nil
	}
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	return m, tea.Quit
}

func (m *Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "right":
		m.moveBank(1)
		return m, nil
	case "shift+tab", "left":
		m.moveBank(-1)
		return m, nil
	case "enter":
		m.start()
		return m, nil
	}
	if msg.Type == tea.KeyRunes && !isDigits(msg.Runes) {
		return m, nil
	}
	var cmd tea.Cmd
	m.countInput, cmd = m.countInput.Update(msg)
	m.errMsg = ""
	return m, cmd
}

func (m *Model) moveBank(delta int) {
	count := len(m.banks)
	if count == 0 {
		return
	}
	next := m.bankIndex() + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.do(m.session.SelectBank(m.banks[next].ID))
}

func (m *Model) bankIndex() int {
	for i, info := range m.banks {
		if info.ID == m.snap.Bank {
			return i
		}
	}
	return 0
}

func (m *Model) start() {
	raw := strings.TrimSpace(m.countInput.Value())
	count, err := strconv.Atoi(raw)
	if err != nil {
		m.errMsg = (&model.InvalidCountError{Max: m.bankSize()}).Error()
		return
	}
	m.do(m.session.Start(count))
}

func (m *Model) bankSize() int {
	for _, info := range m.banks {
		if info.ID == m.snap.Bank {
			return info.Count
		}
	}
	return 0
}

func (m *Model) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.snap.Question
	if q == nil {
		return m, nil
	}
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(q.Answers)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.submit(q.Answers[m.cursor])
	default:
		if idx, ok := answerKey(msg, len(q.Answers)); ok {
			m.cursor = idx
			m.submit(q.Answers[idx])
		}
	}
	return m, nil
}

func (m *Model) submit(answer string) {
	m.do(m.session.SubmitAnswer(answer))
}

func (m *Model) updateFeedback(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n", "enter":
		m.do(m.session.Advance())
		return m, nil
	}
	var cmd tea.Cmd
	m.feedback, cmd = m.feedback.Update(msg)
	return m, cmd
}

func (m *Model) updateEnded(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "p":
		m.do(m.session.PlayAgain())
		return m, nil
	case "g", "home":
		m.results.GotoTop()
		return m, nil
	case "G", "end":
		m.results.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

// do records the outcome of a session operation and refreshes the view
// without waiting for the subscription round trip.
func (m *Model) do(err error) {
	switch {
	case err == nil:
		m.errMsg = ""
	case errors.Is(err, model.ErrUnknownAnswer):
		m.errMsg = "Pick one of the listed answers."
	default:
		m.errMsg = err.Error()
	}
	m.apply(m.session.Snapshot())
}

func (m *Model) apply(snap model.Snapshot) {
	prev := m.snap
	m.snap = snap
	if snap.Phase != prev.Phase || snap.Index != prev.Index {
		m.cursor = 0
	}
	switch snap.Phase {
	case model.NotStarted:
		m.countInput.Focus()
	case model.ShowingFeedback:
		m.countInput.Blur()
		m.feedback.SetContent(m.renderFeedbackBody())
		if snap.Phase != prev.Phase {
			m.feedback.GotoTop()
		}
	case model.Ended:
		m.countInput.Blur()
		if snap.Phase != prev.Phase {
			m.results = buildResultTable(snap.Results, m.contentWidth(), m.resultHeight())
			m.results.Focus()
		}
	default:
		m.countInput.Blur()
	}
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	width := m.contentWidth()
	m.feedback.Width = width
	m.feedback.Height = maxInt(3, m.height/3)
	if m.snap.Phase == model.ShowingFeedback {
		m.feedback.SetContent(m.renderFeedbackBody())
	}
	m.results.SetWidth(width)
	m.results.SetHeight(m.resultHeight())
	m.countInput.Width = maxInt(4, width-len(m.countInput.Prompt)-2)
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 72
	}
	return maxInt(20, int(float64(m.width)*0.70))
}

func (m *Model) resultHeight() int {
	if m.height <= 0 {
		return 10
	}
	return maxInt(3, m.height-8)
}

func isDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(runes) > 0
}

// answerKey maps the number keys 1-9 to answer indexes.
func answerKey(msg tea.KeyMsg, count int) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	idx := int(r - '1')
	if idx >= count {
		return 0, false
	}
	return idx, true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
