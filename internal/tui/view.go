package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuiquiz/internal/model"
	"github.com/verte-zerg/tuiquiz/internal/stats"
	"github.com/verte-zerg/tuiquiz/internal/textwrap"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	quipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	timerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	urgentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	activeBank    = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveBank = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B0B0B0")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// urgentSeconds is the remaining time at which the clock turns red.
const urgentSeconds = 5

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.snap.Phase {
	case model.NotStarted:
		body = m.renderSetup()
	case model.AwaitingAnswer, model.ShowingFeedback:
		body = m.renderQuestion()
	case model.Ended:
		body = m.renderEnded()
	}
	if m.errMsg != "" {
		body += "\n\n" + errorStyle.Render(m.errMsg)
	}
	content := lipgloss.NewStyle().Width(m.contentWidth()).Render(body)
	footer := footerStyle.Render(m.renderHelp())
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	bodyView := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return bodyView + "\n" + footerLine
}

func (m *Model) renderSetup() string {
	tabs := make([]string, 0, len(m.banks))
	for _, info := range m.banks {
		label := fmt.Sprintf("%s (%d)", info.Name, info.Count)
		if info.ID == m.snap.Bank {
			tabs = append(tabs, activeBank.Render(label))
		} else {
			tabs = append(tabs, inactiveBank.Render(label))
		}
	}
	lines := []string{
		titleStyle.Render("Choose a question bank"),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		m.countInput.View(),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHeader() string {
	clock := stats.FormatClock(m.snap.RemainingSeconds)
	clockStyle := timerStyle
	if m.snap.Phase == model.AwaitingAnswer && m.snap.RemainingSeconds <= urgentSeconds {
		clockStyle = urgentStyle
	}
	left := footerStyle.Render(fmt.Sprintf("Question %d / %d  ·  Score %d", m.snap.Index+1, m.snap.Total, m.snap.Score))
	right := clockStyle.Render(clock)
	gap := m.contentWidth() - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderQuestion() string {
	q := m.snap.Question
	if q == nil {
		return ""
	}
	width := m.contentWidth()
	lines := []string{m.renderHeader(), "", titleStyle.Render(q.Title)}
	if q.Quip != "" {
		lines = append(lines, quipStyle.Render(textwrap.String(q.Quip, width)))
	}
	lines = append(lines, "", textStyle.Render(textwrap.String(q.Text, width)), "")
	for i, answer := range q.Answers {
		lines = append(lines, m.renderAnswer(i, answer))
	}
	if m.snap.Phase == model.ShowingFeedback {
		lines = append(lines, "", m.feedback.View())
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderAnswer(i int, answer string) string {
	label := fmt.Sprintf("%d. %s", i+1, answer)
	if m.snap.Phase == model.AwaitingAnswer {
		if i == m.cursor {
			return selectedStyle.Render("> " + label)
		}
		return answerStyle.Render("  " + label)
	}
	q := m.snap.Question
	selected := m.snap.SelectedAnswer != nil && *m.snap.SelectedAnswer == answer
	switch {
	case answer == q.CorrectAnswer:
		if selected {
			return correctStyle.Render("> " + label)
		}
		return correctStyle.Render("  " + label)
	case selected:
		return wrongStyle.Render("> " + label)
	default:
		return answerStyle.Render("  " + label)
	}
}

func (m *Model) renderFeedbackBody() string {
	width := m.contentWidth()
	style := wrongStyle
	if m.snap.Correct {
		style = correctStyle
	}
	parts := []string{style.Render(textwrap.String(m.snap.Feedback, width))}
	if m.snap.Explanation != "" {
		parts = append(parts, "", textStyle.Render(textwrap.String(m.snap.Explanation, width)))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderEnded() string {
	summary := stats.Summarize(m.snap.Results)
	lines := []string{
		titleStyle.Render(stats.FinalScore(m.snap.Score, m.snap.Total)),
		footerStyle.Render(fmt.Sprintf("Accuracy %.0f%%  ·  avg %s per question  ·  %d timed out",
			summary.Accuracy*100, summary.AvgElapsed.Round(time.Second), summary.TimedOut)),
		"",
		m.results.View(),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp() string {
	switch m.snap.Phase {
	case model.NotStarted:
		return "tab/←/→ bank  ·  enter start  ·  q quit"
	case model.AwaitingAnswer:
		return "↑/↓ move  ·  enter or 1-9 answer  ·  esc reset  ·  q quit"
	case model.ShowingFeedback:
		return "n/enter next  ·  pgup/pgdn scroll  ·  esc reset  ·  q quit"
	case model.Ended:
		return "p play again  ·  esc reset  ·  q quit"
	default:
		return ""
	}
}

func buildResultTable(results []model.QuestionResult, width, height int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Question", Width: 24},
		{Title: "Your answer", Width: 24},
		{Title: "Result", Width: 10},
		{Title: "Time", Width: 5},
	}
	rows := make([]table.Row, 0, len(results))
	for i, r := range results {
		answer := r.Selected
		if r.TimedOut {
			answer = "-"
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			r.Title,
			answer,
			stats.Outcome(r),
			fmt.Sprintf("%ds", int(r.Elapsed.Seconds())),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	if width > 0 {
		t.SetWidth(width)
	}
	t.SetStyles(resultTableStyles())
	return t
}

func resultTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
