// Package prompt provides a line-oriented quiz interface for plain terminals and pipes.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/tuiquiz/internal/model"
	"github.com/verte-zerg/tuiquiz/internal/quiz"
	"github.com/verte-zerg/tuiquiz/internal/stats"
	"github.com/verte-zerg/tuiquiz/internal/textwrap"
)

const (
	defaultWidth = 80
	warnSeconds  = 5
)

// Prompt renders session snapshots as text and turns input lines into session operations.
type Prompt struct {
	session *quiz.Session
	banks   []model.BankInfo
	count   int
	out     *bufio.Writer
	width   int

	lastKey string
	warned  bool
}

// New constructs a prompt. count is the default number of questions used
// when the user starts with an empty line.
func New(session *quiz.Session, banks []model.BankInfo, count int, out io.Writer) *Prompt {
	return &Prompt{
		session: session,
		banks:   banks,
		count:   count,
		out:     bufio.NewWriter(out),
		width:   outputWidth(out),
	}
}

// Run reads commands from in until it ends, the user quits, or ctx is done.
// Countdown expiry is reported as soon as it happens, without waiting for input.
//
// When in supports read deadlines (a net.Conn or a pollable *os.File), Run
// interrupts the pending read before returning, so later input is left for the
// caller. Other readers keep one goroutine blocked until their next line or EOF.
func (p *Prompt) Run(ctx context.Context, in io.Reader) error {
	updates, cancel := p.session.Subscribe()
	defer cancel()

	done := make(chan struct{})
	lines := make(chan string)
	readErr := make(chan error, 1)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()
	defer stopReader(in, done, readerDone)

	p.render(p.session.Snapshot())
	if err := p.out.Flush(); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-updates:
			if !ok {
				return nil
			}
			p.render(p.session.Snapshot())
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return p.out.Flush()
			}
			if quit := p.handle(strings.TrimSpace(line)); quit {
				return p.out.Flush()
			}
			p.render(p.session.Snapshot())
		}
		if err := p.out.Flush(); err != nil {
			return fmt.Errorf("failed to write prompt: %w", err)
		}
	}
}

type deadlineReader interface {
	SetReadDeadline(t time.Time) error
}

func stopReader(in io.Reader, done, readerDone chan struct{}) {
	close(done)
	dr, ok := in.(deadlineReader)
	if !ok {
		return
	}
	if err := dr.SetReadDeadline(time.Now()); err != nil {
		return
	}
	<-readerDone
	_ = dr.SetReadDeadline(time.Time{})
}

func (p *Prompt) handle(line string) bool {
	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		return true
	case "r", "reset":
		p.session.Reset()
		return false
	}

	snap := p.session.Snapshot()
	switch snap.Phase {
	case model.NotStarted:
		p.handleSetup(line)
	case model.AwaitingAnswer:
		p.handleAnswer(snap, line)
	case model.ShowingFeedback:
		if line == "" || strings.EqualFold(line, "n") {
			p.report(p.session.Advance())
		}
	case model.Ended:
		if strings.EqualFold(line, "p") {
			p.report(p.session.PlayAgain())
		}
	}
	return false
}

func (p *Prompt) handleSetup(line string) {
	if rest, ok := strings.CutPrefix(line, "bank"); ok {
		p.selectBank(strings.TrimSpace(rest))
		return
	}
	count := p.count
	if line != "" {
		n, err := strconv.Atoi(line)
		if err != nil {
			p.report(&model.InvalidCountError{Max: p.bankSize(p.session.Snapshot().Bank)})
			return
		}
		count = n
	}
	p.report(p.session.Start(count))
}

func (p *Prompt) selectBank(arg string) {
	id := model.BankID(arg)
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(p.banks) {
		id = p.banks[n-1].ID
	}
	p.report(p.session.SelectBank(id))
}

func (p *Prompt) handleAnswer(snap model.Snapshot, line string) {
	q := snap.Question
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(q.Answers) {
		p.printf("! Pick an answer between 1 and %d.\n", len(q.Answers))
		return
	}
	p.report(p.session.SubmitAnswer(q.Answers[n-1]))
}

func (p *Prompt) report(err error) {
	if err == nil {
		return
	}
	p.printf("! %v\n", err)
}

func (p *Prompt) bankSize(id model.BankID) int {
	for _, info := range p.banks {
		if info.ID == id {
			return info.Count
		}
	}
	return 0
}

// render prints the screen for snap when the phase, question or bank
// changed since the last call. Countdown ticks only print a warning.
func (p *Prompt) render(snap model.Snapshot) {
	key := fmt.Sprintf("%d/%d/%s/%d", snap.Phase, snap.Index, snap.Bank, len(snap.Results))
	if key == p.lastKey {
		if snap.Phase == model.AwaitingAnswer && !p.warned && snap.RemainingSeconds <= warnSeconds {
			p.warned = true
			p.printf("  %s left\n", stats.FormatClock(snap.RemainingSeconds))
		}
		return
	}
	p.lastKey = key
	p.warned = false

	switch snap.Phase {
	case model.NotStarted:
		p.renderSetup(snap)
	case model.AwaitingAnswer:
		p.renderQuestion(snap)
	case model.ShowingFeedback:
		p.renderFeedback(snap)
	case model.Ended:
		p.renderEnded(snap)
	}
}

func (p *Prompt) renderSetup(snap model.Snapshot) {
	p.printf("\nQuestion banks:\n")
	for i, info := range p.banks {
		marker := " "
		if info.ID == snap.Bank {
			marker = "*"
		}
		p.printf("%s %d) %s (%d)\n", marker, i+1, info.Name, info.Count)
	}
	p.printf("Type 'bank N' to switch, a number of questions to start (enter for %d), or 'q' to quit.\n", p.count)
}

func (p *Prompt) renderQuestion(snap model.Snapshot) {
	q := snap.Question
	p.printf("\n[Question %d/%d]  Score %d  %s\n", snap.Index+1, snap.Total, snap.Score, stats.FormatClock(snap.RemainingSeconds))
	p.printf("%s\n", q.Title)
	if q.Quip != "" {
		p.lines(q.Quip)
	}
	p.printf("\n")
	p.lines(q.Text)
	for i, answer := range q.Answers {
		p.printf("  %d) %s\n", i+1, answer)
	}
	p.printf("Answer (1-%d): ", len(q.Answers))
}

func (p *Prompt) renderFeedback(snap model.Snapshot) {
	p.printf("\n")
	p.lines(snap.Feedback)
	if !snap.Correct && snap.Question != nil {
		p.printf("The answer was: %s\n", snap.Question.CorrectAnswer)
	}
	if snap.Explanation != "" {
		p.printf("\n")
		p.lines(snap.Explanation)
	}
	p.printf("\nPress enter to continue.\n")
}

func (p *Prompt) renderEnded(snap model.Snapshot) {
	p.printf("\n%s\n\n", stats.FinalScore(snap.Score, snap.Total))
	for _, line := range stats.ResultTable(snap.Results) {
		p.printf("%s\n", line)
	}
	p.printf("\n'p' to play again, 'r' to pick another bank, 'q' to quit.\n")
}

func (p *Prompt) lines(text string) {
	for _, line := range textwrap.Wrap(text, p.width) {
		p.printf("%s\n", line)
	}
}

func (p *Prompt) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		// Best-effort; Run reports write failures on flush.
		_ = err
	}
}

func outputWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
