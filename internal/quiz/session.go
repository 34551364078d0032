// Package quiz implements the timed quiz session state machine.
package quiz

import (
	"sync"
	"time"

	"github.com/verte-zerg/tuiquiz/internal/countdown"
	"github.com/verte-zerg/tuiquiz/internal/model"
)

// DefaultQuestionSeconds is the per-question countdown when none is configured.
const DefaultQuestionSeconds = 15

// BankSource provides question banks by identifier.
type BankSource interface {
	Bank(id model.BankID) ([]model.Question, error)
}

// Picker draws a randomized subset of questions.
type Picker interface {
	Pick(source []model.Question, count int) ([]model.Question, error)
}

// Options configures a Session.
type Options struct {
	Bank            model.BankID
	QuestionSeconds int
	Clock           countdown.Clock
	// TickInterval is the wall time of one countdown second; tests shorten it.
	TickInterval time.Duration
}

// Session is one play-through. All operations are serialized by mu; the
// countdown watcher goroutine is the only asynchronous source of mutations.
type Session struct {
	source  BankSource
	picker  Picker
	seconds int

	mu          sync.Mutex
	bank        model.BankID
	phase       model.Phase
	questions   []model.Question
	index       int
	score       int
	selected    *string
	correct     bool
	feedback    string
	results     []model.QuestionResult
	timer       *countdown.Countdown
	round       uint64
	stop        chan struct{}
	subscribers map[chan model.Snapshot]struct{}
	closed      bool
}

// NewSession constructs a session in the NotStarted phase.
func NewSession(source BankSource, picker Picker, opts Options) *Session {
	bank := opts.Bank
	if bank == "" {
		bank = model.AllBanks
	}
	seconds := opts.QuestionSeconds
	if seconds <= 0 {
		seconds = DefaultQuestionSeconds
	}
	return &Session{
		source:      source,
		picker:      picker,
		seconds:     seconds,
		bank:        bank,
		phase:       model.NotStarted,
		timer:       countdown.New(opts.Clock, opts.TickInterval),
		subscribers: make(map[chan model.Snapshot]struct{}),
	}
}

// SelectBank changes the active bank. Only allowed before a quiz starts.
func (s *Session) SelectBank(id model.BankID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.NotStarted {
		return &model.TransitionError{Op: "select bank", Phase: s.phase}
	}
	if _, err := s.source.Bank(id); err != nil {
		return err
	}
	s.bank = id
	s.broadcastLocked()
	return nil
}

// Start draws count questions from the selected bank and begins the first countdown.
func (s *Session) Start(count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.NotStarted {
		return &model.TransitionError{Op: "start", Phase: s.phase}
	}
	return s.beginLocked(count)
}

// SubmitAnswer grades the user's answer for the current question. Only the
// first submission per question counts; later ones are ignored.
func (s *Session) SubmitAnswer(answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case model.AwaitingAnswer:
	case model.ShowingFeedback:
		return nil
	default:
		return &model.TransitionError{Op: "submit answer", Phase: s.phase}
	}
	if !s.questions[s.index].HasAnswer(answer) {
		return &unknownAnswerError{answer: answer}
	}
	s.submitLocked(&answer)
	return nil
}

// Advance moves past the feedback of the current question.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.ShowingFeedback {
		return &model.TransitionError{Op: "advance", Phase: s.phase}
	}
	if s.index+1 >= len(s.questions) {
		s.phase = model.Ended
		s.broadcastLocked()
		return nil
	}
	s.index++
	s.selected = nil
	s.correct = false
	s.feedback = ""
	s.phase = model.AwaitingAnswer
	if err := s.startTimerLocked(); err != nil {
		return err
	}
	s.broadcastLocked()
	return nil
}

// PlayAgain starts a fresh randomized play-through of the same length and bank.
func (s *Session) PlayAgain() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != model.Ended {
		return &model.TransitionError{Op: "play again", Phase: s.phase}
	}
	return s.beginLocked(len(s.questions))
}

// Reset cancels any countdown and returns to NotStarted. Allowed from any phase.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimerLocked()
	s.clearLocked()
	s.phase = model.NotStarted
	s.broadcastLocked()
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close cancels the countdown and closes every subscription.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimerLocked()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.closed = true
}

func (s *Session) beginLocked(count int) error {
	bank, err := s.source.Bank(s.bank)
	if err != nil {
		return err
	}
	if count < 1 || count > len(bank) {
		return &model.InvalidCountError{Requested: count, Max: len(bank)}
	}
	picked, err := s.picker.Pick(bank, count)
	if err != nil {
		return err
	}

	s.cancelTimerLocked()
	s.clearLocked()
	s.questions = picked
	s.phase = model.AwaitingAnswer
	if err := s.startTimerLocked(); err != nil {
		return err
	}
	s.broadcastLocked()
	return nil
}

// submitLocked is the single grading path. A nil answer is a forced
// submission after the countdown expired and is always graded incorrect.
func (s *Session) submitLocked(answer *string) {
	s.cancelTimerLocked()

	q := s.questions[s.index]
	elapsed := s.seconds - s.timer.Remaining()
	result := model.QuestionResult{
		Title:   q.Title,
		Elapsed: time.Duration(elapsed) * time.Second,
	}
	switch {
	case answer == nil:
		s.correct = false
		s.feedback = model.TimeoutMessage
		result.TimedOut = true
	case *answer == q.CorrectAnswer:
		s.correct = true
		s.score++
		s.feedback = model.CorrectMessage
	default:
		s.correct = false
		s.feedback = q.IncorrectMessages[*answer]
	}
	if answer != nil {
		selected := *answer
		s.selected = &selected
		result.Selected = selected
	} else {
		s.selected = nil
	}
	result.Correct = s.correct
	s.results = append(s.results, result)
	s.phase = model.ShowingFeedback
	s.broadcastLocked()
}

func (s *Session) clearLocked() {
	s.questions = nil
	s.index = 0
	s.score = 0
	s.selected = nil
	s.correct = false
	s.feedback = ""
	s.results = nil
}

func (s *Session) snapshotLocked() model.Snapshot {
	snap := model.Snapshot{
		Phase:            s.phase,
		Bank:             s.bank,
		Index:            s.index,
		Total:            len(s.questions),
		QuestionSeconds:  s.seconds,
		RemainingSeconds: s.seconds,
		Score:            s.score,
		Correct:          s.correct,
		Feedback:         s.feedback,
	}
	if s.phase == model.AwaitingAnswer || s.phase == model.ShowingFeedback {
		q := s.questions[s.index].Clone()
		snap.Question = &q
		snap.RemainingSeconds = s.timer.Remaining()
	}
	if s.phase == model.ShowingFeedback {
		snap.Explanation = s.questions[s.index].Explanation
		if s.selected != nil {
			selected := *s.selected
			snap.SelectedAnswer = &selected
		}
	}
	if len(s.results) > 0 {
		snap.Results = make([]model.QuestionResult, len(s.results))
		copy(snap.Results, s.results)
	}
	return snap
}

type unknownAnswerError struct {
	answer string
}

func (e *unknownAnswerError) Error() string {
	return model.ErrUnknownAnswer.Error() + ": " + e.answer
}

func (e *unknownAnswerError) Is(target error) bool {
	return target == model.ErrUnknownAnswer
}
