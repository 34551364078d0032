// Package model defines shared data structures.
package model

import "time"

// BankID identifies a question bank.
type BankID string

// Known banks. AllBanks is the concatenation of every named bank.
const (
	Bank1    BankID = "bank1"
	Bank2    BankID = "bank2"
	AllBanks BankID = "allBanks"
)

// NamedBanks lists the stored banks in their stable concatenation order.
var NamedBanks = []BankID{Bank1, Bank2}

// ParseBankID validates a bank identifier.
func ParseBankID(raw string) (BankID, error) {
	switch id := BankID(raw); id {
	case Bank1, Bank2, AllBanks:
		return id, nil
	default:
		return "", &UnknownBankError{ID: raw}
	}
}

// Question is one immutable quiz item.
type Question struct {
	Title             string
	Quip              string
	Text              string
	Answers           []string
	CorrectAnswer     string
	IncorrectMessages map[string]string
	Explanation       string
}

// HasAnswer reports whether answer is one of the question's options.
func (q Question) HasAnswer(answer string) bool {
	for _, a := range q.Answers {
		if a == answer {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or maps with q.
func (q Question) Clone() Question {
	out := q
	if q.Answers != nil {
		out.Answers = append([]string(nil), q.Answers...)
	}
	if q.IncorrectMessages != nil {
		out.IncorrectMessages = make(map[string]string, len(q.IncorrectMessages))
		for answer, msg := range q.IncorrectMessages {
			out.IncorrectMessages[answer] = msg
		}
	}
	return out
}

// Bank is a named, ordered collection of questions.
type Bank struct {
	ID        BankID
	Name      string
	Questions []Question
}

// BankInfo summarizes a bank for selection menus.
type BankInfo struct {
	ID    BankID
	Name  string
	Count int
}

// Phase is the session's state-machine state.
type Phase int

// Session phases.
const (
	NotStarted Phase = iota
	AwaitingAnswer
	ShowingFeedback
	Ended
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not started"
	case AwaitingAnswer:
		return "awaiting answer"
	case ShowingFeedback:
		return "showing feedback"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Feedback messages that do not come from the question bank.
const (
	CorrectMessage = "Correct!"
	TimeoutMessage = "Time's up!"
)

// QuestionResult records how one question of a play-through was graded.
type QuestionResult struct {
	Title    string
	Selected string
	Correct  bool
	TimedOut bool
	Elapsed  time.Duration
}

// Snapshot is the observable session state handed to renderers.
type Snapshot struct {
	Phase            Phase
	Bank             BankID
	Question         *Question
	Index            int
	Total            int
	QuestionSeconds  int
	RemainingSeconds int
	Score            int
	// SelectedAnswer is nil unless Phase is ShowingFeedback and an answer was given.
	SelectedAnswer *string
	Correct        bool
	Feedback       string
	Explanation    string
	Results        []QuestionResult
}
