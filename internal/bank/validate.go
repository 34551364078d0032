package bank

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

// Validate checks every question record of a bank. A wrong answer without an
// incorrect message fails with model.ErrMissingFeedback.
func Validate(b model.Bank) error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: bank %s has no name", model.ErrInvalidQuestion, b.ID)
	}
	if len(b.Questions) == 0 {
		return fmt.Errorf("%w: bank %s has no questions", model.ErrInvalidQuestion, b.ID)
	}
	for i, q := range b.Questions {
		if err := validateQuestion(q); err != nil {
			return fmt.Errorf("bank %s question %d (%q): %w", b.ID, i+1, q.Title, err)
		}
	}
	return nil
}

func validateQuestion(q model.Question) error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: empty title", model.ErrInvalidQuestion)
	}
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: empty question text", model.ErrInvalidQuestion)
	}
	if len(q.Answers) < 2 {
		return fmt.Errorf("%w: need at least 2 answers, got %d", model.ErrInvalidQuestion, len(q.Answers))
	}
	seen := make(map[string]struct{}, len(q.Answers))
	for _, a := range q.Answers {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("%w: empty answer", model.ErrInvalidQuestion)
		}
		if _, dup := seen[a]; dup {
			return fmt.Errorf("%w: duplicate answer %q", model.ErrInvalidQuestion, a)
		}
		seen[a] = struct{}{}
	}
	if !q.HasAnswer(q.CorrectAnswer) {
		return fmt.Errorf("%w: correct answer %q is not an option", model.ErrInvalidQuestion, q.CorrectAnswer)
	}
	for _, a := range q.Answers {
		if a == q.CorrectAnswer {
			continue
		}
		if strings.TrimSpace(q.IncorrectMessages[a]) == "" {
			return fmt.Errorf("%w: %q", model.ErrMissingFeedback, a)
		}
	}
	for a := range q.IncorrectMessages {
		if a == q.CorrectAnswer {
			return fmt.Errorf("%w: incorrect message given for the correct answer %q", model.ErrInvalidQuestion, a)
		}
		if _, ok := seen[a]; !ok {
			return fmt.Errorf("%w: incorrect message for unknown answer %q", model.ErrInvalidQuestion, a)
		}
	}
	return nil
}
