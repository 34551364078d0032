// Package stats contains quiz result calculations and reporting.
package stats

import (
	"fmt"
	"time"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

// Summary aggregates the graded questions of one play-through.
type Summary struct {
	Total      int
	Correct    int
	Incorrect  int
	TimedOut   int
	Accuracy   float64
	AvgElapsed time.Duration
}

// Summarize computes a Summary. Timed out questions count as incorrect.
func Summarize(results []model.QuestionResult) Summary {
	s := Summary{Total: len(results)}
	if s.Total == 0 {
		return s
	}
	var elapsed time.Duration
	for _, r := range results {
		elapsed += r.Elapsed
		switch {
		case r.Correct:
			s.Correct++
		case r.TimedOut:
			s.TimedOut++
			s.Incorrect++
		default:
			s.Incorrect++
		}
	}
	s.Accuracy = float64(s.Correct) / float64(s.Total)
	s.AvgElapsed = elapsed / time.Duration(s.Total)
	return s
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FinalScore renders the end-of-quiz score line.
func FinalScore(score, total int) string {
	return fmt.Sprintf("Your final score is: %d / %d", score, total)
}

// Outcome labels a single result for tables.
func Outcome(r model.QuestionResult) string {
	switch {
	case r.Correct:
		return "correct"
	case r.TimedOut:
		return "time's up"
	default:
		return "incorrect"
	}
}
