package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

func sampleResults() []model.QuestionResult {
	return []model.QuestionResult{
		{Title: "Beatles", Selected: "Ringo", Correct: true, Elapsed: 4 * time.Second},
		{Title: "Spelling Bee", TimedOut: true, Elapsed: 15 * time.Second},
		{Title: "Dali", Selected: "Clocks", Elapsed: 2 * time.Second},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults())
	if s.Total != 3 || s.Correct != 1 || s.Incorrect != 2 || s.TimedOut != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.AvgElapsed != 7*time.Second {
		t.Fatalf("expected 7s average, got %v", s.AvgElapsed)
	}
	if s.Accuracy < 0.33 || s.Accuracy > 0.34 {
		t.Fatalf("unexpected accuracy: %v", s.Accuracy)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil); s != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{
		15:  "00:15",
		65:  "01:05",
		0:   "00:00",
		-3:  "00:00",
		600: "10:00",
	}
	for seconds, want := range cases {
		if got := FormatClock(seconds); got != want {
			t.Fatalf("FormatClock(%d) = %q, want %q", seconds, got, want)
		}
	}
}

func TestFinalScore(t *testing.T) {
	if got := FinalScore(1, 2); got != "Your final score is: 1 / 2" {
		t.Fatalf("unexpected final score line: %q", got)
	}
}

func TestResultTable(t *testing.T) {
	lines := ResultTable(sampleResults())
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "# Question") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[2], "time's up") || !strings.Contains(lines[2], " - ") {
		t.Fatalf("timeout row should show no answer: %q", lines[2])
	}
	if !strings.HasSuffix(lines[2], " 15s") || !strings.HasSuffix(lines[3], "  2s") {
		t.Fatalf("time column should be right aligned: %q / %q", lines[2], lines[3])
	}
	if !strings.Contains(lines[1], "correct") || !strings.Contains(lines[3], "incorrect") {
		t.Fatalf("unexpected outcome labels: %q / %q", lines[1], lines[3])
	}
}

func TestBankTable(t *testing.T) {
	lines := BankTable([]model.BankInfo{
		{ID: model.Bank1, Name: "YDKJ Style", Count: 6},
		{ID: model.AllBanks, Name: "All Banks", Count: 12},
	})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[1], " 6") || !strings.HasSuffix(lines[2], "12") {
		t.Fatalf("count column should be right aligned: %q / %q", lines[1], lines[2])
	}
}
