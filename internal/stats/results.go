package stats

import (
	"fmt"
	"strconv"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

// ResultTable renders per-question results as aligned text lines.
func ResultTable(results []model.QuestionResult) []string {
	headers := []string{"#", "Question", "Your answer", "Result", "Time"}
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		answer := r.Selected
		if r.TimedOut {
			answer = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Title,
			answer,
			Outcome(r),
			fmt.Sprintf("%ds", int(r.Elapsed.Seconds())),
		})
	}
	return formatTable(headers, rows, map[int]bool{0: true, 4: true})
}

// BankTable renders bank summaries as aligned text lines.
func BankTable(infos []model.BankInfo) []string {
	headers := []string{"Bank", "Name", "Questions"}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{string(info.ID), info.Name, strconv.Itoa(info.Count)})
	}
	return formatTable(headers, rows, map[int]bool{2: true})
}
