package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "banks.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleBank(id model.BankID, titles ...string) model.Bank {
	b := model.Bank{ID: id, Name: "Sample " + string(id)}
	for _, title := range titles {
		b.Questions = append(b.Questions, model.Question{
			Title:         title,
			Quip:          "quip " + title,
			Text:          "text " + title,
			Answers:       []string{"zeta", "alpha", "mu"},
			CorrectAnswer: "alpha",
			IncorrectMessages: map[string]string{
				"zeta": "not zeta",
				"mu":   "not mu",
			},
			Explanation: "line one\nline two",
		})
	}
	return b
}

func TestReplaceAndLoadBankPreservesOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	has, err := st.HasBanks(ctx)
	if err != nil || has {
		t.Fatalf("expected empty store, got has=%v err=%v", has, err)
	}
	if err := st.ReplaceBank(ctx, sampleBank(model.Bank1, "first", "second", "third")); err != nil {
		t.Fatalf("replace bank: %v", err)
	}

	got, err := st.LoadBank(ctx, model.Bank1)
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	if got.Name != "Sample bank1" || len(got.Questions) != 3 {
		t.Fatalf("unexpected bank: %+v", got)
	}
	for i, title := range []string{"first", "second", "third"} {
		if got.Questions[i].Title != title {
			t.Fatalf("question %d: expected %q, got %q", i, title, got.Questions[i].Title)
		}
	}
	q := got.Questions[0]
	if len(q.Answers) != 3 || q.Answers[0] != "zeta" || q.Answers[1] != "alpha" || q.Answers[2] != "mu" {
		t.Fatalf("answer order not preserved: %v", q.Answers)
	}
	if q.CorrectAnswer != "alpha" || q.IncorrectMessages["mu"] != "not mu" || len(q.IncorrectMessages) != 2 {
		t.Fatalf("unexpected grading data: %+v", q)
	}
	if q.Explanation != "line one\nline two" {
		t.Fatalf("explanation line breaks lost: %q", q.Explanation)
	}
}

func TestReplaceBankOverwrites(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.ReplaceBank(ctx, sampleBank(model.Bank1, "a", "b")); err != nil {
		t.Fatalf("replace bank: %v", err)
	}
	if err := st.ReplaceBank(ctx, sampleBank(model.Bank2, "c")); err != nil {
		t.Fatalf("replace bank: %v", err)
	}
	if err := st.ReplaceBank(ctx, sampleBank(model.Bank1, "z")); err != nil {
		t.Fatalf("replace bank: %v", err)
	}

	infos, err := st.ListBanks(ctx)
	if err != nil {
		t.Fatalf("list banks: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 banks, got %+v", infos)
	}
	if infos[0].ID != model.Bank1 || infos[0].Count != 1 || infos[1].ID != model.Bank2 || infos[1].Count != 1 {
		t.Fatalf("unexpected bank infos: %+v", infos)
	}
	got, err := st.LoadBank(ctx, model.Bank1)
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	if len(got.Questions) != 1 || got.Questions[0].Title != "z" {
		t.Fatalf("expected replaced content, got %+v", got.Questions)
	}
}

func TestLoadMissingBank(t *testing.T) {
	st := openTestStore(t)
	_, err := st.LoadBank(context.Background(), model.Bank2)
	if !errors.Is(err, ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}
