// Package store handles SQLite persistence of question banks.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/tuiquiz/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrBankNotFound is returned when a bank has not been stored yet.
var ErrBankNotFound = errors.New("bank not found in store")

// Store wraps SQLite access for bank content.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS banks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY,
			bank_id TEXT NOT NULL REFERENCES banks(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			quip TEXT NOT NULL,
			question TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			explanation TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS answers (
			question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			incorrect_message TEXT,
			PRIMARY KEY (question_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_questions_bank ON questions(bank_id, position);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// HasBanks reports whether any bank has been stored.
func (s *Store) HasBanks(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM banks`).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReplaceBank stores a bank, discarding any previous content with the same id.
func (s *Store) ReplaceBank(ctx context.Context, b model.Bank) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	// Foreign keys are not enforced, so answers go first.
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM answers WHERE question_id IN (SELECT id FROM questions WHERE bank_id = ?)`, string(b.ID)); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM questions WHERE bank_id = ?`, string(b.ID)); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO banks (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`, string(b.ID), b.Name); err != nil {
		return err
	}

	qStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO questions (bank_id, position, title, quip, question, correct_answer, explanation)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := qStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	aStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO answers (question_id, position, text, incorrect_message) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := aStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for pos, q := range b.Questions {
		res, err := qStmt.ExecContext(ctx, string(b.ID), pos, q.Title, q.Quip, q.Text, q.CorrectAnswer, q.Explanation)
		if err != nil {
			return err
		}
		qid, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for apos, answer := range q.Answers {
			var msg sql.NullString
			if text, ok := q.IncorrectMessages[answer]; ok {
				msg = sql.NullString{String: text, Valid: true}
			}
			if _, err := aStmt.ExecContext(ctx, qid, apos, answer, msg); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadBank reads a bank with questions and answers in stored order.
func (s *Store) LoadBank(ctx context.Context, id model.BankID) (model.Bank, error) {
	b := model.Bank{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM banks WHERE id = ?`, string(id)).Scan(&b.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bank{}, fmt.Errorf("%w: %s", ErrBankNotFound, id)
	}
	if err != nil {
		return model.Bank{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT q.id, q.title, q.quip, q.question, q.correct_answer, q.explanation, a.text, a.incorrect_message
		 FROM questions q
		 JOIN answers a ON a.question_id = q.id
		 WHERE q.bank_id = ?
		 ORDER BY q.position, a.position`, string(id))
	if err != nil {
		return model.Bank{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	lastID := int64(-1)
	for rows.Next() {
		var (
			qid    int64
			q      model.Question
			answer string
			msg    sql.NullString
		)
		if err := rows.Scan(&qid, &q.Title, &q.Quip, &q.Text, &q.CorrectAnswer, &q.Explanation, &answer, &msg); err != nil {
			return model.Bank{}, err
		}
		if qid != lastID {
			q.IncorrectMessages = map[string]string{}
			b.Questions = append(b.Questions, q)
			lastID = qid
		}
		cur := &b.Questions[len(b.Questions)-1]
		cur.Answers = append(cur.Answers, answer)
		if msg.Valid {
			cur.IncorrectMessages[answer] = msg.String
		}
	}
	if err := rows.Err(); err != nil {
		return model.Bank{}, err
	}
	return b, nil
}

// ListBanks returns stored banks with their question counts, ordered by id.
func (s *Store) ListBanks(ctx context.Context) ([]model.BankInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.name, COUNT(q.id)
		 FROM banks b
		 LEFT JOIN questions q ON q.bank_id = b.id
		 GROUP BY b.id, b.name
		 ORDER BY b.id`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var infos []model.BankInfo
	for rows.Next() {
		var info model.BankInfo
		var id string
		if err := rows.Scan(&id, &info.Name, &info.Count); err != nil {
			return nil, err
		}
		info.ID = model.BankID(id)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}
