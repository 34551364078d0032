// Package bank loads, validates and serves question banks.
package bank

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

// File is the YAML layout of a bank file.
type File struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Questions []QuestionFile `yaml:"questions"`
}

// QuestionFile is the YAML layout of one question.
type QuestionFile struct {
	Title       string            `yaml:"title"`
	Quip        string            `yaml:"quip"`
	Question    string            `yaml:"question"`
	Answers     []string          `yaml:"answers"`
	Correct     string            `yaml:"correct"`
	Incorrect   map[string]string `yaml:"incorrect"`
	Explanation string            `yaml:"explanation"`
}

// ParseFile reads and validates a bank file from disk.
func ParseFile(path string) (model.Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Bank{}, fmt.Errorf("failed to read bank file: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return model.Bank{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes and validates a YAML bank document. Unknown keys are rejected.
func Parse(data []byte) (model.Bank, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return model.Bank{}, fmt.Errorf("failed to decode bank: %w", err)
	}
	id, err := model.ParseBankID(f.ID)
	if err != nil {
		return model.Bank{}, err
	}
	if id == model.AllBanks {
		return model.Bank{}, fmt.Errorf("%w: allBanks is derived and cannot be stored", model.ErrUnknownBank)
	}
	b := model.Bank{ID: id, Name: f.Name, Questions: make([]model.Question, 0, len(f.Questions))}
	for _, q := range f.Questions {
		b.Questions = append(b.Questions, model.Question{
			Title:             q.Title,
			Quip:              q.Quip,
			Text:              q.Question,
			Answers:           q.Answers,
			CorrectAnswer:     q.Correct,
			IncorrectMessages: q.Incorrect,
			Explanation:       q.Explanation,
		})
	}
	if err := Validate(b); err != nil {
		return model.Bank{}, err
	}
	return b, nil
}

// Marshal encodes a bank in the YAML file layout.
func Marshal(b model.Bank) ([]byte, error) {
	f := File{ID: string(b.ID), Name: b.Name, Questions: make([]QuestionFile, 0, len(b.Questions))}
	for _, q := range b.Questions {
		f.Questions = append(f.Questions, QuestionFile{
			Title:       q.Title,
			Quip:        q.Quip,
			Question:    q.Text,
			Answers:     q.Answers,
			Correct:     q.CorrectAnswer,
			Incorrect:   q.IncorrectMessages,
			Explanation: q.Explanation,
		})
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bank: %w", err)
	}
	return data, nil
}
