package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/tuiquiz/internal/config"
	"github.com/verte-zerg/tuiquiz/internal/model"
)

const tinyBank = `
id: bank2
name: Tiny
questions:
  - title: Sum
    quip: Math time
    question: "1 + 1?"
    answers: ["1", "2", "3"]
    correct: "2"
    incorrect:
      "1": "Too small."
      "3": "Too big."
    explanation: "One plus one is two."
`

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return filepath.Join(dir, "banks.db")
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestValidateConfig(t *testing.T) {
	id, err := validateConfig("bank2", 2, 15)
	if err != nil || id != model.Bank2 {
		t.Fatalf("expected bank2, got %q, %v", id, err)
	}
	cases := []struct {
		bank    string
		count   int
		seconds int
		want    string
	}{
		{"allBanks", 2, 0, "--seconds"},
		{"allBanks", 0, 15, "--count"},
		{"bank3", 2, 15, "--bank"},
	}
	for _, tc := range cases {
		_, err := validateConfig(tc.bank, tc.count, tc.seconds)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("expected %s error for %+v, got %v", tc.want, tc, err)
		}
	}
	if _, err := validateConfig("bank3", 2, 15); !errors.Is(err, model.ErrUnknownBank) {
		t.Fatalf("expected ErrUnknownBank, got %v", err)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := writeFile(t, "config.toml", defaultConfigTemplate())
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	uncommented := strings.ReplaceAll(defaultConfigTemplate(), "# bank =", "bank =")
	cfg, err := config.LoadConfig(writeFile(t, "config.toml", uncommented))
	if err != nil {
		t.Fatalf("uncommented template should decode: %v", err)
	}
	if cfg.Quiz.Bank == nil || *cfg.Quiz.Bank != defaultBank {
		t.Fatalf("unexpected bank value: %v", cfg.Quiz.Bank)
	}
}

func TestApplyConfigRespectsExplicitFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--count", "5"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	fileCount, fileSeconds := 3, 40
	applyIntConfig(cmd, "count", &playCount, &fileCount)
	applyIntConfig(cmd, "seconds", &playSeconds, &fileSeconds)
	if playCount != 5 {
		t.Fatalf("explicit flag must win, got %d", playCount)
	}
	if playSeconds != 40 {
		t.Fatalf("config must fill unset flag, got %d", playSeconds)
	}
}

func TestBanksImportExport(t *testing.T) {
	db := isolate(t)

	out, err := execute(t, "", "banks", "--db", db)
	if err != nil {
		t.Fatalf("banks: %v", err)
	}
	for _, want := range []string{"bank1", "YDKJ Style", "bank2", "allBanks", "All Banks"} {
		if !strings.Contains(out, want) {
			t.Fatalf("banks output missing %q:\n%s", want, out)
		}
	}

	file := writeFile(t, "tiny.yaml", tinyBank)
	out, err = execute(t, "", "import", "--db", db, "--bank", "bank1", file)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 1 questions into bank1 (Tiny)") {
		t.Fatalf("unexpected import output: %s", out)
	}

	out, err = execute(t, "", "export", "--db", db, "--bank", "bank1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "name: Tiny") || !strings.Contains(out, "id: bank1") {
		t.Fatalf("unexpected export output:\n%s", out)
	}

	if _, err := execute(t, "", "import", "--db", db, "--bank", "allBanks", file); err == nil {
		t.Fatalf("expected allBanks import to fail")
	}
}

func TestValidateCmd(t *testing.T) {
	isolate(t)
	good := writeFile(t, "good.yaml", tinyBank)
	bad := writeFile(t, "bad.yaml", strings.Replace(tinyBank, `      "3": "Too big."`+"\n", "", 1))

	out, err := execute(t, "", "validate", good)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "ok  "+good) {
		t.Fatalf("unexpected validate output: %s", out)
	}
	if _, err := execute(t, "", "validate", good, bad); err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected one invalid file, got %v", err)
	}
}

func TestPlainPlay(t *testing.T) {
	db := isolate(t)
	out, err := execute(t, "1\n1\nq\n", "--db", db, "--plain", "--bank", "bank1", "--seconds", "60", "--seed", "4")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	for _, want := range []string{"Question banks:", "[Question 1/1]", "Answer (1-"} {
		if !strings.Contains(out, want) {
			t.Fatalf("play output missing %q:\n%s", want, out)
		}
	}
}

func TestPlayRejectsBadFlags(t *testing.T) {
	db := isolate(t)
	if _, err := execute(t, "", "--db", db, "--plain", "--seconds", "0"); err == nil {
		t.Fatalf("expected --seconds error")
	}
}
