// Package main provides the CLI entrypoint for tuiquiz.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiquiz/internal/bank"
	"github.com/verte-zerg/tuiquiz/internal/config"
	"github.com/verte-zerg/tuiquiz/internal/generator"
	"github.com/verte-zerg/tuiquiz/internal/model"
	"github.com/verte-zerg/tuiquiz/internal/prompt"
	"github.com/verte-zerg/tuiquiz/internal/quiz"
	"github.com/verte-zerg/tuiquiz/internal/stats"
	"github.com/verte-zerg/tuiquiz/internal/store"
	"github.com/verte-zerg/tuiquiz/internal/tui"
)

const (
	defaultBank    = string(model.AllBanks)
	defaultCount   = 2
	defaultSeconds = quiz.DefaultQuestionSeconds
)

var (
	dbPath string

	playBank    string
	playCount   int
	playSeconds int
	playSeed    int64
	playPlain   bool

	importBank string

	exportBank string
	exportOut  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuiquiz",
		Short:         "Timed multiple-choice quiz for the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the bank database (default: $XDG_DATA_HOME/tuiquiz/banks.db)")
	rootCmd.Flags().StringVar(&playBank, "bank", defaultBank, "question bank: bank1, bank2 or allBanks")
	rootCmd.Flags().IntVar(&playCount, "count", defaultCount, "default number of questions")
	rootCmd.Flags().IntVar(&playSeconds, "seconds", defaultSeconds, "seconds per question")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "randomizer seed (0 picks a fresh order every run)")
	rootCmd.Flags().BoolVar(&playPlain, "plain", false, "line-oriented prompt instead of the full-screen UI")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newBanksCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newValidateCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "bank", &playBank, fileCfg.Quiz.Bank)
	applyIntConfig(cmd, "count", &playCount, fileCfg.Quiz.Count)
	applyIntConfig(cmd, "seconds", &playSeconds, fileCfg.Quiz.Seconds)
	applyInt64Config(cmd, "seed", &playSeed, fileCfg.Quiz.Seed)
	applyBoolConfig(cmd, "plain", &playPlain, fileCfg.Quiz.Plain)

	bankID, err := validateConfig(playBank, playCount, playSeconds)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	st, err := openStore(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	provider, err := loadBanks(ctx, st)
	if err != nil {
		return err
	}

	gen := generator.New()
	if playSeed != 0 {
		gen = generator.NewWithSeed(playSeed)
	}
	session := quiz.NewSession(provider, gen, quiz.Options{
		Bank:            bankID,
		QuestionSeconds: playSeconds,
	})
	defer session.Close()

	if playPlain || !isTerminal(cmd) {
		p := prompt.New(session, provider.Banks(), playCount, cmd.OutOrStdout())
		if err := p.Run(ctx, cmd.InOrStdin()); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("failed to run prompt: %w", err)
		}
		return nil
	}

	m := tui.NewModel(session, provider.Banks(), playCount)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newBanksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List stored question banks",
		Args:  cobra.NoArgs,
		RunE:  runBanksCmd,
	}
}

func runBanksCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx := commandContext(cmd)
	st, err := openStore(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := seedStore(ctx, st); err != nil {
		return err
	}
	infos, err := st.ListBanks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list banks: %w", err)
	}
	total := 0
	for _, info := range infos {
		total += info.Count
	}
	infos = append(infos, model.BankInfo{ID: model.AllBanks, Name: bank.AllBanksName, Count: total})
	return writeLines(cmd, stats.BankTable(infos))
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Validate a YAML bank file and store it",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importBank, "bank", "", "store into this bank instead of the id in the file (bank1 or bank2)")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	b, err := bank.ParseFile(args[0])
	if err != nil {
		return err
	}
	if importBank != "" {
		id, err := storedBankID(importBank)
		if err != nil {
			return err
		}
		b.ID = id
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx := commandContext(cmd)
	st, err := openStore(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := seedStore(ctx, st); err != nil {
		return err
	}
	if err := st.ReplaceBank(ctx, b); err != nil {
		return fmt.Errorf("failed to import %s: %w", b.ID, err)
	}
	return writeLines(cmd, []string{fmt.Sprintf("Imported %d questions into %s (%s)", len(b.Questions), b.ID, b.Name)})
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a stored bank as YAML",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportBank, "bank", string(model.Bank1), "bank to export (bank1 or bank2)")
	cmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	id, err := storedBankID(exportBank)
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx := commandContext(cmd)
	st, err := openStore(cmd, fileCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := seedStore(ctx, st); err != nil {
		return err
	}
	b, err := st.LoadBank(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", id, err)
	}
	data, err := bank.Marshal(b)
	if err != nil {
		return err
	}
	if exportOut == "" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	return nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check YAML bank files without storing them",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidateCmd,
	}
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		b, err := bank.ParseFile(path)
		if err != nil {
			failed++
			logErrf("%v\n", err)
			continue
		}
		if err := writeLines(cmd, []string{fmt.Sprintf("ok  %s: %s (%s), %d questions", path, b.ID, b.Name, len(b.Questions))}); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d bank files are invalid", failed, len(args))
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func resolveDBPath(cmd *cobra.Command, fileCfg config.FileConfig) string {
	path := dbPath
	if !cmd.Flags().Changed("db") && fileCfg.Store.Path != nil {
		path = *fileCfg.Store.Path
	}
	if path == "" {
		return config.DefaultDBPath()
	}
	return expandHome(path)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func openStore(cmd *cobra.Command, fileCfg config.FileConfig) (*store.Store, error) {
	st, err := store.Open(resolveDBPath(cmd, fileCfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func seedStore(ctx context.Context, st *store.Store) error {
	seeded, err := bank.Seed(ctx, st)
	if err != nil {
		return fmt.Errorf("failed to seed default banks: %w", err)
	}
	if seeded {
		logErrln("Stored the built-in question banks.")
	}
	return nil
}

func loadBanks(ctx context.Context, st *store.Store) (*bank.Provider, error) {
	if err := seedStore(ctx, st); err != nil {
		return nil, err
	}
	provider, err := bank.Load(ctx, st)
	if err != nil {
		if errors.Is(err, model.ErrMissingFeedback) || errors.Is(err, model.ErrInvalidQuestion) {
			return nil, fmt.Errorf("%w\nFix the bank file and run: tuiquiz import FILE", err)
		}
		return nil, err
	}
	return provider, nil
}

func storedBankID(raw string) (model.BankID, error) {
	id, err := model.ParseBankID(raw)
	if err != nil {
		return "", fmt.Errorf("--bank: %w", err)
	}
	if id == model.AllBanks {
		return "", fmt.Errorf("--bank must be bank1 or bank2; allBanks is derived")
	}
	return id, nil
}

func isTerminal(cmd *cobra.Command) bool {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	out, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

func writeLines(cmd *cobra.Command, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuiquiz configuration
# Uncomment a value to enable it. CLI flags override config values.

[quiz]
# bank = %q          # bank1, bank2 or allBanks
# count = %d                # Default number of questions on the start screen
# seconds = %d             # Seconds per question
# seed = 0                 # Randomizer seed; 0 picks a fresh order every run
# plain = false            # Line-oriented prompt instead of the full-screen UI

[store]
# path = %q
`,
		defaultBank,
		defaultCount,
		defaultSeconds,
		config.DefaultDBPath(),
	)
}

func validateConfig(bankName string, count, seconds int) (model.BankID, error) {
	if seconds < 1 {
		return "", fmt.Errorf("--seconds must be >= 1")
	}
	if count < 1 {
		return "", fmt.Errorf("--count must be >= 1")
	}
	id, err := model.ParseBankID(strings.TrimSpace(bankName))
	if err != nil {
		return "", fmt.Errorf("--bank: %w", err)
	}
	return id, nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
