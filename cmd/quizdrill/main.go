// Package main provides the CLI entrypoint for quizdrill.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/quizdrill/internal/app"
	"github.com/verte-zerg/quizdrill/internal/bank"
	"github.com/verte-zerg/quizdrill/internal/config"
	"github.com/verte-zerg/quizdrill/internal/model"
	"github.com/verte-zerg/quizdrill/internal/session"
	"github.com/verte-zerg/quizdrill/internal/stats"
	"github.com/verte-zerg/quizdrill/internal/statsui"
	"github.com/verte-zerg/quizdrill/internal/store"
	"github.com/verte-zerg/quizdrill/internal/tui"
)

const defaultWindow = 5

var (
	flagBank     string
	flagStore    string
	flagDB       string
	flagRedisURL string
	flagDebug    bool

	practiceWeakQuota  int
	practiceOtherQuota int

	statsSince  string
	statsLast   int
	statsWindow int
	statsPlain  bool

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quizdrill",
		Short:         "Adaptive certification self-quiz",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBank, "bank", "", "question bank JSON (default: built-in DVA bank)")
	pf.StringVar(&flagStore, "store", store.BackendSQLite, "store backend: sqlite, redis or memory")
	pf.StringVar(&flagDB, "db", config.DefaultDBPath(), "SQLite database path")
	pf.StringVar(&flagRedisURL, "redis-url", "", "Redis URL for the redis backend")
	pf.BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.Flags().IntVar(&practiceWeakQuota, "weak-quota", session.DefaultWeakQuota, "questions drawn from the weakest domain")
	rootCmd.Flags().IntVar(&practiceOtherQuota, "other-quota", session.DefaultOtherQuota, "questions drawn from every other domain")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newDomainsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newValidateCmd())

	return rootCmd
}

// resolveConfig merges defaults, the TOML file, the environment and flags,
// in increasing order of precedence.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return model.Config{}, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Defaults()
	config.ApplyFile(&cfg, fileCfg)
	config.ApplyEnv(&cfg)

	applyStringFlag(cmd, "bank", &cfg.BankPath, flagBank)
	applyStringFlag(cmd, "store", &cfg.Store.Backend, flagStore)
	applyStringFlag(cmd, "db", &cfg.Store.Path, flagDB)
	applyStringFlag(cmd, "redis-url", &cfg.Store.RedisURL, flagRedisURL)
	applyIntFlag(cmd, "weak-quota", &cfg.WeakQuota, practiceWeakQuota)
	applyIntFlag(cmd, "other-quota", &cfg.OtherQuota, practiceOtherQuota)

	if err := config.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// openApp resolves config, sets up logging and opens the application.
// toFile sends logs to the state log file instead of stderr.
func openApp(cmd *cobra.Command, toFile bool) (*app.App, *slog.Logger, func(), error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closeLog, err := newLogger(toFile)
	if err != nil {
		return nil, nil, nil, err
	}
	a, err := app.Open(cmd.Context(), cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, nil, err
	}
	cleanup := func() {
		if cerr := a.Close(); cerr != nil {
			logger.Error("failed to close store", "err", cerr)
		}
		closeLog()
	}
	return a, logger, cleanup, nil
}

func newLogger(toFile bool) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	if flagDebug {
		level = slog.LevelDebug
	}
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if toFile {
		path := config.DefaultLogPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() {
			// Best-effort close.
			_ = f.Close()
		}
		if !flagDebug {
			level = slog.LevelInfo
		}
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	a, logger, cleanup, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer cleanup()

	program := tea.NewProgram(tui.NewModel(a, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
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

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show mastery and session history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsWindow, "window", defaultWindow, "moving average window for the accuracy trend")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print text output instead of the interactive view")
	return cmd
}

func parseStatsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	return model.StatsConfig{Since: sinceTime, Last: statsLast, Window: statsWindow}, nil
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := parseStatsConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	interactive := !statsPlain && stats.IsTerminal(out)

	a, _, cleanup, err := openApp(cmd, interactive)
	if err != nil {
		return err
	}
	defer cleanup()

	load := func(ctx context.Context, cfg model.StatsConfig) (stats.Report, error) {
		return stats.BuildReport(ctx, a.Store, a.Mastery, a.Streak.Count(), a.Bank.Len(), cfg)
	}
	if !interactive {
		report, err := load(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		return renderPlainStats(out, report, cfg.Window)
	}

	program := tea.NewProgram(statsui.NewModel(load, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(w io.Writer, report stats.Report, window int) error {
	if err := stats.RenderSummary(w, report); err != nil {
		return err
	}
	if err := stats.RenderDomains(w, report.Domains); err != nil {
		return err
	}
	if err := stats.RenderCurve(w, report.Sessions, window, stats.TerminalWidth(w)); err != nil {
		return err
	}
	return stats.RenderHistory(w, report.Sessions)
}

func newDomainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List domains with mastery progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, cleanup, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()
			return stats.RenderDomains(cmd.OutOrStdout(), a.Mastery.DomainStats())
		},
	}
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear mastery levels and streak",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "Clear all mastery levels and the streak? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Aborted.")
			return nil
		}
	}
	a, _, cleanup, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := a.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Progress cleared.")
	return err
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [bank.json]",
		Short: "Validate a question bank",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				b    *bank.Bank
				err  error
				name = "built-in bank"
			)
			if len(args) == 1 {
				name = args[0]
				b, err = bank.Load(args[0])
			} else {
				b, err = bank.Default()
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d questions in %d domains\n", name, b.Len(), len(b.Domains()))
			return err
		},
	}
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# quizdrill configuration
# Uncomment a value to enable it. Environment variables and CLI flags
# override config values.

[practice]
# weak-quota = %d          # Questions drawn from the weakest domain
# other-quota = %d         # Questions drawn from every other domain
# bank = "/path/to/bank.json"

[store]
# backend = %q       # sqlite, redis or memory
# path = %q
# redis-url = "redis://localhost:6379/0"
# prefix = %q
`,
		session.DefaultWeakQuota,
		session.DefaultOtherQuota,
		store.BackendSQLite,
		config.DefaultDBPath(),
		store.DefaultRedisPrefix,
	)
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
