// Package main provides the CLI entrypoint for tuicast.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuicast/internal/config"
	"github.com/verte-zerg/tuicast/internal/content"
	"github.com/verte-zerg/tuicast/internal/engine"
	"github.com/verte-zerg/tuicast/internal/history"
	"github.com/verte-zerg/tuicast/internal/model"
	"github.com/verte-zerg/tuicast/internal/store"
	"github.com/verte-zerg/tuicast/internal/transcript"
	"github.com/verte-zerg/tuicast/internal/transport"
	"github.com/verte-zerg/tuicast/internal/tui"
)

const (
	defaultSkip     = transport.DefaultSkip
	defaultParaSize = transcript.DefaultParagraphSize
	defaultDeadband = 1.0
	defaultTickMs   = 250
)

var (
	playSkip     float64
	playParaSize int
	playDeadband float64
	playTickMs   int
	playAutoplay bool
	playNoResume bool

	historySince string
	historyLast  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuicast <module.json|module.yaml|url>",
		Short:         "Terminal transcript player",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ExactArgs(1),
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().Float64Var(&playSkip, "skip", defaultSkip, "skip step in seconds")
	rootCmd.Flags().IntVar(&playParaSize, "paragraph-size", defaultParaSize, "words per paragraph")
	rootCmd.Flags().Float64Var(&playDeadband, "deadband", defaultDeadband, "rows the active word may drift from centre before scrolling")
	rootCmd.Flags().IntVar(&playTickMs, "tick", defaultTickMs, "clock update interval in milliseconds")
	rootCmd.Flags().BoolVar(&playAutoplay, "autoplay", false, "start playing immediately")
	rootCmd.Flags().BoolVar(&playNoResume, "no-resume", false, "start from the beginning instead of the last position")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	resume := !playNoResume
	applyFloatConfig(cmd, "skip", &playSkip, fileCfg.Player.Skip)
	applyIntConfig(cmd, "paragraph-size", &playParaSize, fileCfg.Player.ParagraphSize)
	applyFloatConfig(cmd, "deadband", &playDeadband, fileCfg.Player.Deadband)
	applyIntConfig(cmd, "tick", &playTickMs, fileCfg.Player.TickMs)
	applyBoolConfig(cmd, "autoplay", &playAutoplay, fileCfg.Player.Autoplay)
	applyBoolConfig(cmd, "no-resume", &resume, fileCfg.Player.Resume)

	cfg := model.PlayerConfig{
		Skip:          playSkip,
		ParagraphSize: playParaSize,
		Deadband:      playDeadband,
		Tick:          time.Duration(playTickMs) * time.Millisecond,
		Autoplay:      playAutoplay,
		Resume:        resume,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	source := args[0]
	rec, err := content.Load(cmd.Context(), source)
	if err != nil && !errors.Is(err, content.ErrNotFound) {
		return fmt.Errorf("failed to load module: %w", err)
	}

	duration := 0.0
	if rec.Found() {
		duration, err = engine.ResolveDuration(rec, content.BaseDir(source))
		if err != nil {
			logErrf("failed to resolve media duration: %v\n", err)
		}
	}

	var hist tui.History
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("history disabled: failed to open db: %v\n", err)
	} else {
		hist = st
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}

	player := tui.NewModel(cfg, rec, duration, hist)
	program := tea.NewProgram(player, tea.WithAltScreen())
	_, runErr := program.Run()
	player.Close()
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	if player.Ended() {
		logErrln("Finished", displayTitle(rec))
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

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show listening history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N listens")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := history.BuildReport(context.Background(), st, model.HistoryConfig{Since: sinceTime, Last: historyLast})
	if err != nil {
		return fmt.Errorf("failed to build history: %w", err)
	}
	out := cmd.OutOrStdout()
	width := history.OutputWidth(out)
	if err := history.Render(out, report, width); err != nil {
		return err
	}
	return history.RenderDaily(out, history.DailyTotals(report), width)
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
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
	return fmt.Sprintf(`# tuicast configuration
# Uncomment a value to enable it. CLI flags override config values.

[player]
# skip = %.1f             # Skip step in seconds
# paragraph-size = %d     # Words per paragraph
# deadband = %.1f         # Rows the active word may drift from centre before scrolling
# tick-ms = %d           # Clock update interval in milliseconds
# autoplay = false        # Start playing immediately
# resume = true           # Continue from the last position
`,
		float64(defaultSkip),
		defaultParaSize,
		defaultDeadband,
		defaultTickMs,
	)
}

func validateConfig(cfg model.PlayerConfig) error {
	if cfg.Skip <= 0 {
		return fmt.Errorf("--skip must be > 0")
	}
	if cfg.ParagraphSize <= 0 {
		return fmt.Errorf("--paragraph-size must be > 0")
	}
	if cfg.Deadband < 0 {
		return fmt.Errorf("--deadband must be >= 0")
	}
	if cfg.Tick < 10*time.Millisecond {
		return fmt.Errorf("--tick must be >= 10")
	}
	return nil
}

func displayTitle(rec model.ModuleRecord) string {
	if rec.Title != "" {
		return rec.Title
	}
	return rec.ID
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
