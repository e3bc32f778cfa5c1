// Package main provides the CLI entrypoint for reactime.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/reactime/internal/config"
	"github.com/verte-zerg/reactime/internal/generator"
	"github.com/verte-zerg/reactime/internal/keys"
	"github.com/verte-zerg/reactime/internal/model"
	"github.com/verte-zerg/reactime/internal/stats"
	"github.com/verte-zerg/reactime/internal/trial"
	"github.com/verte-zerg/reactime/internal/tui"
)

const (
	defaultTrials      = 5
	defaultMinDelay    = 2 * time.Second
	defaultMaxDelay    = 5 * time.Second
	defaultMinVisible  = 2 * time.Second
	defaultMaxVisible  = 6 * time.Second
	defaultFinishPause = 3 * time.Second
	defaultKey         = "space"
	defaultRelease     = model.ReleaseKitty
	defaultReleaseGap  = 600 * time.Millisecond
)

var (
	runTrials      int
	runMinDelay    time.Duration
	runMaxDelay    time.Duration
	runMinVisible  time.Duration
	runMaxVisible  time.Duration
	runFinishPause time.Duration
	runKey         string
	runRelease     string
	runReleaseGap  time.Duration
	runSeed        int64
	runConfigPath  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "reactime",
		Short:         "Terminal reaction time test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSessionCmd,
	}

	rootCmd.Flags().IntVar(&runTrials, "trials", defaultTrials, "number of trials")
	rootCmd.Flags().DurationVar(&runMinDelay, "min-delay", defaultMinDelay, "shortest wait before a stimulus")
	rootCmd.Flags().DurationVar(&runMaxDelay, "max-delay", defaultMaxDelay, "longest wait before a stimulus")
	rootCmd.Flags().DurationVar(&runMinVisible, "min-visible", defaultMinVisible, "shortest time a stimulus stays visible")
	rootCmd.Flags().DurationVar(&runMaxVisible, "max-visible", defaultMaxVisible, "longest time a stimulus stays visible")
	rootCmd.Flags().DurationVar(&runFinishPause, "finish-pause", defaultFinishPause, "how long the results stay on screen")
	rootCmd.Flags().StringVar(&runKey, "key", defaultKey, "response key (space, enter, tab or a single character)")
	rootCmd.Flags().StringVar(&runRelease, "release", defaultRelease, "key release detection: kitty or repeat")
	rootCmd.Flags().DurationVar(&runReleaseGap, "release-gap", defaultReleaseGap, "silence after the last key repeat that counts as a release")
	rootCmd.Flags().Int64Var(&runSeed, "seed", 0, "random seed (0 uses the clock)")
	rootCmd.PersistentFlags().StringVar(&runConfigPath, "config", "", "config file (.toml, .yaml or .yml)")

	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	code, err := keys.ParseKey(cfg.Key)
	if err != nil {
		return fmt.Errorf("invalid --key: %w", err)
	}

	delay := generator.Range{Min: cfg.MinDelay, Max: cfg.MaxDelay}
	visible := generator.Range{Min: cfg.MinVisible, Max: cfg.MaxVisible}
	var gen *generator.Generator
	if cfg.Seed != 0 {
		gen = generator.NewSeeded(delay, visible, cfg.Seed)
	} else {
		gen = generator.New(delay, visible)
	}
	session, err := trial.NewSession(cfg.Trials, gen)
	if err != nil {
		return err
	}

	ui := tui.NewModel(session, tui.Options{
		Key:         code,
		ReleaseMode: cfg.ReleaseMode,
		ReleaseGap:  cfg.ReleaseGap,
		FinishPause: cfg.FinishPause,
	})
	if err := runProgram(ui, code, cfg.ReleaseMode); err != nil {
		return err
	}
	if err := ui.Err(); err != nil {
		return err
	}

	res, ok := ui.Result()
	if !ok {
		logErrln("aborted; no results recorded")
		return nil
	}
	return stats.RenderReport(cmd.OutOrStdout(), res)
}

func runProgram(ui *tui.Model, code rune, releaseMode string) error {
	if releaseMode != model.ReleaseKitty {
		program := tea.NewProgram(ui)
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		return nil
	}

	restore, err := keys.MakeRaw(os.Stdin)
	if err != nil {
		return fmt.Errorf("kitty key release detection needs a terminal (try --release repeat): %w", err)
	}
	defer func() {
		if rerr := restore(); rerr != nil {
			logErrf("failed to restore terminal: %v\n", rerr)
		}
	}()
	if err := keys.EnableKitty(os.Stdout); err != nil {
		return fmt.Errorf("failed to enable key release reports: %w", err)
	}
	defer func() {
		if derr := keys.DisableKitty(os.Stdout); derr != nil {
			logErrf("failed to disable key release reports: %v\n", derr)
		}
	}()

	var program *tea.Program
	input := keys.NewFilter(os.Stdin, code, func(ev keys.Event) {
		program.Send(tui.KeyEventMsg(ev))
	})
	program = tea.NewProgram(ui, tea.WithInput(input))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	path := runConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	session := fileCfg.Session
	input := fileCfg.Input
	applyIntConfig(cmd, "trials", &runTrials, session.Trials)
	applyInt64Config(cmd, "seed", &runSeed, session.Seed)
	applyStringConfig(cmd, "key", &runKey, input.Key)
	applyStringConfig(cmd, "release", &runRelease, input.Release)
	durations := []struct {
		name   string
		target *time.Duration
		value  *string
	}{
		{"min-delay", &runMinDelay, session.MinDelay},
		{"max-delay", &runMaxDelay, session.MaxDelay},
		{"min-visible", &runMinVisible, session.MinVisible},
		{"max-visible", &runMaxVisible, session.MaxVisible},
		{"finish-pause", &runFinishPause, session.FinishPause},
		{"release-gap", &runReleaseGap, input.ReleaseGap},
	}
	for _, d := range durations {
		if err := applyDurationConfig(cmd, d.name, d.target, d.value); err != nil {
			return model.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
	}

	return model.Config{
		Trials:      runTrials,
		MinDelay:    runMinDelay,
		MaxDelay:    runMaxDelay,
		MinVisible:  runMinVisible,
		MaxVisible:  runMaxVisible,
		FinishPause: runFinishPause,
		Key:         runKey,
		ReleaseMode: strings.ToLower(strings.TrimSpace(runRelease)),
		ReleaseGap:  runReleaseGap,
		Seed:        runSeed,
	}, nil
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
	path := runConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := ensureConfigFile(path); err != nil {
		return err
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

func ensureConfigFile(path string) error {
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

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil || cmd.Flags().Changed(name) {
		return nil
	}
	d, err := config.ParseDuration(name, value)
	if err != nil {
		return err
	}
	*target = *d
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# reactime configuration
# Uncomment a value to enable it. CLI flags override config values.

[session]
# trials = %d              # Number of trials
# min-delay = %q         # Shortest wait before a stimulus
# max-delay = %q         # Longest wait before a stimulus
# min-visible = %q       # Shortest time a stimulus stays visible
# max-visible = %q       # Longest time a stimulus stays visible
# finish-pause = %q      # How long the results stay on screen
# seed = 0                # Random seed (0 uses the clock)

[input]
# key = %q            # Response key
# release = %q        # Key release detection: kitty or repeat
# release-gap = %q   # Silence after the last key repeat that counts as a release
`,
		defaultTrials,
		defaultMinDelay.String(),
		defaultMaxDelay.String(),
		defaultMinVisible.String(),
		defaultMaxVisible.String(),
		defaultFinishPause.String(),
		defaultKey,
		defaultRelease,
		defaultReleaseGap.String(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Trials <= 0 {
		return fmt.Errorf("--trials must be > 0")
	}
	if cfg.MinDelay < 0 {
		return fmt.Errorf("--min-delay must be >= 0")
	}
	if cfg.MaxDelay < cfg.MinDelay {
		return fmt.Errorf("--max-delay must be >= --min-delay")
	}
	if cfg.MinVisible <= 0 {
		return fmt.Errorf("--min-visible must be > 0")
	}
	if cfg.MaxVisible < cfg.MinVisible {
		return fmt.Errorf("--max-visible must be >= --min-visible")
	}
	if cfg.FinishPause < 0 {
		return fmt.Errorf("--finish-pause must be >= 0")
	}
	switch cfg.ReleaseMode {
	case model.ReleaseKitty, model.ReleaseRepeat:
	default:
		return fmt.Errorf("--release must be %q or %q", model.ReleaseKitty, model.ReleaseRepeat)
	}
	if cfg.ReleaseGap <= 0 {
		return fmt.Errorf("--release-gap must be > 0")
	}
	return nil
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
