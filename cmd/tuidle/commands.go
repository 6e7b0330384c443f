package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuidle/internal/config"
	"github.com/verte-zerg/tuidle/internal/hint"
	"github.com/verte-zerg/tuidle/internal/logging"
	"github.com/verte-zerg/tuidle/internal/model"
	"github.com/verte-zerg/tuidle/internal/stats"
	"github.com/verte-zerg/tuidle/internal/statsui"
	"github.com/verte-zerg/tuidle/internal/store"
)

var (
	statsAll   bool
	statsPlain bool

	wordsLength int
)

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

// ensureConfigFile writes the commented template unless path already exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List offline word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	dir := config.DefaultWordListDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logErrf("No word lists found. Put one word per line in %s\n", filepath.Join(dir, "<lang>.txt"))
			return fmt.Errorf("word list directory does not exist")
		}
		return fmt.Errorf("failed to read word list directory: %w", err)
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	if len(langs) == 0 {
		logErrf("No word lists found. Put one word per line in %s\n", filepath.Join(dir, "<lang>.txt"))
		return fmt.Errorf("no word lists found")
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsAll, "all", false, "include every stored player")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print to stdout instead of opening the viewer")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	guesses := model.DefaultMaxGuesses
	if fileCfg.Game.Guesses != nil && *fileCfg.Game.Guesses > 0 {
		guesses = *fileCfg.Game.Guesses
	}

	cfg := model.StatsConfig{
		Username: globalUser,
		All:      statsAll,
		Plain:    statsPlain,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if cfg.Plain {
		return printStats(cmd.Context(), cmd.OutOrStdout(), st, cfg, guesses)
	}

	m := statsui.NewModel(st, cfg, guesses)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStats(ctx context.Context, w io.Writer, st store.Store, cfg model.StatsConfig, guesses int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := st.Load(ctx, cfg.Username)
	if err != nil {
		return fmt.Errorf("failed to load statistics: %w", err)
	}
	if err := stats.RenderSummary(w, s); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderDistribution(w, s, stats.DistributionOptions{Buckets: guesses}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !cfg.All {
		return nil
	}
	all, err := st.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list statistics: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderPlayers(w, all); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score MYSTERY GUESS",
		Short: "Print the hints a guess earns against a mystery word",
		Args:  cobra.ExactArgs(2),
		RunE:  runScoreCmd,
	}
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	hints, err := hint.Score(strings.ToUpper(args[0]), strings.ToUpper(args[1]))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), hint.Format(hints)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Fetch one mystery word",
		Args:  cobra.NoArgs,
		RunE:  runWordsCmd,
	}
	cmd.Flags().IntVar(&wordsLength, "length", model.DefaultWordLength, "letters per word")
	return cmd
}

func runWordsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "length", &wordsLength, fileCfg.Game.Length)
	settings := model.DefaultSettings()
	settings.WordLength = wordsLength
	settings.Offline = globalOffline
	if err := validateSettings(settings); err != nil {
		return err
	}

	logger, err := logging.New(config.DefaultLogPath(), globalDebug)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer syncLogger(logger)

	eng, err := newEngine(fileCfg, settings, logger)
	if err != nil {
		return err
	}
	if !settings.Offline {
		logErrln("Fetching a word...")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	word, err := eng.words.MysteryWord(ctx, settings.WordLength)
	if err != nil {
		return fmt.Errorf("failed to fetch word: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), word); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
