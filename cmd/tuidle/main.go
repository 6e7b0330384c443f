// Package main provides the CLI entrypoint for tuidle.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuidle/internal/config"
	"github.com/verte-zerg/tuidle/internal/game"
	"github.com/verte-zerg/tuidle/internal/logging"
	"github.com/verte-zerg/tuidle/internal/model"
	"github.com/verte-zerg/tuidle/internal/store"
	"github.com/verte-zerg/tuidle/internal/tui"
)

const (
	defaultLang            = "en"
	defaultStoreDriver     = store.DriverSQLite
	defaultProviderTimeout = 20 * time.Second
	maxWordLength          = 15
)

var (
	playLength   int
	playGuesses  int
	playKeyboard bool
	playHard     bool

	globalUser     string
	globalOffline  bool
	globalWordList string
	globalLang     string
	globalStore    string
	globalDSN      string
	globalDebug    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuidle",
		Short:         "Guess the hidden word in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().IntVar(&playLength, "length", model.DefaultWordLength, "letters per word")
	rootCmd.Flags().IntVar(&playGuesses, "guesses", model.DefaultMaxGuesses, "guesses per game")
	rootCmd.Flags().BoolVar(&playKeyboard, "keyboard", true, "show the on-screen keyboard")
	rootCmd.Flags().BoolVar(&playHard, "hard", false, "revealed hints must be used in later guesses")

	rootCmd.PersistentFlags().StringVar(&globalUser, "user", model.Anonymous, "player name for statistics (empty plays anonymously)")
	rootCmd.PersistentFlags().BoolVar(&globalOffline, "offline", false, "use a local word list instead of the online providers")
	rootCmd.PersistentFlags().StringVar(&globalWordList, "word-list", "", "offline word list path (default: wordlists/<lang>.txt in the config dir)")
	rootCmd.PersistentFlags().StringVar(&globalLang, "lang", defaultLang, "offline word list language")
	rootCmd.PersistentFlags().StringVar(&globalStore, "store", defaultStoreDriver, "statistics store driver: sqlite, postgres or json")
	rootCmd.PersistentFlags().StringVar(&globalDSN, "dsn", "", "statistics store location (file path or postgres connection string)")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "write debug entries to the log file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newWordsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "length", &playLength, fileCfg.Game.Length)
	applyIntConfig(cmd, "guesses", &playGuesses, fileCfg.Game.Guesses)
	applyBoolConfig(cmd, "keyboard", &playKeyboard, fileCfg.Game.Keyboard)
	applyBoolConfig(cmd, "hard", &playHard, fileCfg.Game.Hard)

	settings := model.Settings{
		WordLength:     playLength,
		MaxGuesses:     playGuesses,
		Username:       globalUser,
		KeyboardActive: playKeyboard,
		HardMode:       playHard,
		Offline:        globalOffline,
	}
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

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	logger.Info("starting tuidle",
		zap.Int("length", settings.WordLength),
		zap.Int("guesses", settings.MaxGuesses),
		zap.Bool("offline", settings.Offline),
		zap.String("store", globalStore),
	)

	m := tui.NewModel(tui.Config{
		Settings: settings,
		NewSession: func() (*game.Session, error) {
			return game.New(settings, eng.words, eng.validator, st, game.WithLogger(logger))
		},
		Stats:   st,
		Logger:  logger,
		Timeout: eng.timeout,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadConfig merges .env, environment and the config file into the
// persistent flags that were not set explicitly.
func loadConfig(cmd *cobra.Command) (config.FileConfig, error) {
	if err := config.LoadDotEnv(""); err != nil {
		return config.FileConfig{}, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(&fileCfg)
	applyGlobalConfig(cmd, fileCfg)
	return fileCfg, nil
}

func applyGlobalConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "user", &globalUser, fileCfg.Game.User)
	applyBoolConfig(cmd, "offline", &globalOffline, fileCfg.Game.Offline)
	applyStringConfig(cmd, "word-list", &globalWordList, fileCfg.Game.WordList)
	applyStringConfig(cmd, "lang", &globalLang, fileCfg.Game.Lang)
	applyStringConfig(cmd, "store", &globalStore, fileCfg.Store.Driver)
	applyStringConfig(cmd, "dsn", &globalDSN, fileCfg.Store.DSN)
	if !cmd.Flags().Changed("debug") && config.DebugEnabled() {
		globalDebug = true
	}
}

func validateSettings(s model.Settings) error {
	if s.WordLength <= 0 || s.WordLength > maxWordLength {
		return fmt.Errorf("--length must be between 1 and %d", maxWordLength)
	}
	if s.MaxGuesses <= 0 {
		return fmt.Errorf("--guesses must be > 0")
	}
	return nil
}

func openStore() (store.Store, error) {
	driver := strings.ToLower(strings.TrimSpace(globalStore))
	dsn := globalDSN
	if dsn == "" {
		if driver == store.DriverPostgres {
			return nil, fmt.Errorf("--dsn is required for the postgres store")
		}
		dsn = config.DefaultStorePath(driver)
	}
	st, err := store.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open statistics store: %w", err)
	}
	return st, nil
}

func closeStore(st store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close statistics store: %v\n", cerr)
	}
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		// Best-effort flush of the log file.
		_ = err
	}
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
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
