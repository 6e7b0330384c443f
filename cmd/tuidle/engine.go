package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/tuidle/internal/config"
	"github.com/verte-zerg/tuidle/internal/dictionary"
	"github.com/verte-zerg/tuidle/internal/game"
	"github.com/verte-zerg/tuidle/internal/model"
	"github.com/verte-zerg/tuidle/internal/wordlist"
	"github.com/verte-zerg/tuidle/internal/wordsource"
)

const (
	dictionaryCacheSize = 4096
	requestTimeout      = 10 * time.Second
)

// engine bundles the collaborators a session needs besides the store.
type engine struct {
	words     game.WordSource
	validator game.Validator
	// timeout bounds each Start and Submit issued by the TUI.
	timeout time.Duration
}

func newEngine(fileCfg config.FileConfig, settings model.Settings, logger *zap.Logger) (engine, error) {
	if settings.Offline {
		return newOfflineEngine(settings.WordLength)
	}
	return newOnlineEngine(fileCfg.Providers, logger)
}

func newOfflineEngine(length int) (engine, error) {
	path := resolveWordListPath()
	words, err := wordlist.LoadWords(path, wordlist.FilterForLang(globalLang))
	if err != nil {
		return engine{}, wordListLoadError(globalLang, path, err)
	}
	offline := wordlist.NewOffline(words)
	if offline.Count(length) == 0 {
		return engine{}, fmt.Errorf("word list %s has no %d-letter words", path, length)
	}
	return engine{words: offline, validator: offline}, nil
}

func newOnlineEngine(cfg config.ProvidersConfig, logger *zap.Logger) (engine, error) {
	timeout := defaultProviderTimeout
	if cfg.Timeout != nil && strings.TrimSpace(*cfg.Timeout) != "" {
		parsed, err := time.ParseDuration(strings.TrimSpace(*cfg.Timeout))
		if err != nil {
			return engine{}, fmt.Errorf("invalid providers.timeout: %w", err)
		}
		if parsed < 0 {
			return engine{}, fmt.Errorf("providers.timeout must be >= 0")
		}
		timeout = parsed
	}

	client := &http.Client{Timeout: requestTimeout}
	opts := []wordsource.Option{wordsource.WithTimeout(timeout)}
	if cfg.RandomURL != nil {
		opts = append(opts, wordsource.WithRandomURL(*cfg.RandomURL))
	}
	if cfg.FrequencyURL != nil {
		opts = append(opts, wordsource.WithFrequencyURL(*cfg.FrequencyURL))
	}
	if cfg.MinFrequency != nil {
		opts = append(opts, wordsource.WithMinFrequency(*cfg.MinFrequency))
	}
	if cfg.MaxAttempts != nil {
		if *cfg.MaxAttempts <= 0 {
			return engine{}, fmt.Errorf("providers.max-attempts must be > 0")
		}
		opts = append(opts, wordsource.WithMaxAttempts(*cfg.MaxAttempts))
	}
	source := wordsource.New(client, logger, opts...)

	dictURL := dictionary.DefaultBaseURL
	if cfg.DictionaryURL != nil && *cfg.DictionaryURL != "" {
		dictURL = *cfg.DictionaryURL
	}
	validator, err := dictionary.New(dictURL, client, logger, dictionaryCacheSize)
	if err != nil {
		return engine{}, err
	}
	return engine{words: source, validator: validator, timeout: timeout}, nil
}

func resolveWordListPath() string {
	if globalWordList != "" {
		return globalWordList
	}
	return config.DefaultWordListPath(globalLang)
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: tuidle langs",
		"Or pass --word-list with one word per line",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}
