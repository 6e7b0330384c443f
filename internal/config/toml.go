// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game      GameConfig      `toml:"game"`
	Providers ProvidersConfig `toml:"providers"`
	Store     StoreConfig     `toml:"store"`
}

// GameConfig maps board and player settings.
type GameConfig struct {
	Length   *int    `toml:"length"`
	Guesses  *int    `toml:"guesses"`
	User     *string `toml:"user"`
	Keyboard *bool   `toml:"keyboard"`
	Hard     *bool   `toml:"hard"`
	Offline  *bool   `toml:"offline"`
	WordList *string `toml:"word-list"`
	Lang     *string `toml:"lang"`
}

// ProvidersConfig maps the remote word services.
type ProvidersConfig struct {
	RandomURL     *string  `toml:"random-url"`
	FrequencyURL  *string  `toml:"frequency-url"`
	DictionaryURL *string  `toml:"dictionary-url"`
	MinFrequency  *float64 `toml:"min-frequency"`
	MaxAttempts   *int     `toml:"max-attempts"`
	Timeout       *string  `toml:"timeout"`
}

// StoreConfig maps the statistics store.
type StoreConfig struct {
	Driver *string `toml:"driver"`
	DSN    *string `toml:"dsn"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is written by `tuidle config` when no file exists yet.
const Template = `# tuidle configuration

[game]
# length = 5
# guesses = 6
# user = ""
# keyboard = true
# hard = false
# offline = false
# word-list = ""
# lang = "en"

[providers]
# random-url = "https://random-word-api.herokuapp.com"
# frequency-url = "https://api.datamuse.com"
# dictionary-url = "https://api.dictionaryapi.dev/api/v2/entries/en"
# min-frequency = 2.5
# max-attempts = 10
# timeout = "20s"

[store]
# driver = "sqlite" # sqlite, postgres or json
# dsn = ""
`
