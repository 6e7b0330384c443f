package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvRandomURL     = "TUIDLE_RANDOM_URL"
	EnvFrequencyURL  = "TUIDLE_FREQUENCY_URL"
	EnvDictionaryURL = "TUIDLE_DICTIONARY_URL"
	EnvStoreDriver   = "TUIDLE_STORE_DRIVER"
	EnvStoreDSN      = "TUIDLE_STORE_DSN"
	EnvUser          = "TUIDLE_USER"
	EnvDebug         = "TUIDLE_DEBUG"
)

// LoadDotEnv loads path (".env" when empty) into the environment without
// overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays TUIDLE_* variables onto cfg.
func ApplyEnv(cfg *FileConfig) {
	overrideString(&cfg.Providers.RandomURL, EnvRandomURL)
	overrideString(&cfg.Providers.FrequencyURL, EnvFrequencyURL)
	overrideString(&cfg.Providers.DictionaryURL, EnvDictionaryURL)
	overrideString(&cfg.Store.Driver, EnvStoreDriver)
	overrideString(&cfg.Store.DSN, EnvStoreDSN)
	overrideString(&cfg.Game.User, EnvUser)
}

// DebugEnabled reports whether TUIDLE_DEBUG is set to a true value.
func DebugEnabled() bool {
	v, err := strconv.ParseBool(os.Getenv(EnvDebug))
	return err == nil && v
}

func overrideString(dst **string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		val := v
		*dst = &val
	}
}
