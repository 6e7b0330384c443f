package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Game.Length)

	_, err = LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[game]
length = 6
user = "alice"
hard = true

[providers]
min-frequency = 3.5
timeout = "5s"

[store]
driver = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Game.Length)
	assert.Equal(t, 6, *cfg.Game.Length)
	assert.Equal(t, "alice", *cfg.Game.User)
	assert.True(t, *cfg.Game.Hard)
	assert.Nil(t, cfg.Game.Guesses)
	assert.InDelta(t, 3.5, *cfg.Providers.MinFrequency, 1e-9)
	assert.Equal(t, "5s", *cfg.Providers.Timeout)
	assert.Equal(t, "json", *cfg.Store.Driver)
	assert.Nil(t, cfg.Store.DSN)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[game]\nwords = 10\n"), 0o644))
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "game.words")
}

func TestTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(Template), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, cfg)
}

func TestApplyEnvOverridesFile(t *testing.T) {
	driver := "sqlite"
	cfg := FileConfig{Store: StoreConfig{Driver: &driver}}
	t.Setenv(EnvStoreDriver, "postgres")
	t.Setenv(EnvStoreDSN, "postgres://localhost/tuidle")
	t.Setenv(EnvRandomURL, "")

	ApplyEnv(&cfg)
	assert.Equal(t, "postgres", *cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/tuidle", *cfg.Store.DSN)
	assert.Nil(t, cfg.Providers.RandomURL)
	assert.Equal(t, "sqlite", driver)
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TUIDLE_USER=bob\nTUIDLE_STORE_DRIVER=json\n"), 0o644))
	t.Setenv(EnvUser, "alice")
	t.Setenv(EnvStoreDriver, "")
	require.NoError(t, os.Unsetenv(EnvStoreDriver))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "alice", os.Getenv(EnvUser))
	assert.Equal(t, "json", os.Getenv(EnvStoreDriver))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")

	assert.Equal(t, filepath.Join("/cfg", "tuidle", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/cfg", "tuidle", "wordlists", "en.txt"), DefaultWordListPath("en"))
	assert.Equal(t, filepath.Join("/data", "tuidle", "tuidle.db"), DefaultStorePath("sqlite"))
	assert.Equal(t, filepath.Join("/data", "tuidle", "statistics.json"), DefaultStorePath("json"))
	assert.Equal(t, filepath.Join("/state", "tuidle", "tuidle.log"), DefaultLogPath())
}
