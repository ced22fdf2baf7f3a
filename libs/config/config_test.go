package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	HTTP struct {
		Port string `yaml:"port"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"TEST_DB_DSN"`
	} `yaml:"database"`
	Poll    time.Duration `yaml:"poll"`
	Retries int           `yaml:"retries"`
	Debug   bool          `yaml:"debug"`
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("TEST_DB_DSN", "postgres://localhost/test")
	t.Setenv("POLL", "45s")
	t.Setenv("RETRIES", "3")
	t.Setenv("DEBUG", "true")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "postgres://localhost/test", cfg.Database.DSN)
	assert.Equal(t, 45*time.Second, cfg.Poll)
	assert.Equal(t, 3, cfg.Retries)
	assert.True(t, cfg.Debug)
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  port: \"8081\"\ndatabase:\n  dsn: file-dsn\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TEST_DB_DSN", "env-dsn")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "8081", cfg.HTTP.Port)
	// Env beats file.
	assert.Equal(t, "env-dsn", cfg.Database.DSN)
}

func TestLoadRejectsNonPointer(t *testing.T) {
	assert.Error(t, Load(nil))
	assert.Error(t, Load(testConfig{}))
}

func TestLoadBadValue(t *testing.T) {
	t.Setenv("RETRIES", "many")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "RETRIES")
}
