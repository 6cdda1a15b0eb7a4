package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: \"7000\"\ndb_driver: postgres\nlog_format: json\n"), 0o644))

	t.Setenv("CONFIG_FILE", file)
	t.Setenv("DB_DRIVER", "MYSQL")
	t.Setenv("SALT_ROUND", "4")

	cfg := LoadConfig()

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 4, cfg.SaltRound)
	assert.Same(t, cfg, AppConfig)
}

func TestIntegrationFlags(t *testing.T) {
	cfg := Defaults()
	assert.False(t, cfg.StripeConfigured())
	assert.False(t, cfg.PayPalConfigured())
	assert.False(t, cfg.VimeoConfigured())

	cfg.VimeoClientID = "id"
	cfg.VimeoClientSecret = "secret"
	assert.False(t, cfg.VimeoConfigured())
	cfg.VimeoAccessToken = "token"
	assert.True(t, cfg.VimeoConfigured())
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("LEARNHUB_TEST_INT", "ten")
	assert.Equal(t, 10, getEnvInt("LEARNHUB_TEST_INT", 10))
	t.Setenv("LEARNHUB_TEST_BOOL", "yes-please")
	assert.True(t, getEnvBool("LEARNHUB_TEST_BOOL", true))
}
