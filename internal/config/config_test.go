package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv(envOf(nil))

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.Warnings)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg := FromEnv(envOf(map[string]string{
		"PORT":                 "8081",
		"LOG_LEVEL":            "DEBUG",
		"LOG_FORMAT":           "json",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"SHUTDOWN_TIMEOUT":     "10s",
	}))

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnvInvalidValuesFallBack(t *testing.T) {
	cfg := FromEnv(envOf(map[string]string{
		"PORT":             "http",
		"SHUTDOWN_TIMEOUT": "soon",
	}))

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{
		`invalid PORT "http", using default 3000`,
		`invalid SHUTDOWN_TIMEOUT "soon", using default 5s`,
	}, cfg.Warnings)

	cfg = FromEnv(envOf(map[string]string{"PORT": "70000"}))
	assert.Equal(t, 3000, cfg.Port)
}

func TestLoadReadsProcessEnv(t *testing.T) {
	t.Setenv("PORT", "4242")

	assert.Equal(t, 4242, Load().Port)
}

func TestLoadDotEnvMissingFileIsSilent(t *testing.T) {
	assert.Empty(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadDotEnvMalformedFileWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(path, []byte("TODO_BAD_QUOTE=\"unterminated\n"), 0o600))

	warnings := loadDotEnv(path)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "ignoring env file")
}

func TestLoadDotEnvSetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.env")
	require.NoError(t, os.WriteFile(path, []byte("TODO_DOTENV_CHECK=yes\n"), 0o600))
	t.Setenv("TODO_DOTENV_CHECK", "")
	require.NoError(t, os.Unsetenv("TODO_DOTENV_CHECK"))

	assert.Empty(t, loadDotEnv(path))
	assert.Equal(t, "yes", os.Getenv("TODO_DOTENV_CHECK"))
}
