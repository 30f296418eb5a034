package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Server.MaxUploadMB)
	assert.Equal(t, 10*time.Minute, cfg.Server.CacheTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.False(t, cfg.Parse.KeepPayments)
}

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = "9090"
	cfg.Batch.Workers = 8
	cfg.Parse.KeepPayments = true

	path := filepath.Join(t.TempDir(), "statement-parser.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement-parser.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\nserver:\n  cache_ttl: 30s\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", got.Log.Level)
	assert.Equal(t, 30*time.Second, got.Server.CacheTTL)
	assert.Equal(t, "8080", got.Server.Port)
	assert.Equal(t, 4, got.Batch.Workers)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("STATEMENT_PORT", "3000")
	t.Setenv("STATEMENT_LOG_LEVEL", "debug")
	t.Setenv("STATEMENT_LOG_JSON", "true")
	t.Setenv("STATEMENT_WORKERS", "2")
	t.Setenv("STATEMENT_CACHE_TTL", "1m")
	t.Setenv("STATEMENT_MAX_UPLOAD_MB", "5")
	t.Setenv("STATEMENT_KEEP_PAYMENTS", "1")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, time.Minute, cfg.Server.CacheTTL)
	assert.Equal(t, 5, cfg.Server.MaxUploadMB)
	assert.True(t, cfg.Parse.KeepPayments)
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"STATEMENT_WORKERS", "zero"},
		{"STATEMENT_WORKERS", "0"},
		{"STATEMENT_CACHE_TTL", "soon"},
		{"STATEMENT_MAX_UPLOAD_MB", "-1"},
		{"STATEMENT_KEEP_PAYMENTS", "maybe"},
		{"STATEMENT_LOG_JSON", "yes please"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			assert.Error(t, Default().ApplyEnv())
		})
	}
}

func TestResolve_ExplicitMissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement-parser.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"7000\"\n"), 0o644))
	t.Setenv("STATEMENT_PORT", "7001")

	cfg, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "7001", cfg.Server.Port)
}
