package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.AllowedOrigins)
}

func TestLoad_EnvironmentFallback(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_PATH", "/tmp/ledger.db")
	t.Setenv("OWNER_NAME", "Suvra")
	t.Setenv("CURRENCY", "usd")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/ledger.db", cfg.DBPath)
	assert.Equal(t, "Suvra", cfg.OwnerName)
	assert.Equal(t, "USD", cfg.Currency)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_PATH", "/tmp/ledger.db")

	cfg, err := Load([]string{"-port=3000", "-db=:memory:", "-origins= https://a.example , ,https://b.example"})
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_BadFlag(t *testing.T) {
	_, err := Load([]string{"-port=abc"})
	assert.Error(t, err)
}
