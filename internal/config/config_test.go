package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDefaults(t *testing.T) {
	// Run from a temp dir so a developer's local config.yaml is not picked up.
	t.Chdir(t.TempDir())

	cfg, err := Initialize()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "EUR", cfg.Currency.Fallback)
	assert.Equal(t, "data", cfg.Data.Directory)
	assert.Equal(t, ":8050", cfg.Server.Addr)
	assert.False(t, cfg.AI.Enabled)
}

func TestInitializeEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BUDGET_LOG_LEVEL", "debug")
	t.Setenv("BUDGET_CURRENCY_FALLBACK", "CHF")

	cfg, err := Initialize()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "CHF", cfg.Currency.Fallback)
}

func TestInitializeRejectsBadLevel(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BUDGET_LOG_LEVEL", "loud")

	_, err := Initialize()
	assert.Error(t, err)
}

func TestInitializeAIRequiresKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BUDGET_AI_ENABLED", "true")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Initialize()
	assert.Error(t, err)
}
