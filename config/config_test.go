package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("DB_NAME", "prestige_test")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, "https://api-m.sandbox.paypal.com", cfg.PayPalBaseURL)
	assert.Equal(t, 30, cfg.DownloadExpiryDays)
	assert.Equal(t, 10, cfg.DefaultMaxDownloads)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("DB_NAME", "prestige_test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("CURRENCY", "SAR")
	t.Setenv("DEFAULT_MAX_DOWNLOADS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "SAR", cfg.Currency)
	assert.Equal(t, 3, cfg.DefaultMaxDownloads)
}
