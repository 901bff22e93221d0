package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no stray .env

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsProduction)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, "household-ledger", cfg.JWTIssuer)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "general", cfg.DefaultExpenseCategory)
	assert.Zero(t, cfg.InvoiceDueDays)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, "300-M", cfg.RateLimit)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PGSQL_URL", "postgres://ledger@localhost/ledger")
	t.Setenv("PORT", "9090")
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY_DURATION", "15m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DEFAULT_EXPENSE_CATEGORY", "household")
	t.Setenv("INVOICE_DUE_DAYS", "14")
	t.Setenv("PROVISION_ADMIN_EMAIL", "admin@example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://ledger@localhost/ledger", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "household", cfg.DefaultExpenseCategory)
	assert.Equal(t, 14, cfg.InvoiceDueDays)
	assert.Equal(t, "admin@example.com", cfg.ProvisionAdminEmail)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_EXPIRY_DURATION", "forever")
	t.Setenv("INVOICE_DUE_DAYS", "-3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Zero(t, cfg.InvoiceDueDays)
}

func TestLoadConfig_RateLimit(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("RATE_LIMIT", "off")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "off", cfg.RateLimit)

	t.Setenv("RATE_LIMIT", "10-H")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "10-H", cfg.RateLimit)

	t.Setenv("RATE_LIMIT", "lots")
	cfg, err = LoadConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "RATE_LIMIT")
}
