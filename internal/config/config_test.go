package config

import (
	"testing"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("API_KEY", "k")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test")

	var cfg Config
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, "development", cfg.Environment.Name)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "https://api.stripe.com", cfg.Stripe.BaseAPIURL)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "applications", cfg.Cloudinary.Folder)
	assert.False(t, cfg.AllowUnverifiedTestPayments)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("API_KEY", "k")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_1")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_URL", "user:pass@tcp(localhost:3306)/portal")
	t.Setenv("ALLOW_UNVERIFIED_TEST_PAYMENTS", "true")
	t.Setenv("ENVIRONMENT", "production")

	var cfg Config
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "whsec_1", cfg.Stripe.WebhookSecret)
	assert.True(t, cfg.AllowUnverifiedTestPayments)
	assert.Equal(t, "production", cfg.Environment.Name)
}

func TestParseRequiresKeys(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test")

	var cfg Config
	assert.Error(t, env.Parse(&cfg))
}
