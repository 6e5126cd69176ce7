package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("STRIPE_WEBHOOK_TOLERANCE_SECONDS", "60")

	cfg := Load()

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, time.Minute, cfg.Stripe.Tolerance)
	assert.Equal(t, cfg.App.FrontendURL+"/auth/callback", cfg.OAuth.FrontendSuccessURL)
}

func TestValidate(t *testing.T) {
	cfg := &Config{App: AppConfig{Env: "production"}, JWT: JWTConfig{Secret: "change-this-secret-in-production"}}
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "s3cret"
	assert.Error(t, cfg.Validate(), "stripe secret required in production")

	cfg.Stripe.WebhookSecret = "whsec_x"
	assert.NoError(t, cfg.Validate())

	dev := &Config{App: AppConfig{Env: "development"}}
	assert.NoError(t, dev.Validate())
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "shop", Port: "5432", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=shop port=5432 sslmode=disable TimeZone=UTC", db.DSN())
}
