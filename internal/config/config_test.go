package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SUBSCRIPTION_PRICE", "")
	t.Setenv("SUBSCRIPTION_DURATION_DAYS", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("SUBSCRIPTION_SWEEP_INTERVAL", "")
	t.Setenv("TRUST_PROXY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Zero(t, cfg.SweepInterval(), "фоновое продление выключено по умолчанию")
	assert.False(t, cfg.TrustProxy)

	assert.Equal(t, 4.99, cfg.PlanPrice)
	assert.Equal(t, 30, cfg.PlanDuration())
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, int64(3*1024*1024), cfg.AvatarMaxFileBytes)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SUBSCRIPTION_PRICE", "9.5")
	t.Setenv("SUBSCRIPTION_DURATION_DAYS", "14")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SUBSCRIPTION_SWEEP_INTERVAL", "2h")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.SweepInterval())
	assert.True(t, cfg.TrustProxy)

	assert.Equal(t, 9.5, cfg.PlanPrice)
	assert.Equal(t, 14, cfg.PlanDuration())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadConfig_BadNumber(t *testing.T) {
	t.Setenv("SUBSCRIPTION_PRICE", "free")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DbHost: "localhost", DbUser: "u", DbName: "d", JWTSecret: "s",
			PlanPrice: 4.99, PlanDurationDays: 30,
			JWTExpiresIn: "1h", SubscriptionSweepTTL: "1h", CacheTTL: "1m", RecsBreakerTimeout: "5s",
			Port: "8080",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"ok", func(c *Config) {}, false},
		{"no db host", func(c *Config) { c.DbHost = "" }, true},
		{"no jwt secret", func(c *Config) { c.JWTSecret = " " }, true},
		{"zero duration", func(c *Config) { c.PlanDurationDays = 0 }, true},
		{"bad ttl", func(c *Config) { c.CacheTTL = "soon" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			_, err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetDSNSafe_HidesPassword(t *testing.T) {
	c := &Config{DbUser: "u", DbPass: "secret", DbHost: "h", DbPort: "5432", DbName: "d", DbSSLMode: "disable"}
	assert.NotContains(t, c.GetDSNSafe(), "secret")
	assert.Contains(t, c.GetDSN(), "secret")
}
