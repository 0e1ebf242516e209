package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://localhost/itinera")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "+91", cfg.DefaultCountryCode)
	assert.Equal(t, NotifyProviderNoop, cfg.NotifyProvider)
	assert.Equal(t, time.Second, cfg.NotifyDelay)
	assert.Equal(t, AssistantCanned, cfg.AssistantProvider)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("NOTIFY_DELAY", "250ms")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("NOTIFY_CHANNEL", "SMS")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.NotifyDelay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, NotifyChannelSMS, cfg.NotifyChannel)
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_TTL", "forever")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "JWT_TTL")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			PostgresURL:        "postgres://x",
			JWTSecret:          "s",
			MaxUploadBytes:     1,
			DefaultCountryCode: "+91",
			NotifyProvider:     NotifyProviderNoop,
			NotifyChannel:      NotifyChannelWhatsApp,
			AssistantProvider:  AssistantCanned,
		}
	}

	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing db", func(c *Config) { c.PostgresURL = "" }, "POSTGRES_URL"},
		{"twilio without creds", func(c *Config) { c.NotifyProvider = NotifyProviderTwilio }, "TWILIO_SID"},
		{"unknown assistant", func(c *Config) { c.AssistantProvider = "bard" }, "ASSISTANT_PROVIDER"},
		{"country code", func(c *Config) { c.DefaultCountryCode = "91" }, "DEFAULT_COUNTRY_CODE"},
		{"embeddings without key", func(c *Config) { c.EmbeddingsEnabled = true }, "EMBEDDINGS_ENABLED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
