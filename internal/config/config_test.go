package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("FRONTEND_URL", "https://app.sumii.de/")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "not-a-number")

	cfg := Load()

	assert.Equal(t, "", cfg.App.Port)
	assert.Equal(t, "https://app.sumii.de", cfg.App.FrontendURL)
	assert.Equal(t, 60, cfg.JWT.ExpireMinutes)
	assert.Equal(t, "eu-central-1", cfg.Storage.Region)
	assert.Equal(t, time.Second, cfg.SSE.PollInterval)
	assert.Contains(t, cfg.Mistral.Agents, "router")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SSE_POLL_INTERVAL", "250ms")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("RATE_LIMIT_CHAT_PER_SECOND", "2.5")
	t.Setenv("MISTRAL_ROUTER_AGENT_ID", "ag_router")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.SSE.PollInterval)
	assert.True(t, cfg.Otel.Enabled)
	assert.Equal(t, 2.5, cfg.RateLimit.ChatPerSecond)
	assert.Equal(t, "ag_router", cfg.Mistral.Agents["router"])
	assert.True(t, cfg.IsProduction())
}
