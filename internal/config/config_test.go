package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "What is the compliance protocol you follow?", cfg.FirstQuestion)
	assert.Equal(t, 512, cfg.Embedding.MaxTokens)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "secsentry-events", cfg.Events.Topic)
	assert.Equal(t, "secsentry_responses", cfg.Store.Collection)
	assert.False(t, cfg.Auth.Enable)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("KNOWLEDGE_BASE_PATH", "/etc/secsentry/kb.json")
	t.Setenv("EMBEDDING_MAX_TOKENS", "256")
	t.Setenv("KAFKA_ENABLE", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "/etc/secsentry/kb.json", cfg.CatalogPath)
	assert.Equal(t, 256, cfg.Embedding.MaxTokens)
	assert.True(t, cfg.Events.Enable)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("KAFKA_ENABLE", "definitely")

	cfg := Load()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.False(t, cfg.Events.Enable)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.ServerPort = 0 },
			wantErr: "server_port",
		},
		{
			name:    "missing embedding endpoint",
			mutate:  func(c *Config) { c.Embedding.Endpoint = "" },
			wantErr: "embedding endpoint",
		},
		{
			name:    "non-positive max tokens",
			mutate:  func(c *Config) { c.Embedding.MaxTokens = 0 },
			wantErr: "max_tokens",
		},
		{
			name:    "empty first question",
			mutate:  func(c *Config) { c.FirstQuestion = "" },
			wantErr: "first_question",
		},
		{
			name: "kafka enabled without brokers",
			mutate: func(c *Config) {
				c.Events.Enable = true
				c.Events.Brokers = nil
			},
			wantErr: "no brokers",
		},
		{
			name: "auth enabled without secret",
			mutate: func(c *Config) {
				c.Auth.Enable = true
				c.Auth.SessionKey = "session"
			},
			wantErr: "JWT_SECRET",
		},
		{
			name: "auth enabled without session key",
			mutate: func(c *Config) {
				c.Auth.Enable = true
				c.Auth.JWTSecret = "secret"
			},
			wantErr: "SESSION_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
