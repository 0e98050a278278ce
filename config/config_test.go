package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"HOST", "PORT", "LOG_LEVEL", "BATCH_SIZE", "SCORE_WORKERS",
		"MAX_UPLOAD_BYTES", "STRIP_MARKDOWN", "VALKEY_INIT_ADDRESS", "SCORE_CACHE_TTL",
		"SCORER", "SCORER_URL", "SCORER_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, DEFAULT_HOST, cfg.Host)
	assert.Equal(t, DEFAULT_PORT, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DEFAULT_BATCH_SIZE, cfg.BatchSize)
	assert.Equal(t, DEFAULT_SCORE_WORKERS, cfg.ScoreWorkers)
	assert.Equal(t, int64(DEFAULT_MAX_UPLOAD_BYTES), cfg.MaxUploadBytes)
	assert.True(t, cfg.StripMarkdown)
	assert.False(t, cfg.Valkey.Enabled())
	assert.Equal(t, DEFAULT_SCORE_CACHE_TTL, cfg.Valkey.TTL)
	assert.Equal(t, SCORER_VADER, cfg.Scorer.Kind)
	assert.Equal(t, DEFAULT_SCORER_TIMEOUT, cfg.Scorer.Timeout)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("BATCH_SIZE", "not-a-number")
	t.Setenv("STRIP_MARKDOWN", "false")
	t.Setenv("VALKEY_INIT_ADDRESS", "localhost:6379")
	t.Setenv("SCORE_CACHE_TTL", "60")
	t.Setenv("SCORER", "Remote")
	t.Setenv("SCORER_URL", "http://scorer:9000/score")

	cfg := Load()

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, DEFAULT_BATCH_SIZE, cfg.BatchSize)
	assert.False(t, cfg.StripMarkdown)
	assert.True(t, cfg.Valkey.Enabled())
	assert.Equal(t, time.Minute, cfg.Valkey.TTL)
	assert.Equal(t, SCORER_REMOTE, cfg.Scorer.Kind)
	assert.Equal(t, "http://scorer:9000/score", cfg.Scorer.URL)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:         8000,
		BatchSize:    10,
		ScoreWorkers: 4,
		Scorer:       ScorerConfig{Kind: SCORER_VADER, Timeout: DEFAULT_SCORER_TIMEOUT},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Port = 0 }, wantErr: "PORT"},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "PORT"},
		{name: "batch size zero", mutate: func(c *Config) { c.BatchSize = 0 }, wantErr: "BATCH_SIZE"},
		{name: "no workers", mutate: func(c *Config) { c.ScoreWorkers = 0 }, wantErr: "SCORE_WORKERS"},
		{name: "negative upload limit", mutate: func(c *Config) { c.MaxUploadBytes = -1 }, wantErr: "MAX_UPLOAD_BYTES"},
		{name: "unknown scorer", mutate: func(c *Config) { c.Scorer.Kind = "bert" }, wantErr: "SCORER"},
		{name: "remote without url", mutate: func(c *Config) { c.Scorer.Kind = SCORER_REMOTE }, wantErr: "SCORER_URL"},
		{
			name: "cache without ttl",
			mutate: func(c *Config) {
				c.Valkey.Address = "localhost:6379"
				c.Valkey.TTL = 0
			},
			wantErr: "SCORE_CACHE_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
