package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DEFAULT_HOST             = "0.0.0.0"
	DEFAULT_PORT             = 8000
	DEFAULT_BATCH_SIZE       = 10
	DEFAULT_SCORE_WORKERS    = 4
	DEFAULT_MAX_UPLOAD_BYTES = 32 << 20
	DEFAULT_SCORE_CACHE_TTL  = 24 * time.Hour
	DEFAULT_SCORER_TIMEOUT   = 10 * time.Second

	SCORER_VADER  = "vader"
	SCORER_REMOTE = "remote"
)

type Config struct {
	Host           string
	Port           int
	LogLevel       string
	BatchSize      int
	ScoreWorkers   int
	MaxUploadBytes int64
	StripMarkdown  bool
	Scorer         ScorerConfig
	Valkey         ValkeyConfig
}

// ScorerConfig selects the scoring backend. The remote backend posts each
// text to URL and expects polarity and subjectivity back.
type ScorerConfig struct {
	Kind    string
	URL     string
	Timeout time.Duration
}

type ValkeyConfig struct {
	Address  string
	Password string
	UseTLS   bool
	TTL      time.Duration
}

// Enabled reports whether a score cache should be wired in.
func (v ValkeyConfig) Enabled() bool {
	return v.Address != ""
}

// Load reads the service configuration from the environment. Unparseable
// values fall back to their defaults with a warning.
func Load() Config {
	return Config{
		Host:           envString("HOST", DEFAULT_HOST),
		Port:           envInt("PORT", DEFAULT_PORT),
		LogLevel:       envString("LOG_LEVEL", "info"),
		BatchSize:      envInt("BATCH_SIZE", DEFAULT_BATCH_SIZE),
		ScoreWorkers:   envInt("SCORE_WORKERS", DEFAULT_SCORE_WORKERS),
		MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", DEFAULT_MAX_UPLOAD_BYTES)),
		StripMarkdown:  envBool("STRIP_MARKDOWN", true),
		Scorer: ScorerConfig{
			Kind:    strings.ToLower(envString("SCORER", SCORER_VADER)),
			URL:     os.Getenv("SCORER_URL"),
			Timeout: time.Duration(envInt("SCORER_TIMEOUT", int(DEFAULT_SCORER_TIMEOUT/time.Second))) * time.Second,
		},
		Valkey: ValkeyConfig{
			Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			UseTLS:   os.Getenv("VALKEY_TLS") == "true",
			TTL:      time.Duration(envInt("SCORE_CACHE_TTL", int(DEFAULT_SCORE_CACHE_TTL/time.Second))) * time.Second,
		},
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize))
	}
	if c.ScoreWorkers < 1 {
		errs = append(errs, fmt.Errorf("SCORE_WORKERS must be positive, got %d", c.ScoreWorkers))
	}
	if c.MaxUploadBytes < 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be >= 0, got %d", c.MaxUploadBytes))
	}
	switch c.Scorer.Kind {
	case SCORER_VADER:
	case SCORER_REMOTE:
		if c.Scorer.URL == "" {
			errs = append(errs, errors.New("SCORER_URL is required when SCORER=remote"))
		}
		if c.Scorer.Timeout <= 0 {
			errs = append(errs, fmt.Errorf("SCORER_TIMEOUT must be positive, got %s", c.Scorer.Timeout))
		}
	default:
		errs = append(errs, fmt.Errorf("SCORER must be %q or %q, got %q", SCORER_VADER, SCORER_REMOTE, c.Scorer.Kind))
	}
	if c.Valkey.Enabled() && c.Valkey.TTL <= 0 {
		errs = append(errs, fmt.Errorf("SCORE_CACHE_TTL must be positive, got %s", c.Valkey.TTL))
	}
	return errors.Join(errs...)
}

// Addr is the host:port the HTTP server binds to.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", fallback))
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("[Config] Invalid boolean, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Bool("default", fallback))
		return fallback
	}
	return v
}
