package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/spacesedan/sentilytics/config"
)

const (
	VALKEY_RETRIES     = 3
	VALKEY_RETRY_DELAY = 250 * time.Millisecond
	VALKEY_PING_WAIT   = 3 * time.Second
)

// ValkeyClient is the score cache backend. It is safe for concurrent use and
// rebuilds its connection after connection-level failures.
type ValkeyClient struct {
	client valkey.Client
	cfg    config.ValkeyConfig
	mu     sync.RWMutex
}

func NewValkeyClient(cfg config.ValkeyConfig) (*ValkeyClient, error) {
	client, err := dialValkey(cfg)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.Address))

	return &ValkeyClient{client: client, cfg: cfg}, nil
}

func dialValkey(cfg config.ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.Address,
		},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
		DisableCache:     true,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), VALKEY_PING_WAIT)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	return client, nil
}

func (vc *ValkeyClient) current() valkey.Client {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.client
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := dialValkey(vc.cfg)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.client.Close()
	vc.client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) Close() {
	vc.current().Close()
}

// Get returns the value at key and whether it existed.
func (vc *ValkeyClient) Get(ctx context.Context, key string) ([]byte, bool, error) {
	client := vc.current()
	res := vc.DoWithRetry(ctx, client.B().Get().Key(key).Build().Pin(), VALKEY_RETRIES)

	value, err := res.AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value at key, expiring after ttl.
func (vc *ValkeyClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	client := vc.current()
	// pinned so the retry loop can resend it
	cmd := client.B().Set().Key(key).Value(valkey.BinaryString(value)).ExSeconds(int64(ttl / time.Second)).Build().Pin()

	return vc.DoWithRetry(ctx, cmd, VALKEY_RETRIES).Error()
}

func (vc *ValkeyClient) Ping(ctx context.Context) error {
	client := vc.current()
	err := client.Do(ctx, client.B().Ping().Build()).Error()
	if isConnectionError(err) {
		vc.recreateClient()
	}
	return err
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.current().Do(ctx, completed)
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}

		if i == retries-1 || !sleepCtx(ctx, VALKEY_RETRY_DELAY) {
			break
		}
	}

	return result
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
