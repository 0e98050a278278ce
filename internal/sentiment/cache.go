package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"
)

const SCORE_CACHE_PREFIX = "sentiment:scores:"

// Cache is the byte-level store behind CachingScorer.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachingScorer memoizes a deterministic Scorer. Cache failures never fail a
// request; the wrapped scorer is used instead.
type CachingScorer struct {
	next    Scorer
	cache   Cache
	variant string
	ttl     time.Duration
	healthy *atomic.Bool
}

// NewCachingScorer wraps next. variant namespaces keys so differently
// configured scorers never share entries. healthy may be nil; when it is
// false the cache is bypassed entirely.
func NewCachingScorer(next Scorer, cache Cache, variant string, ttl time.Duration, healthy *atomic.Bool) *CachingScorer {
	return &CachingScorer{
		next:    next,
		cache:   cache,
		variant: variant,
		ttl:     ttl,
		healthy: healthy,
	}
}

func (c *CachingScorer) Score(ctx context.Context, text string) (Scores, error) {
	if c.healthy != nil && !c.healthy.Load() {
		return c.next.Score(ctx, text)
	}

	key := c.key(text)

	raw, found, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("[ScoreCache] Cache lookup failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	if found {
		var cached Scores
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		slog.Warn("[ScoreCache] Discarding undecodable cache entry",
			slog.String("key", key))
	}

	scores, err := c.next.Score(ctx, text)
	if err != nil {
		return Scores{}, err
	}

	encoded, err := json.Marshal(scores)
	if err != nil {
		return scores, nil
	}
	if err := c.cache.Set(ctx, key, encoded, c.ttl); err != nil {
		slog.Warn("[ScoreCache] Cache store failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	return scores, nil
}

func (c *CachingScorer) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return SCORE_CACHE_PREFIX + c.variant + ":" + hex.EncodeToString(sum[:])
}
