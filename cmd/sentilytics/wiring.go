package main

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/spacesedan/sentilytics/config"
	"github.com/spacesedan/sentilytics/internal/batch"
	"github.com/spacesedan/sentilytics/internal/clients"
	"github.com/spacesedan/sentilytics/internal/monitoring"
	"github.com/spacesedan/sentilytics/internal/sentiment"
)

type analyzers struct {
	text  *sentiment.Analyzer
	batch *batch.Analyzer
	close func()
}

type variantScorer interface {
	sentiment.Scorer
	Variant() string
}

func buildScorer(cfg config.Config) variantScorer {
	if cfg.Scorer.Kind == config.SCORER_REMOTE {
		return clients.NewScoringClient(cfg.Scorer.URL, cfg.Scorer.Timeout)
	}
	return sentiment.NewVaderScorer(sentiment.WithMarkdownStripping(cfg.StripMarkdown))
}

// buildAnalyzers wires the configured scorer, the optional valkey score cache
// and both analyzers. The cache health monitor runs until ctx is cancelled.
func buildAnalyzers(ctx context.Context, cfg config.Config) analyzers {
	base := buildScorer(cfg)

	var scorer sentiment.Scorer = base
	closeFn := func() {}

	if cfg.Valkey.Enabled() {
		vc, err := clients.NewValkeyClient(cfg.Valkey)
		if err != nil {
			slog.Warn("[Main] Score cache unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			healthy := &atomic.Bool{}
			healthy.Store(true)
			go monitoring.MonitorCacheHealth(ctx, vc, healthy, monitoring.HEALTHCHECK_TIMER)

			scorer = sentiment.NewCachingScorer(base, vc, base.Variant(), cfg.Valkey.TTL, healthy)
			closeFn = vc.Close
		}
	}

	text := sentiment.NewAnalyzer(scorer)
	return analyzers{
		text: text,
		batch: batch.NewAnalyzer(text,
			batch.WithBatchSize(cfg.BatchSize),
			batch.WithWorkers(cfg.ScoreWorkers)),
		close: closeFn,
	}
}
