package batch

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spacesedan/sentilytics/internal/models"
	"github.com/spacesedan/sentilytics/internal/utils"
)

const (
	CSV_EXTENSION         = ".csv"
	DEFAULT_SCORE_WORKERS = 4
)

// TextAnalyzer produces one result per non-blank text.
type TextAnalyzer interface {
	Analyze(ctx context.Context, text string) (models.SentimentResult, error)
}

// Analyzer runs the CSV upload pipeline: validate, read rows lazily, score
// retained rows in bounded parallel chunks, and summarize.
type Analyzer struct {
	text      TextAnalyzer
	batchSize int
	workers   int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithBatchSize sets how many retained rows are scored together.
func WithBatchSize(size int) Option {
	return func(a *Analyzer) {
		if size > 0 {
			a.batchSize = size
		}
	}
}

// WithWorkers caps concurrent scoring calls within a chunk.
func WithWorkers(workers int) Option {
	return func(a *Analyzer) {
		if workers > 0 {
			a.workers = workers
		}
	}
}

func NewAnalyzer(text TextAnalyzer, opts ...Option) *Analyzer {
	a := &Analyzer{
		text:      text,
		batchSize: utils.DEFAULT_BATCH_SIZE,
		workers:   DEFAULT_SCORE_WORKERS,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ValidateFilename fails with ErrUnsupportedFileType unless filename has the
// .csv extension.
func ValidateFilename(filename string) error {
	if !strings.HasSuffix(filename, CSV_EXTENSION) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, filename)
	}
	return nil
}

// AnalyzeFile checks the filename, then the CSV structure, then scores every
// row. Nothing is returned on failure.
func (a *Analyzer) AnalyzeFile(ctx context.Context, filename string, r io.Reader) (models.BatchResponse, error) {
	if err := ValidateFilename(filename); err != nil {
		return models.BatchResponse{}, err
	}

	rows, err := NewRowReader(r)
	if err != nil {
		return models.BatchResponse{}, err
	}

	start := time.Now()
	resp, err := a.Analyze(ctx, rows.Records())
	if err != nil {
		slog.Warn("[BatchAnalyzer] Batch failed",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		return models.BatchResponse{}, err
	}

	slog.Info("[BatchAnalyzer] Batch analyzed",
		slog.String("filename", filename),
		slog.Int("columns", len(rows.Header())),
		slog.Int("total", resp.Summary.Total),
		slog.Int("positive", resp.Summary.Positive),
		slog.Int("negative", resp.Summary.Negative),
		slog.Int("neutral", resp.Summary.Neutral),
		slog.Duration("elapsed", time.Since(start)))

	return resp, nil
}

// Analyze consumes records in order, skipping rows whose text is blank.
func (a *Analyzer) Analyze(ctx context.Context, records iter.Seq2[models.TextRecord, error]) (models.BatchResponse, error) {
	results := make([]models.SentimentResult, 0)
	buffer := utils.NewBatchBuffer[models.TextRecord](a.batchSize)

	flush := func() error {
		if !buffer.HasData() {
			return nil
		}
		scored, err := a.scoreChunk(ctx, buffer.GetAndClear())
		if err != nil {
			return err
		}
		results = append(results, scored...)
		return nil
	}

	for record, err := range records {
		if err != nil {
			return models.BatchResponse{}, err
		}
		if strings.TrimSpace(record.Text) == "" {
			continue
		}

		buffer.Add(record)
		if buffer.Full() {
			if err := flush(); err != nil {
				return models.BatchResponse{}, err
			}
		}
	}
	if err := flush(); err != nil {
		return models.BatchResponse{}, err
	}

	return models.BatchResponse{
		Summary: Summarize(results),
		Results: results,
	}, nil
}

// Summarize counts results by label.
func Summarize(results []models.SentimentResult) models.BatchSummary {
	var summary models.BatchSummary
	for _, r := range results {
		summary.Add(r.Sentiment)
	}
	return summary
}

// scoreChunk analyzes records concurrently, writing each result into the slot
// matching its position so the chunk keeps input order.
func (a *Analyzer) scoreChunk(ctx context.Context, chunk []models.TextRecord) ([]models.SentimentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]models.SentimentResult, len(chunk))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, record := range chunk {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := a.text.Analyze(gctx, record.Text)
			if err != nil {
				return fmt.Errorf("row %d: %w", record.Row, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
