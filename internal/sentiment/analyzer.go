package sentiment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/spacesedan/sentilytics/internal/models"
)

const (
	POSITIVE_THRESHOLD = 0.1
	NEGATIVE_THRESHOLD = -0.1
	SCORE_DECIMALS     = 3
)

// Analyzer turns a Scorer's raw output into a labelled, rounded result.
type Analyzer struct {
	scorer Scorer
}

func NewAnalyzer(scorer Scorer) *Analyzer {
	return &Analyzer{scorer: scorer}
}

// Analyze scores a single text. The text is returned unchanged in the result;
// whitespace-only input fails with ErrInvalidInput.
func (a *Analyzer) Analyze(ctx context.Context, text string) (models.SentimentResult, error) {
	if strings.TrimSpace(text) == "" {
		return models.SentimentResult{}, ErrInvalidInput
	}

	scores, err := a.scorer.Score(ctx, text)
	if err != nil {
		return models.SentimentResult{}, fmt.Errorf("failed to score text: %w", err)
	}

	if math.IsNaN(scores.Polarity) || math.IsInf(scores.Polarity, 0) ||
		math.IsNaN(scores.Subjectivity) || math.IsInf(scores.Subjectivity, 0) {
		return models.SentimentResult{}, ErrNonFiniteScore
	}

	polarity := clamp(scores.Polarity, -1, 1)
	subjectivity := clamp(scores.Subjectivity, 0, 1)

	return models.SentimentResult{
		Text:         text,
		Sentiment:    Classify(polarity),
		Polarity:     Round(polarity),
		Subjectivity: Round(subjectivity),
	}, nil
}

// Classify labels a raw, unrounded polarity. Both thresholds are exclusive.
func Classify(polarity float64) models.Label {
	switch {
	case polarity > POSITIVE_THRESHOLD:
		return models.LabelPositive
	case polarity < NEGATIVE_THRESHOLD:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

// Round rounds to SCORE_DECIMALS places, ties to even.
func Round(v float64) float64 {
	scale := math.Pow10(SCORE_DECIMALS)
	r := math.RoundToEven(v*scale) / scale
	if r == 0 {
		// avoid serializing -0
		return 0
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
