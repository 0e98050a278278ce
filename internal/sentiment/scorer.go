package sentiment

import "context"

// Scores is the raw output of a Scorer. Polarity is expected in [-1,1] and
// Subjectivity in [0,1].
type Scores struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// Scorer is the pluggable sentiment-scoring capability. Implementations must
// be safe for concurrent use and deterministic for a given text.
type Scorer interface {
	Score(ctx context.Context, text string) (Scores, error)
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(ctx context.Context, text string) (Scores, error)

func (f ScorerFunc) Score(ctx context.Context, text string) (Scores, error) {
	return f(ctx, text)
}
