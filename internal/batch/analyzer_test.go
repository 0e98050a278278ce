package batch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/sentilytics/internal/models"
	"github.com/spacesedan/sentilytics/internal/sentiment"
)

// keywordScorer scores "love" positive and "terrible" negative, anything else neutral.
var keywordScorer = sentiment.ScorerFunc(func(_ context.Context, text string) (sentiment.Scores, error) {
	switch {
	case strings.Contains(text, "love"):
		return sentiment.Scores{Polarity: 0.625, Subjectivity: 0.6}, nil
	case strings.Contains(text, "terrible"):
		return sentiment.Scores{Polarity: -1, Subjectivity: 1}, nil
	default:
		return sentiment.Scores{}, nil
	}
})

func newTestAnalyzer(scorer sentiment.Scorer, opts ...Option) *Analyzer {
	return NewAnalyzer(sentiment.NewAnalyzer(scorer), opts...)
}

func TestAnalyzeFileValidationOrder(t *testing.T) {
	a := newTestAnalyzer(keywordScorer)
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		content  string
		wantErr  error
	}{
		{name: "txt extension with valid csv", filename: "data.txt", content: "text\nI love this!\n", wantErr: ErrUnsupportedFileType},
		{name: "txt extension with garbage", filename: "data.txt", content: "\xff\xff", wantErr: ErrUnsupportedFileType},
		{name: "uppercase extension", filename: "DATA.CSV", content: "text\nhi\n", wantErr: ErrUnsupportedFileType},
		{name: "no text column", filename: "data.csv", content: "id,comment\n1,nice\n", wantErr: ErrMissingColumn},
		{name: "empty csv", filename: "data.csv", content: "", wantErr: ErrMalformedInput},
		{name: "broken quoting", filename: "data.csv", content: "text\n\"unterminated\n", wantErr: ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := a.AnalyzeFile(ctx, tt.filename, strings.NewReader(tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, resp.Results)
			assert.Zero(t, resp.Summary)
		})
	}
}

func TestAnalyzeFileSkipsBlankRows(t *testing.T) {
	a := newTestAnalyzer(keywordScorer)
	content := "text\n\"I love this!\"\n\"\"\n\"This is terrible\"\n\"   \"\n"

	resp, err := a.AnalyzeFile(context.Background(), "data.csv", strings.NewReader(content))
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, models.BatchSummary{Total: 2, Positive: 1, Negative: 1, Neutral: 0}, resp.Summary)
	assert.Equal(t, "I love this!", resp.Results[0].Text)
	assert.Equal(t, models.LabelPositive, resp.Results[0].Sentiment)
	assert.Equal(t, 0.625, resp.Results[0].Polarity)
	assert.Equal(t, "This is terrible", resp.Results[1].Text)
	assert.Equal(t, models.LabelNegative, resp.Results[1].Sentiment)
}

func TestAnalyzeFileKeepsQuotedWords(t *testing.T) {
	a := newTestAnalyzer(keywordScorer)
	content := "id,text\n1,The \"best\" product ever\n2,I love this!\n"

	resp, err := a.AnalyzeFile(context.Background(), "reviews.csv", strings.NewReader(content))
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, `The "best" product ever`, resp.Results[0].Text)
	assert.Equal(t, "I love this!", resp.Results[1].Text)
	assert.Equal(t, 2, resp.Summary.Total)
}

func TestAnalyzeFileWithVader(t *testing.T) {
	a := newTestAnalyzer(sentiment.NewVaderScorer())
	content := "id,text\n1,I love this!\n2,\n3,This is terrible\n4,   \n"

	first, err := a.AnalyzeFile(context.Background(), "reviews.csv", strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, models.BatchSummary{Total: 2, Positive: 1, Negative: 1, Neutral: 0}, first.Summary)
	require.Len(t, first.Results, 2)
	assert.Equal(t, "I love this!", first.Results[0].Text)
	assert.Equal(t, "This is terrible", first.Results[1].Text)

	second, err := a.AnalyzeFile(context.Background(), "reviews.csv", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyzeFileEmptyBody(t *testing.T) {
	a := newTestAnalyzer(keywordScorer)

	resp, err := a.AnalyzeFile(context.Background(), "data.csv", strings.NewReader("text\n"))
	require.NoError(t, err)

	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
	assert.Equal(t, models.BatchSummary{}, resp.Summary)
}

func TestAnalyzePreservesOrderUnderConcurrency(t *testing.T) {
	jitter := sentiment.ScorerFunc(func(ctx context.Context, text string) (sentiment.Scores, error) {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
		return keywordScorer(ctx, text)
	})
	a := newTestAnalyzer(jitter, WithBatchSize(7), WithWorkers(5))

	var sb strings.Builder
	sb.WriteString("text\n")
	const rows = 53
	for i := 0; i < rows; i++ {
		switch i % 3 {
		case 0:
			fmt.Fprintf(&sb, "row %d love\n", i)
		case 1:
			fmt.Fprintf(&sb, "row %d terrible\n", i)
		default:
			fmt.Fprintf(&sb, "row %d\n", i)
		}
	}

	resp, err := a.AnalyzeFile(context.Background(), "big.csv", strings.NewReader(sb.String()))
	require.NoError(t, err)

	require.Len(t, resp.Results, rows)
	for i, r := range resp.Results {
		assert.Equal(t, strconv.Itoa(i), strings.Fields(r.Text)[1], "result %d out of order: %q", i, r.Text)
	}
	assert.Equal(t, rows, resp.Summary.Total)
	assert.Equal(t, resp.Summary.Total, resp.Summary.Positive+resp.Summary.Negative+resp.Summary.Neutral)
	assert.Equal(t, 18, resp.Summary.Positive)
	assert.Equal(t, 18, resp.Summary.Negative)
	assert.Equal(t, 17, resp.Summary.Neutral)
}

func TestAnalyzeIsAllOrNothing(t *testing.T) {
	boom := errors.New("scorer unavailable")
	var calls atomic.Int32
	failing := sentiment.ScorerFunc(func(ctx context.Context, text string) (sentiment.Scores, error) {
		calls.Add(1)
		if strings.Contains(text, "fail") {
			return sentiment.Scores{}, boom
		}
		return keywordScorer(ctx, text)
	})
	a := newTestAnalyzer(failing, WithBatchSize(2), WithWorkers(1))

	resp, err := a.AnalyzeFile(context.Background(), "data.csv",
		strings.NewReader("text\nI love this!\nfine\nplease fail\nnever scored\n"))

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "row 3")
	assert.Nil(t, resp.Results)
	assert.Equal(t, int32(3), calls.Load())
}

func TestAnalyzeStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAnalyzer(keywordScorer).AnalyzeFile(ctx, "data.csv", strings.NewReader("text\nhello\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeMalformedRowAfterProcessingStarted(t *testing.T) {
	a := newTestAnalyzer(keywordScorer, WithBatchSize(1))

	resp, err := a.AnalyzeFile(context.Background(), "data.csv",
		strings.NewReader("text\nI love this!\ntoo,many\n"))

	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.Nil(t, resp.Results)
}

func TestSummarize(t *testing.T) {
	results := []models.SentimentResult{
		{Sentiment: models.LabelPositive},
		{Sentiment: models.LabelNeutral},
		{Sentiment: models.LabelPositive},
		{Sentiment: models.LabelNegative},
	}

	assert.Equal(t, models.BatchSummary{Total: 4, Positive: 2, Negative: 1, Neutral: 1}, Summarize(results))
	assert.Equal(t, models.BatchSummary{}, Summarize(nil))
}
