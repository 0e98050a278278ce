package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/sentilytics/internal/sentiment"
)

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Polarity     *float64 `json:"polarity"`
	Subjectivity *float64 `json:"subjectivity"`
}

// ScoringClient is a sentiment.Scorer backed by a remote HTTP scoring
// service. The service receives {"text": ...} and must answer with
// {"polarity": ..., "subjectivity": ...}.
type ScoringClient struct {
	Client         *http.Client
	endpoint       string
	initialBackoff time.Duration
}

func NewScoringClient(endpoint string, timeout time.Duration) *ScoringClient {
	slog.Info("[ScoringClient] Initializing Client",
		slog.String("endpoint", endpoint),
		slog.Duration("timeout", timeout))

	return &ScoringClient{
		Client: &http.Client{
			Timeout: timeout,
		},
		endpoint:       endpoint,
		initialBackoff: INITIAL_BACKOFF,
	}
}

func (s *ScoringClient) Score(ctx context.Context, text string) (sentiment.Scores, error) {
	var result scoreResponse
	if err := s.postJSON(ctx, scoreRequest{Text: text}, &result); err != nil {
		return sentiment.Scores{}, err
	}
	if result.Polarity == nil || result.Subjectivity == nil {
		return sentiment.Scores{}, fmt.Errorf("scoring response missing polarity or subjectivity")
	}

	return sentiment.Scores{
		Polarity:     *result.Polarity,
		Subjectivity: *result.Subjectivity,
	}, nil
}

// Variant namespaces cached scores per remote endpoint.
func (s *ScoringClient) Variant() string {
	return "remote:" + s.endpoint
}

func (s *ScoringClient) DoWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := s.initialBackoff

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)

		resp, err = s.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		slog.Warn("[ScoringClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			resp.Body.Close()
			if err == nil {
				err = fmt.Errorf("status code %d", resp.StatusCode)
			}
			resp = nil
		}

		if attempt == MAX_RETRIES-1 || !sleepCtx(ctx, backoff) {
			break
		}
		backoff = min(backoff*2, MAX_BACKOFF)
	}

	return nil, err
}

func (s *ScoringClient) postJSON(ctx context.Context, input any, output any) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	start := time.Now()
	resp, err := s.DoWithRetry(ctx, body)
	if err != nil {
		slog.Error("[ScoringClient] Failed request after retries",
			slog.String("endpoint", s.endpoint),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoring service returned status %d: %s", resp.StatusCode, preview(respBody))
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[ScoringClient] Failed to unmarshal response",
			slog.String("endpoint", s.endpoint),
			slog.String("error", err.Error()),
			slog.String("raw_response", preview(respBody)),
			slog.Int("raw_response_length", len(respBody)))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func preview(respBody []byte) string {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return raw
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
