package models

type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
)

// TextRecord is one row of an uploaded table. Row is the 1-based data row
// number, excluding the header.
type TextRecord struct {
	Row  int    `json:"-"`
	Text string `json:"text"`
}

type TextInput struct {
	Text *string `json:"text"`
}

type SentimentResult struct {
	Text         string  `json:"text"`
	Sentiment    Label   `json:"sentiment"`
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

type BatchSummary struct {
	Total    int `json:"total"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Add counts one result towards the summary.
func (s *BatchSummary) Add(label Label) {
	s.Total++
	switch label {
	case LabelPositive:
		s.Positive++
	case LabelNegative:
		s.Negative++
	default:
		s.Neutral++
	}
}

type BatchResponse struct {
	Summary BatchSummary      `json:"summary"`
	Results []SentimentResult `json:"results"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
