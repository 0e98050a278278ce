package sentiment

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`<?(?:https?://|www\.)[^\s<>]+>?`)

	// angle brackets are parsed as text so emoticons like <3, </3 and >:(
	// reach the lexicon instead of being read as html or blockquotes
	angleEscaper   = strings.NewReplacer("<", `\<`, ">", `\>`)
	angleUnescaper = strings.NewReplacer(`\<`, "<", `\>`, ">")
)

// VaderScorer scores text with VADER. Polarity is the compound score and
// subjectivity is the share of the text VADER found sentiment-bearing.
type VaderScorer struct {
	analyzer      *govader.SentimentIntensityAnalyzer
	stripMarkdown bool
}

// VaderOption configures a VaderScorer.
type VaderOption func(*VaderScorer)

// WithMarkdownStripping controls whether markdown and links are reduced to
// plain text before scoring. Enabled by default.
func WithMarkdownStripping(enabled bool) VaderOption {
	return func(v *VaderScorer) {
		v.stripMarkdown = enabled
	}
}

func NewVaderScorer(opts ...VaderOption) *VaderScorer {
	v := &VaderScorer{
		analyzer:      govader.NewSentimentIntensityAnalyzer(),
		stripMarkdown: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *VaderScorer) Score(ctx context.Context, text string) (Scores, error) {
	if err := ctx.Err(); err != nil {
		return Scores{}, err
	}

	plainText := text
	if v.stripMarkdown {
		// fall back to the raw text when it was nothing but markup or links
		if stripped := ConvertMarkdownToText(text); stripped != "" {
			plainText = stripped
		}
	}

	sentiment := v.analyzer.PolarityScores(plainText)

	return Scores{
		Polarity:     sentiment.Compound,
		Subjectivity: math.Min(1, sentiment.Positive+sentiment.Negative),
	}, nil
}

// Variant identifies the scoring configuration, used to namespace cached scores.
func (v *VaderScorer) Variant() string {
	if v.stripMarkdown {
		return "vader:md"
	}
	return "vader:raw"
}

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText walks the markdown AST and keeps only the literal
// text, collapsing whitespace.
func ConvertMarkdownToText(input string) string {
	root := blackfriday.New(blackfriday.WithNoExtensions()).Parse([]byte(angleEscaper.Replace(input)))

	var sb strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if !entering {
			switch node.Type {
			case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item, blackfriday.CodeBlock:
				sb.WriteByte(' ')
			}
			return blackfriday.GoToNext
		}

		switch node.Type {
		case blackfriday.Text, blackfriday.HTMLSpan, blackfriday.HTMLBlock:
			sb.Write(node.Literal)
		case blackfriday.Code, blackfriday.CodeBlock:
			// escapes are not processed inside code
			sb.WriteString(angleUnescaper.Replace(string(node.Literal)))
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			sb.WriteByte(' ')
		}
		return blackfriday.GoToNext
	})

	plainText := strings.Join(strings.Fields(sb.String()), " ")
	return strings.Join(strings.Fields(RemoveLinks(plainText)), " ")
}
