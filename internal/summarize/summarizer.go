// Package summarize turns extracted documents into structured summaries via
// a single one-shot LLM call.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/selfletter/selfletter/pkg/anthropic"
)

// emptyPlaceholder is returned when the model produced no usable text.
// A degraded artifact beats a dropped item.
const emptyPlaceholder = "(empty summary)"

// Summarizer formats extracted text into the fixed summary prompt and
// invokes the model once. Request-level retry is deliberately absent; the
// batch driver owns retry at the item level.
type Summarizer struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	maxChars    int
	temperature float64
}

// New creates a Summarizer. maxChars bounds how much extracted text goes
// into the prompt; it is a cost/safety budget.
func New(client anthropic.Client, model string, maxTokens int64, maxChars int) *Summarizer {
	return &Summarizer{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		maxChars:    maxChars,
		temperature: 0.7,
	}
}

// Summarize builds the prompt from title, url, and content and returns the
// model's summary text. Content is truncated to the character budget before
// prompt construction so the bound stays exact regardless of template
// overhead.
func (s *Summarizer) Summarize(ctx context.Context, title, url, content string) (string, error) {
	if title == "" {
		title = "(untitled)"
	}
	if s.maxChars > 0 && len(content) > s.maxChars {
		content = content[:s.maxChars]
	}

	zap.L().Info("summarize: requesting summary",
		zap.String("title", title),
		zap.String("url", url),
		zap.Int("content_chars", len(content)),
	)

	prompt := fmt.Sprintf(summaryPrompt, title, url, content)

	temp := s.temperature
	resp, err := s.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "summarize: request failed")
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	summary := strings.TrimSpace(sb.String())
	if summary == "" {
		return emptyPlaceholder, nil
	}
	return summary, nil
}
