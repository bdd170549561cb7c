package batch

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfletter/selfletter/internal/config"
)

func TestSender_Enabled(t *testing.T) {
	full := config.SMTPConfig{User: "u", Pass: "p", To: "t@example.com"}
	assert.True(t, NewSender(full).Enabled())

	for _, cfg := range []config.SMTPConfig{
		{Pass: "p", To: "t@example.com"},
		{User: "u", To: "t@example.com"},
		{User: "u", Pass: "p"},
		{},
	} {
		assert.False(t, NewSender(cfg).Enabled())
	}
}

func TestSender_SkipsWhenUnconfigured(t *testing.T) {
	s := NewSender(config.SMTPConfig{})
	// Missing credentials skip delivery without error.
	assert.NoError(t, s.Send(context.Background(), "subject", "body"))
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("from@example.com", "to@example.com", "Daily AI Digest - 2026-03-14", "plain body", "<html>html body</html>"))

	assert.Contains(t, msg, "From: from@example.com\r\n")
	assert.Contains(t, msg, "To: to@example.com\r\n")
	assert.Contains(t, msg, "Subject: Daily AI Digest - 2026-03-14\r\n")
	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "plain body")
	assert.Contains(t, msg, "<html>html body</html>")
	// Plain part comes before the HTML part.
	assert.Less(t, strings.Index(msg, "plain body"), strings.Index(msg, "<html>"))
}

func TestRenderHTML(t *testing.T) {
	md := strings.Join([]string{
		"# Daily Newsletter - 2026-03-14",
		"",
		"## Arxiv",
		"",
		"**Source:** [https://arxiv.org/abs/1](https://arxiv.org/abs/1)",
		"",
		"Some *emphasized* paragraph.",
		"",
		"---",
	}, "\n")

	html := renderHTML(md)
	assert.Contains(t, html, "<h1>Daily Newsletter - 2026-03-14</h1>")
	assert.Contains(t, html, "<h2>Arxiv</h2>")
	assert.Contains(t, html, `<a href="https://arxiv.org/abs/1">https://arxiv.org/abs/1</a>`)
	assert.Contains(t, html, "<strong>Source:</strong>")
	assert.Contains(t, html, "<hr>")
	require.True(t, strings.HasPrefix(html, "<html>"))
}
