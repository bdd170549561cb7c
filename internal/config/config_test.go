package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "URL", cfg.Notion.URLProp)
	assert.Equal(t, "Summarized", cfg.Notion.DoneProp)
	assert.Equal(t, "Last error", cfg.Notion.ErrorProp)
	assert.Equal(t, "Retry count", cfg.Notion.RetryProp)
	assert.Equal(t, "Created", cfg.Notion.CreatedProp)
	assert.Equal(t, "https://r.jina.ai", cfg.Jina.BaseURL)
	assert.Equal(t, 3, cfg.Batch.MaxRetries)
	assert.Equal(t, 120000, cfg.Batch.MaxChars)
	assert.Equal(t, 200, cfg.Batch.MinChars)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, "newsletter", cfg.Output.Dir)
	assert.Equal(t, "selfletter.db", cfg.Store.Path)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SELFLETTER_NOTION_TOKEN", "secret-token")
	t.Setenv("SELFLETTER_BATCH_MAX_RETRIES", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Notion.Token)
	assert.Equal(t, 5, cfg.Batch.MaxRetries)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nonsense"}))
}
