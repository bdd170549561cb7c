package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	SMTP      SMTPConfig      `yaml:"smtp" mapstructure:"smtp"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// NotionConfig holds the Notion token, source database ID, and the property
// names the tracker reads and writes. Property names are configurable because
// the error and retry properties are optional in a given deployment's schema.
type NotionConfig struct {
	Token       string `yaml:"token" mapstructure:"token"`
	SourceDB    string `yaml:"source_db" mapstructure:"source_db"`
	URLProp     string `yaml:"url_prop" mapstructure:"url_prop"`
	DoneProp    string `yaml:"done_prop" mapstructure:"done_prop"`
	ErrorProp   string `yaml:"error_prop" mapstructure:"error_prop"`
	RetryProp   string `yaml:"retry_prop" mapstructure:"retry_prop"`
	CreatedProp string `yaml:"created_prop" mapstructure:"created_prop"`
}

// JinaConfig holds Jina AI Reader settings.
type JinaConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig configures the on-disk summary tree.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	MaxChars   int `yaml:"max_chars" mapstructure:"max_chars"`
	MinChars   int `yaml:"min_chars" mapstructure:"min_chars"`
}

// SMTPConfig configures newsletter email delivery. Delivery is skipped
// entirely when User, Pass, or To is unset.
type SMTPConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	User string `yaml:"user" mapstructure:"user"`
	Pass string `yaml:"pass" mapstructure:"pass"`
	From string `yaml:"from" mapstructure:"from"`
	To   string `yaml:"to" mapstructure:"to"`
}

// StoreConfig configures the local run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SELFLETTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default to empty so AutomaticEnv picks them up
	// without a config file entry.
	v.SetDefault("notion.token", "")
	v.SetDefault("notion.source_db", "")
	v.SetDefault("jina.key", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.pass", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.to", "")
	v.SetDefault("notion.url_prop", "URL")
	v.SetDefault("notion.done_prop", "Summarized")
	v.SetDefault("notion.error_prop", "Last error")
	v.SetDefault("notion.retry_prop", "Retry count")
	v.SetDefault("notion.created_prop", "Created")
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.user_agent", "SelfletterBot/1.0 (+https://github.com/selfletter/selfletter)")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 8192)
	v.SetDefault("output.dir", "newsletter")
	v.SetDefault("batch.max_retries", 3)
	v.SetDefault("batch.max_chars", 120000)
	v.SetDefault("batch.min_chars", 200)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 465)
	v.SetDefault("store.path", "selfletter.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
