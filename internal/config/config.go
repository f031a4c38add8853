package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultMarkupUserAgent is the browser-like agent sent to HTML sources that reject bots.
const DefaultMarkupUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	LogOutput      string `mapstructure:"log_output"`
	SourcesFile    string `mapstructure:"sources_file"`
	PublishersFile string `mapstructure:"publishers_file"`
	HTTPAddr       string `mapstructure:"http_addr"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`

	FeedTimeoutSeconds   int64         `mapstructure:"feed_timeout_seconds"`
	MarkupTimeoutSeconds int64         `mapstructure:"markup_timeout_seconds"`
	MarkupUserAgent      string        `mapstructure:"markup_user_agent"`
	MarkupInsecureTLS    bool          `mapstructure:"markup_insecure_tls"`
	FeedTimeout          time.Duration `mapstructure:"-"`
	MarkupTimeout        time.Duration `mapstructure:"-"`

	HarvestSchedule string `mapstructure:"harvest_schedule"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-news-aggregator")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_output", "stdout")
	v.SetDefault("sources_file", "")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("http_addr", ":8000")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("feed_timeout_seconds", 10)
	v.SetDefault("markup_timeout_seconds", 15)
	v.SetDefault("markup_user_agent", DefaultMarkupUserAgent)
	v.SetDefault("markup_insecure_tls", true)
	v.SetDefault("harvest_schedule", "@every 15m")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates raw values and derives the duration fields.
func (c *Config) finalize() error {
	if c.FeedTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid feed_timeout_seconds (must be positive seconds)")
	}
	if c.MarkupTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid markup_timeout_seconds (must be positive seconds)")
	}
	c.FeedTimeout = time.Duration(c.FeedTimeoutSeconds) * time.Second
	c.MarkupTimeout = time.Duration(c.MarkupTimeoutSeconds) * time.Second

	c.HTTPAddr = strings.TrimSpace(c.HTTPAddr)
	if c.HTTPAddr == "" {
		return fmt.Errorf("http_addr must not be empty")
	}
	c.SourcesFile = strings.TrimSpace(c.SourcesFile)
	c.LogOutput = strings.ToLower(strings.TrimSpace(c.LogOutput))
	if c.LogOutput != "stdout" && c.LogOutput != "stderr" {
		return fmt.Errorf("invalid log_output %q (expected stdout or stderr)", c.LogOutput)
	}
	c.HarvestSchedule = strings.TrimSpace(c.HarvestSchedule)
	if strings.TrimSpace(c.MarkupUserAgent) == "" {
		c.MarkupUserAgent = DefaultMarkupUserAgent
	}
	return nil
}
