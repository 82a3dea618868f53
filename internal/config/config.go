package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const apiKeyVisibleChars = 20

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BaseURL               string        `mapstructure:"dokploy_url"`
	APIKey                string        `mapstructure:"dokploy_api"`
	ApplicationID         string        `mapstructure:"dokploy_application_id"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	Offline               bool          `mapstructure:"offline"`

	CatalogFile    string `mapstructure:"catalog_file"`
	PublishersFile string `mapstructure:"publishers_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "dokploy-probe")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "warn")
	v.SetDefault("dokploy_url", "https://dokploy.etdofresh.com")
	v.SetDefault("dokploy_api", "your-api-key-here")
	v.SetDefault("dokploy_application_id", "")
	v.SetDefault("request_timeout_seconds", 10)
	v.SetDefault("offline", false)
	v.SetDefault("catalog_file", "")
	v.SetDefault("publishers_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("invalid dokploy_url (must not be empty)")
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.ApplicationID = strings.TrimSpace(cfg.ApplicationID)

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	return &cfg, nil
}

// MaskedAPIKey returns the leading characters of the API key followed by an ellipsis.
func (c *Config) MaskedAPIKey() string {
	if c == nil {
		return ""
	}
	key := c.APIKey
	if len(key) > apiKeyVisibleChars {
		key = key[:apiKeyVisibleChars]
	}
	return key + "..."
}

// Redacted returns a copy safe to log.
func (c *Config) Redacted() Config {
	if c == nil {
		return Config{}
	}
	out := *c
	out.APIKey = c.MaskedAPIKey()
	return out
}
