// Package config loads runtime settings from defaults, an optional YAML
// file, and POUCH_-prefixed environment variables, in increasing order
// of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/oreem-dev/pouch-agent/pkg/llm"
)

// Config is the full runtime configuration.
type Config struct {
	FrontAccounting FrontAccountingConfig `mapstructure:"frontaccounting"`
	Gemini          GeminiConfig          `mapstructure:"gemini"`
	Server          ServerConfig          `mapstructure:"server"`
	LogLevel        string                `mapstructure:"log_level"`
}

// FrontAccountingConfig locates the upstream accounting API.
type FrontAccountingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GeminiConfig holds the model provider credentials.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ServerConfig is the HTTP gateway listen address.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Load reads configuration. configFile may be empty, in which case only
// defaults and environment variables apply.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("frontaccounting.base_url", "https://pouch-account.oreem.com")
	v.SetDefault("frontaccounting.timeout", 30*time.Second)
	// Empty defaults register the keys so AutomaticEnv can fill them
	// during Unmarshal.
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", llm.DefaultGeminiModel)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("POUCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings every mode of operation needs. The Gemini
// API key is checked separately because the MCP mode runs without a model.
func (c *Config) Validate() error {
	if c.FrontAccounting.BaseURL == "" {
		return fmt.Errorf("frontaccounting.base_url must not be empty")
	}
	if c.FrontAccounting.Timeout <= 0 {
		return fmt.Errorf("frontaccounting.timeout must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// ValidateGemini checks the model provider settings, required by the
// serve and chat modes.
func (c *Config) ValidateGemini() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key must be set (POUCH_GEMINI_API_KEY)")
	}
	if c.Gemini.Model == "" {
		return fmt.Errorf("gemini.model must not be empty")
	}
	return nil
}
