// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"budget-dashboard/internal/logging"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Currency struct {
		Fallback string `mapstructure:"fallback" yaml:"fallback"`
	} `mapstructure:"currency" yaml:"currency"`

	Data struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"data" yaml:"data"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`

	AI struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Model   string `mapstructure:"model" yaml:"model"`
		APIKey  string `mapstructure:"api_key" yaml:"-"` // Never serialize the API key
	} `mapstructure:"ai" yaml:"ai"`

	Server struct {
		Addr string `mapstructure:"addr" yaml:"addr"`
	} `mapstructure:"server" yaml:"server"`
}

// LoadEnv loads variables from a .env file in the current or parent
// directory, if one exists. Missing files are not an error.
func LoadEnv() {
	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
			return
		}
	}
}

// Initialize loads configuration hierarchically: defaults, then an optional
// config.yaml ($HOME/.budget-dashboard, .budget-dashboard, .), then
// BUDGET_* environment variables.
func Initialize() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.budget-dashboard")
	v.AddConfigPath(".budget-dashboard")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BUDGET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		// No config file is fine; defaults and env vars apply.
	}

	// The Gemini key is conventionally set unprefixed.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// NewLogger builds the application logger from the configured level and format.
func (c *Config) NewLogger() logging.Logger {
	return logging.NewLogrusAdapter(c.Log.Level, c.Log.Format)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("currency.fallback", "EUR")
	v.SetDefault("data.directory", "data")
	v.SetDefault("categories.file", "categories.yaml")
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-1.0-pro")
	v.SetDefault("server.addr", ":8050")
}

func validate(c *Config) error {
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if len(c.CSV.Delimiter) != 1 {
		return fmt.Errorf("csv delimiter must be a single character, got %q", c.CSV.Delimiter)
	}
	if len(c.Currency.Fallback) != 3 {
		return fmt.Errorf("currency fallback must be a 3-letter code, got %q", c.Currency.Fallback)
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return fmt.Errorf("ai.enabled requires GEMINI_API_KEY to be set")
	}
	return nil
}
