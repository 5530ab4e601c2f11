// Package config loads helpermesh settings from a YAML or JSON file and
// HELPERMESH_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/viper"

	"github.com/hupe1980/helpermesh/logging"
)

// EnvPrefix prefixes environment overrides, e.g. HELPERMESH_MODEL_PROVIDER.
const EnvPrefix = "HELPERMESH"

// Supported model providers.
const (
	ProviderMock      = "mock"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Bridge    BridgeConfig  `mapstructure:"bridge"`
	Logging   LoggingConfig `mapstructure:"logging"`
	Model     ModelConfig   `mapstructure:"model"`
	Metrics   MetricsConfig `mapstructure:"metrics"`
	Manifests []string      `mapstructure:"manifests"` // Plugin manifest files
	Flows     []string      `mapstructure:"flows"`     // Flow definition files
}

// BridgeConfig stores helper bridge settings.
type BridgeConfig struct {
	NameDelimiter string `mapstructure:"name_delimiter"` // Joins plugin, function and parameter names
}

// LoggingConfig stores logger settings.
type LoggingConfig struct {
	Level     string `mapstructure:"level"`  // debug, info, warn, error
	Format    string `mapstructure:"format"` // json or text
	AddSource bool   `mapstructure:"add_source"`
}

// ModelConfig stores the model backing prompt functions.
type ModelConfig struct {
	Provider    string  `mapstructure:"provider"` // mock, openai, anthropic
	Name        string  `mapstructure:"name"`     // Provider model id; empty uses the adapter default
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int64   `mapstructure:"max_tokens"`
	APIKey      string  `mapstructure:"api_key"` // Empty falls back to the provider SDK's own env lookup
}

// MetricsConfig stores Prometheus metric settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Load reads configuration from path (yaml or json, chosen by extension) and
// applies environment overrides. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bridge.name_delimiter", "_")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.add_source", false)

	v.SetDefault("model.provider", ProviderMock)
	v.SetDefault("model.name", "")
	v.SetDefault("model.temperature", 0.7)
	v.SetDefault("model.max_tokens", 1024)
	v.SetDefault("model.api_key", "")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "helpermesh")

	v.SetDefault("manifests", []string{})
	v.SetDefault("flows", []string{})
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var problems []string

	if !validDelimiter(c.Bridge.NameDelimiter) {
		problems = append(problems, fmt.Sprintf("bridge.name_delimiter %q must be non-empty letters, digits or underscores", c.Bridge.NameDelimiter))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		problems = append(problems, "logging.level: "+err.Error())
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		problems = append(problems, fmt.Sprintf("logging.format %q must be json or text", c.Logging.Format))
	}
	switch c.Model.Provider {
	case ProviderMock, ProviderOpenAI, ProviderAnthropic:
	default:
		problems = append(problems, fmt.Sprintf("model.provider %q is not supported", c.Model.Provider))
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		problems = append(problems, "model.temperature must be between 0 and 2")
	}
	if c.Model.MaxTokens <= 0 {
		problems = append(problems, "model.max_tokens must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// LoggerConfig converts the logging section for logging.NewLogger.
func (c LoggingConfig) LoggerConfig() *logging.LoggerConfig {
	cfg := logging.DefaultLoggerConfig()
	if level, err := logging.ParseLevel(c.Level); err == nil {
		cfg.Level = level
	}
	if c.Format != "" {
		cfg.Format = c.Format
	}
	cfg.AddSource = c.AddSource
	cfg.Component = "helpermesh"
	return cfg
}

// Helper names must stay template identifiers.
func validDelimiter(d string) bool {
	if d == "" {
		return false
	}
	for _, r := range d {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
