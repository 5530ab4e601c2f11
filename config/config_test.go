package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/helpermesh/logging"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "_", cfg.Bridge.NameDelimiter)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ProviderMock, cfg.Model.Provider)
	assert.Equal(t, 0.7, cfg.Model.Temperature)
	assert.Equal(t, int64(1024), cfg.Model.MaxTokens)
	assert.Equal(t, "helpermesh", cfg.Metrics.Namespace)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.Manifests)

	assert.Equal(t, cfg, Default())
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load("testdata/helpermesh.yaml")
	require.NoError(t, err)

	assert.Equal(t, "__", cfg.Bridge.NameDelimiter)
	assert.Equal(t, ProviderOpenAI, cfg.Model.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
	assert.Equal(t, int64(256), cfg.Model.MaxTokens)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, []string{"plugins/writer.yaml"}, cfg.Manifests)
	assert.Equal(t, []string{"flows/trip.yaml"}, cfg.Flows)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HELPERMESH_MODEL_PROVIDER", "anthropic")
	t.Setenv("HELPERMESH_MODEL_API_KEY", "secret")
	t.Setenv("HELPERMESH_LOGGING_LEVEL", "warn")

	cfg, err := Load("testdata/helpermesh.yaml")
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, cfg.Model.Provider)
	assert.Equal(t, "secret", cfg.Model.APIKey)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load("testdata/invalid.yaml")
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "bridge.name_delimiter")
	assert.Contains(t, err.Error(), "model.provider")
	assert.Contains(t, err.Error(), "model.max_tokens")

	_, err = Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestLoggingConfig_LoggerConfig(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Format: "text", AddSource: true}.LoggerConfig()
	assert.Equal(t, logging.LogLevelDebug, lc.Level)
	assert.Equal(t, "text", lc.Format)
	assert.True(t, lc.AddSource)
	assert.Equal(t, "helpermesh", lc.Component)
}
