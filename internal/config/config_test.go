package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "https://serpapi.com", cfg.Serp.BaseURL)
	assert.Equal(t, "google", cfg.Serp.Engine)
	assert.Equal(t, 5, cfg.Serp.MaxResults)
	assert.Equal(t, 10, cfg.Scrape.TimeoutSecs)
	assert.Equal(t, 5000, cfg.Scrape.MaxChars)
	assert.Equal(t, 24, cfg.Scrape.CacheTTLHours)
	assert.Equal(t, 100, cfg.Scrape.CacheMaxEntries)
	assert.Equal(t, "json", cfg.Summary.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.RatePerMinute)
	assert.InDelta(t, 0.25, cfg.Anthropic.Temperature, 0.001)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BRIEF_SERP_KEY", "serp-secret")
	t.Setenv("BRIEF_ANTHROPIC_KEY", "anthropic-secret")
	t.Setenv("BRIEF_STORE_DATABASE_URL", "postgres://localhost/brief")
	t.Setenv("BRIEF_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "serp-secret", cfg.Serp.Key)
	assert.Equal(t, "anthropic-secret", cfg.Anthropic.Key)
	assert.Equal(t, "postgres://localhost/brief", cfg.Store.DatabaseURL)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_EnvSatisfiesValidate(t *testing.T) {
	t.Setenv("BRIEF_SERP_KEY", "serp-secret")
	t.Setenv("BRIEF_ANTHROPIC_KEY", "anthropic-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingKeys(t *testing.T) {
	cfg := &Config{Summary: SummaryConfig{Format: "json"}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serp.key")

	cfg.Serp.Key = "k"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key")

	cfg.Anthropic.Key = "k"
	require.NoError(t, cfg.Validate())
}

func TestValidate_SummaryFormat(t *testing.T) {
	cfg := &Config{
		Serp:      SerpConfig{Key: "k"},
		Anthropic: AnthropicConfig{Key: "k"},
	}

	for _, format := range []string{"json", "delimited", "narrative"} {
		cfg.Summary.Format = format
		assert.NoError(t, cfg.Validate(), format)
	}

	cfg.Summary.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary.format")
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
}
