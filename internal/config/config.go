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
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Serp      SerpConfig      `yaml:"serp" mapstructure:"serp"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Summary   SummaryConfig   `yaml:"summary" mapstructure:"summary"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SerpConfig holds SERP API settings.
type SerpConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Engine     string `yaml:"engine" mapstructure:"engine"`
	MaxResults int    `yaml:"max_results" mapstructure:"max_results"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// ScrapeConfig configures page fetching and the scrape cache.
type ScrapeConfig struct {
	TimeoutSecs     int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent       string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxChars        int    `yaml:"max_chars" mapstructure:"max_chars"`
	MaxConcurrent   int    `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	CacheTTLHours   int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	CacheMaxEntries int    `yaml:"cache_max_entries" mapstructure:"cache_max_entries"`
}

// SummaryConfig configures the summarizer's reply contract.
type SummaryConfig struct {
	// Format selects the prompt/parse strategy: "json" (fenced JSON object,
	// the canonical contract), "delimited" (Goals:/Outlook:/Summary: plain
	// text), or "narrative" (free text, no parsing).
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port          int `yaml:"port" mapstructure:"port"`
	RatePerMinute int `yaml:"rate_per_minute" mapstructure:"rate_per_minute"`
	RateBurst     int `yaml:"rate_burst" mapstructure:"rate_burst"`
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
	v.SetEnvPrefix("BRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys that have no meaningful default still need an empty
	// registration: AutomaticEnv only surfaces env values for keys viper
	// already knows about.
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "company-brief.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("serp.key", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("serp.base_url", "https://serpapi.com")
	v.SetDefault("serp.engine", "google")
	v.SetDefault("serp.max_results", 5)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.temperature", 0.25)
	v.SetDefault("scrape.timeout_secs", 10)
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (compatible; CompanyBriefBot/1.0)")
	v.SetDefault("scrape.max_chars", 5000)
	v.SetDefault("scrape.max_concurrent", 1)
	v.SetDefault("scrape.cache_ttl_hours", 24)
	v.SetDefault("scrape.cache_max_entries", 100)
	v.SetDefault("summary.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_minute", 5)
	v.SetDefault("server.rate_burst", 5)
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

// Validate checks that required credentials are present so missing keys fail
// at startup instead of per-request.
func (c *Config) Validate() error {
	if c.Serp.Key == "" {
		return eris.New("config: serp.key is required (BRIEF_SERP_KEY)")
	}
	if c.Anthropic.Key == "" {
		return eris.New("config: anthropic.key is required (BRIEF_ANTHROPIC_KEY)")
	}
	switch c.Summary.Format {
	case "json", "delimited", "narrative":
	default:
		return eris.Errorf("config: unknown summary.format %q", c.Summary.Format)
	}
	return nil
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
