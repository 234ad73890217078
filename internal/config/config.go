package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/marketpulse/pulse/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Quotes   QuotesConfig   `mapstructure:"quotes"`
	News     NewsConfig     `mapstructure:"news"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	APIKey      string `mapstructure:"api_key"`
	JobTTLHours int    `mapstructure:"job_ttl_hours"`
	MaxJobs     int    `mapstructure:"max_jobs"`
}

// QuotesConfig controls the market-data provider chain.
type QuotesConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	Symbols         []string      `mapstructure:"symbols"`
	CoinGeckoAPIKey string        `mapstructure:"coingecko_api_key"`
	// SyntheticFallback keeps the dashboard lively when every provider is down.
	SyntheticFallback bool `mapstructure:"synthetic_fallback"`
}

// NewsConfig controls RSS ingestion.
type NewsConfig struct {
	FeedsFile       string        `mapstructure:"feeds_file"`
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	SourceTimeout   time.Duration `mapstructure:"source_timeout"`
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// AnalysisConfig controls the per-category AI analysis pipeline.
type AnalysisConfig struct {
	ResultTTL        time.Duration `mapstructure:"result_ttl"`
	DigestTTL        time.Duration `mapstructure:"digest_ttl"`
	DigestInterval   time.Duration `mapstructure:"digest_interval"`
	ItemsPerCategory int           `mapstructure:"items_per_category"`
	CallGap          time.Duration `mapstructure:"call_gap"`
	InitialDelay     time.Duration `mapstructure:"initial_delay"`
}

// CacheConfig controls digest persistence. The local directory is always
// used; S3 is an optional remote mirror.
type CacheConfig struct {
	Dir string   `mapstructure:"dir"`
	S3  S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			JobTTLHours: 1,
			MaxJobs:     100,
		},
		Quotes: QuotesConfig{
			TTL:               5 * time.Minute,
			RefreshInterval:   5 * time.Minute,
			SyntheticFallback: true,
		},
		News: NewsConfig{
			FeedsFile:       "feeds.json",
			TTL:             15 * time.Minute,
			RefreshInterval: 10 * time.Minute,
			SourceTimeout:   15 * time.Second,
		},
		Analysis: AnalysisConfig{
			ResultTTL:        30 * time.Minute,
			DigestTTL:        1 * time.Hour,
			DigestInterval:   1 * time.Hour,
			ItemsPerCategory: 5,
			CallGap:          2 * time.Second,
			InitialDelay:     1 * time.Second,
		},
		Cache: CacheConfig{
			Dir: "data/cache",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Quotes.TTL <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("quotes ttl must be positive, got %s", c.Quotes.TTL))
	}
	if c.News.TTL <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("news ttl must be positive, got %s", c.News.TTL))
	}
	if c.Analysis.ItemsPerCategory < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("items_per_category must be at least 1, got %d", c.Analysis.ItemsPerCategory))
	}
	if c.Analysis.CallGap < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("call_gap cannot be negative, got %s", c.Analysis.CallGap))
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.LLM.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		}
	}

	return nil
}
