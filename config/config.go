// Package config loads the service configuration from YAML, .env and
// environment variables, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Endpoints EndpointsConfig `mapstructure:"endpoints"`
	Feed      FeedConfig      `mapstructure:"feed"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	APIToken     string        `mapstructure:"api_token"`
}

// EndpointsConfig holds the collaborator endpoint base URLs
type EndpointsConfig struct {
	SearchBaseURL   string        `mapstructure:"search_base_url"`
	RewriteBaseURL  string        `mapstructure:"rewrite_base_url"`
	MetadataTimeout time.Duration `mapstructure:"metadata_timeout"`
	DebugFlag       bool          `mapstructure:"debug_flag"`
}

// FeedConfig holds the aggregation controller configuration
type FeedConfig struct {
	PageSize       int           `mapstructure:"page_size"`
	IdentityKey    string        `mapstructure:"identity_key"`
	MinDiscount    int           `mapstructure:"min_discount"`
	MaxResults     int           `mapstructure:"max_results"`
	HighlightDwell time.Duration `mapstructure:"highlight_dwell"`
	Seeds          []string      `mapstructure:"seeds"`
	SeedDelay      time.Duration `mapstructure:"seed_delay"`
}

// RateLimitConfig holds outbound and inbound rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	MaxRetries        int     `mapstructure:"max_retries"`
	InitialBackoffMs  int     `mapstructure:"initial_backoff_ms"`
	MaxBackoffMs      int     `mapstructure:"max_backoff_ms"`
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// .env is optional; godotenv never overrides variables already set.
	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("DEAL_SERVICE")

	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// loadEnvFile loads the first .env file found in the usual locations
func loadEnvFile() error {
	for _, path := range []string{".env", "config/.env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}
	}
	return fmt.Errorf("no .env file found")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.api_token", "API_TOKEN")

	v.BindEnv("endpoints.search_base_url", "SEARCH_BASE_URL")
	v.BindEnv("endpoints.rewrite_base_url", "REWRITE_BASE_URL")

	v.BindEnv("telemetry.endpoint", "OTLP_ENDPOINT")

	v.BindEnv("logging.level", "LOG_LEVEL")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.api_token", "") // empty disables API auth

	v.SetDefault("endpoints.search_base_url", "http://localhost:8080")
	v.SetDefault("endpoints.rewrite_base_url", "http://localhost:8081")
	v.SetDefault("endpoints.metadata_timeout", 15*time.Second)
	v.SetDefault("endpoints.debug_flag", false)

	v.SetDefault("feed.page_size", 30)
	v.SetDefault("feed.identity_key", "asin")
	v.SetDefault("feed.min_discount", 0)
	v.SetDefault("feed.max_results", 50)
	v.SetDefault("feed.highlight_dwell", 10*time.Second)
	v.SetDefault("feed.seeds", []string{})
	v.SetDefault("feed.seed_delay", time.Second)

	v.SetDefault("rate_limit.requests_per_second", 2)
	v.SetDefault("rate_limit.burst", 4)
	v.SetDefault("rate_limit.max_retries", 3)
	v.SetDefault("rate_limit.initial_backoff_ms", 100)
	v.SetDefault("rate_limit.max_backoff_ms", 30000)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4317")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}
