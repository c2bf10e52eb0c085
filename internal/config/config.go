package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "LISTING"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Fetcher FetcherConfig `mapstructure:"fetcher"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Events  EventsConfig  `mapstructure:"events"`
	Logging LoggingConfig `mapstructure:"logging"`
	API     APIConfig     `mapstructure:"api"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	// RequestsPerMinute is the per-client-IP budget on the parse endpoint.
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	RequestBurst      int `mapstructure:"request_burst"`
}

type FetcherConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	UserAgents   []string      `mapstructure:"user_agents"`
}

type RetryConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	MinDelay     time.Duration `mapstructure:"min_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	RetryAntiBot bool          `mapstructure:"retry_anti_bot"`
}

type EventsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	Stream        string `mapstructure:"stream"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type APIConfig struct {
	// DemoMode serves a canned record for URLs containing /test/.
	DemoMode bool `mapstructure:"demo_mode"`
}

// Load reads defaults, an optional config file and LISTING_* environment
// variables, in increasing order of precedence. An empty path searches
// ./config.yaml, ./config/config.yaml and /etc/listing-extractor/.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/listing-extractor/")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.requests_per_minute", 30)
	v.SetDefault("server.request_burst", 5)

	v.SetDefault("fetcher.timeout", "8s")
	v.SetDefault("fetcher.max_body_bytes", 5<<20)
	v.SetDefault("fetcher.user_agents", []string{})

	v.SetDefault("retry.max_attempts", 2)
	v.SetDefault("retry.min_delay", "500ms")
	v.SetDefault("retry.max_delay", "1500ms")
	v.SetDefault("retry.retry_anti_bot", true)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.redis_addr", "localhost:6379")
	v.SetDefault("events.redis_password", "")
	v.SetDefault("events.redis_db", 0)
	v.SetDefault("events.stream", "stream:product_extraction")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("api.demo_mode", true)
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	if c.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be positive")
	}
	if c.Server.WriteTimeout > 0 && c.Fetcher.Timeout >= c.Server.WriteTimeout {
		return fmt.Errorf("fetcher.timeout (%s) must be shorter than server.write_timeout (%s)",
			c.Fetcher.Timeout, c.Server.WriteTimeout)
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Retry.MinDelay < 0 || c.Retry.MaxDelay < c.Retry.MinDelay {
		return fmt.Errorf("retry delays must satisfy 0 <= min_delay <= max_delay")
	}

	if c.Server.RequestsPerMinute < 1 {
		return fmt.Errorf("server.requests_per_minute must be at least 1")
	}

	if c.Events.Enabled && c.Events.RedisAddr == "" {
		return fmt.Errorf("events.redis_addr is required when events are enabled")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'text', got: %s", c.Logging.Format)
	}

	return nil
}
