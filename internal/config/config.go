package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables
// (optionally seeded from a .env file). Every field has a sensible default;
// only DATABASE_URL is required.
type Config struct {
	// Server
	HTTPPort        string        `mapstructure:"http_port" validate:"required,numeric"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`

	// Database
	DatabaseURL    string `mapstructure:"database_url" validate:"required"`
	DBMaxConns     int32  `mapstructure:"db_max_conns" validate:"min=1"`
	DBMinConns     int32  `mapstructure:"db_min_conns" validate:"min=0,ltefield=DBMaxConns"`
	MigrationsPath string `mapstructure:"migrations_path" validate:"required"`

	// Notification publisher
	PublisherStrategy string `mapstructure:"publisher_strategy" validate:"oneof=channel parallel"`
	PublisherCapacity int    `mapstructure:"publisher_capacity" validate:"min=1"`

	// Cache
	CacheTTL           time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`
	CacheSize          int           `mapstructure:"cache_size" validate:"min=1"`
	CacheEntryTTL      time.Duration `mapstructure:"cache_entry_ttl" validate:"gte=0"`
	CacheSweepInterval time.Duration `mapstructure:"cache_sweep_interval" validate:"gt=0"`

	// Requests slower than this are logged at Warn
	SlowRequestThreshold time.Duration `mapstructure:"slow_request_threshold" validate:"gt=0"`

	// Webhook relay; disabled when URL is empty
	WebhookURL       string        `mapstructure:"webhook_url" validate:"omitempty,url"`
	WebhookTimeout   time.Duration `mapstructure:"webhook_timeout" validate:"gt=0"`
	WebhookRateLimit int           `mapstructure:"webhook_rate_limit" validate:"min=0"`

	// AMQP relay; disabled when URL is empty
	AMQPURL      string `mapstructure:"amqp_url" validate:"omitempty,url"`
	AMQPExchange string `mapstructure:"amqp_exchange" validate:"required_with=AMQPURL"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

var defaults = map[string]any{
	"http_port":              "8080",
	"read_timeout":           5 * time.Second,
	"write_timeout":          10 * time.Second,
	"shutdown_timeout":       30 * time.Second,
	"database_url":           "",
	"db_max_conns":           25,
	"db_min_conns":           5,
	"migrations_path":        "file://migrations",
	"publisher_strategy":     "channel",
	"publisher_capacity":     1000,
	"cache_ttl":              30 * time.Minute,
	"cache_size":             10000,
	"cache_entry_ttl":        time.Hour,
	"cache_sweep_interval":   time.Minute,
	"slow_request_threshold": 500 * time.Millisecond,
	"webhook_url":            "",
	"webhook_timeout":        10 * time.Second,
	"webhook_rate_limit":     50,
	"amqp_url":               "",
	"amqp_exchange":          "dashcore.events",
	"log_level":              "info",
}

// Load reads configuration with priority: environment, then .env, then defaults.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.PublisherStrategy = strings.ToLower(cfg.PublisherStrategy)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", formatValidationError(err))
	}
	return &cfg, nil
}

// formatValidationError names the offending fields by their env key.
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s' (value: '%v')",
			envName(e.StructField()), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}

func envName(field string) string {
	switch field {
	case "DatabaseURL":
		return "DATABASE_URL"
	case "AMQPURL":
		return "AMQP_URL"
	case "AMQPExchange":
		return "AMQP_EXCHANGE"
	case "WebhookURL":
		return "WEBHOOK_URL"
	case "HTTPPort":
		return "HTTP_PORT"
	}
	return field
}
