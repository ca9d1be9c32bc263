package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storefront StorefrontConfig `mapstructure:"storefront"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Email      EmailConfig      `mapstructure:"email"`
}

// ServerConfig holds the backend API server address
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// StorefrontConfig holds the storefront UI server address
type StorefrontConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// BackendConfig holds the storefront's view of the catalog/orders API
type BackendConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"`
	CatalogTTL    int    `mapstructure:"catalog_ttl"`
}

// EmailConfig holds SMTP settings for order confirmation emails.
// Leaving host or from empty disables delivery; workers then log and skip.
type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Workers  int    `mapstructure:"workers"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.host", "0.0.0.0")

	viper.SetDefault("storefront.port", 8080)
	viper.SetDefault("storefront.host", "0.0.0.0")

	viper.SetDefault("backend.base_url", "http://localhost:8000")
	viper.SetDefault("backend.timeout", 30)
	viper.SetDefault("backend.max_retries", 2)
	viper.SetDefault("backend.max_requests_per_second", 20)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "ziad_store")
	viper.SetDefault("database.user", "ziad_user")
	viper.SetDefault("database.password", "ziad_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.consumer_group", "ziad_consumer")
	viper.SetDefault("redis.min_idle_time", 120)
	viper.SetDefault("redis.catalog_ttl", 300)

	viper.SetDefault("email.smtp_host", "")
	viper.SetDefault("email.smtp_port", 587)
	viper.SetDefault("email.username", "")
	viper.SetDefault("email.password", "")
	viper.SetDefault("email.from", "")
	viper.SetDefault("email.workers", 2)
}
