package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Oracle     OracleConfig
	Cache      CacheConfig
	History    HistoryConfig
	Dictionary DictionaryConfig
	Thresholds ThresholdsConfig
	Patterns   PatternsConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OracleConfig holds nutrition oracle API configuration. An empty API key
// disables the oracle tier entirely.
type OracleConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	RequestsPerHour int    `mapstructure:"requests_per_hour"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HistoryConfig holds meal history storage configuration
type HistoryConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// DictionaryConfig holds food dictionary configuration. OverlayPath points
// at an optional JSON file merged over the built-in entries.
type DictionaryConfig struct {
	OverlayPath string `mapstructure:"overlay_path"`
}

// ThresholdsConfig holds the nutrition thresholds used by recommendations
// and pattern analysis
type ThresholdsConfig struct {
	LowProtein        float64 `mapstructure:"low_protein"`
	GoodProtein       float64 `mapstructure:"good_protein"`
	ProteinTarget     float64 `mapstructure:"protein_target"`
	LowCalories       float64 `mapstructure:"low_calories"`
	HighCalories      float64 `mapstructure:"high_calories"`
	CalorieTarget     float64 `mapstructure:"calorie_target"`
	PatternAlertAfter int     `mapstructure:"pattern_alert_after"`
}

// PatternsConfig holds pattern analysis configuration
type PatternsConfig struct {
	WindowDays int `mapstructure:"window_days"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mindfulplate/")

	// Environment variable settings: MINDFULPLATE_SERVER_PORT -> server.port
	v.SetEnvPrefix("MINDFULPLATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Oracle defaults
	v.SetDefault("oracle.base_url", "https://api.nutritionoracle.io")
	v.SetDefault("oracle.requests_per_hour", 1000)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "720h") // 30 days

	// History defaults
	v.SetDefault("history.db_path", "mindfulplate.db")

	// Threshold defaults
	v.SetDefault("thresholds.low_protein", 60.0)
	v.SetDefault("thresholds.good_protein", 80.0)
	v.SetDefault("thresholds.protein_target", 120.0)
	v.SetDefault("thresholds.low_calories", 1200.0)
	v.SetDefault("thresholds.high_calories", 2200.0)
	v.SetDefault("thresholds.calorie_target", 2000.0)
	v.SetDefault("thresholds.pattern_alert_after", 3)

	// Pattern analysis defaults
	v.SetDefault("patterns.window_days", 14)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.History.DBPath == "" {
		return fmt.Errorf("history database path is required")
	}

	if config.Patterns.WindowDays <= 0 {
		return fmt.Errorf("pattern window must be positive, got: %d", config.Patterns.WindowDays)
	}

	if config.Thresholds.LowProtein >= config.Thresholds.ProteinTarget {
		return fmt.Errorf("low protein threshold must be below the protein target")
	}

	if config.Thresholds.LowCalories >= config.Thresholds.HighCalories {
		return fmt.Errorf("low calorie threshold must be below the high calorie threshold")
	}

	return nil
}
