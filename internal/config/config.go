package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// CatalogConfig holds configuration for the remote catalog API
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds Kafka producer settings
type KafkaConfig struct {
	Enabled bool
	Brokers []string
}

// CartConfig selects the cart storage backend and its key
type CartConfig struct {
	// Backend is one of "redis", "postgres", "memory"
	Backend    string
	StorageKey string
}

// Config holds the storefront service configuration
type Config struct {
	Port            string
	Environment     string
	LogLevel        string
	Catalog         CatalogConfig
	Redis           RedisConfig
	Kafka           KafkaConfig
	Cart            CartConfig
	CacheTTL        time.Duration
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// LoadConfig loads the service configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:        getEnv("HTTP_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Catalog: CatalogConfig{
			BaseURL: getEnv("CATALOG_BASE_URL", "https://dummyjson.com"),
			Timeout: getDuration("CATALOG_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled: getEnv("KAFKA_ENABLED", "false") == "true",
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		},
		Cart: CartConfig{
			Backend:    getEnv("CART_BACKEND", "redis"),
			StorageKey: getEnv("CART_STORAGE_KEY", "cart_product_ids"),
		},
		CacheTTL:        getDuration("LISTING_CACHE_TTL", 1*time.Minute),
		RateLimitMax:    getInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", 1*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
