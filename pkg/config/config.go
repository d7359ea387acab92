// ABOUTME: Configuration management for the bot with environment variable support
// ABOUTME: Defines configuration structures for chat, provider, cache, server and logging

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	coreerrors "songfinder-bot/core/errors"
	"songfinder-bot/pkg/utils/parse"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Telegram contains chat transport configuration
	Telegram TelegramConfig

	// Genius contains lyrics provider configuration
	Genius GeniusConfig

	// Search contains search workflow configuration
	Search SearchConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Server contains HTTP API configuration
	Server ServerConfig

	// Worker contains update processing configuration
	Worker WorkerConfig

	// RateLimit contains throttling configuration
	RateLimit RateLimitConfig

	// Speech contains voice recognition and synthesis configuration
	Speech SpeechConfig

	// Log contains logging configuration
	Log LogConfig
}

// TelegramConfig holds chat transport configuration
type TelegramConfig struct {
	// BotToken authenticates the bot, required
	BotToken string
}

// GeniusConfig holds lyrics provider configuration
type GeniusConfig struct {
	// APIKey is the provider bearer token; searches fail without it
	APIKey string

	// BaseURL is the provider API root
	BaseURL string

	// PerPage is the result cap per search
	PerPage int
}

// SearchConfig holds search workflow configuration
type SearchConfig struct {
	// Timeout bounds each provider request
	Timeout time.Duration

	// CacheTTL is the lifetime of cached results
	CacheTTL time.Duration
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int

	// KeyPrefix namespaces every key
	KeyPrefix string
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string
}

// WorkerConfig holds update processing configuration
type WorkerConfig struct {
	// Count is the number of concurrent chat workers
	Count int

	// QueueSize is the backlog per worker
	QueueSize int
}

// RateLimitConfig holds throttling configuration
type RateLimitConfig struct {
	// ChatPerMinute is the sustained message rate per chat
	ChatPerMinute int

	// ChatBurst is the number of messages a chat may send at once
	ChatBurst int

	// APIPerMinute is the HTTP API request rate per client IP
	APIPerMinute int
}

// SpeechConfig holds voice configuration
type SpeechConfig struct {
	// LanguageCode is the BCP-47 code used for recognition and synthesis
	LanguageCode string

	// VoiceName selects the synthesis voice
	VoiceName string

	// Timeout bounds voice download and recognition
	Timeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Load reads optional .env files and then the environment.
// Variables already set in the environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return LoadFromEnv()
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: os.Getenv("BOT_TOKEN"),
		},
		Genius: GeniusConfig{
			APIKey:  os.Getenv("GENIUS_API_KEY"),
			BaseURL: getEnvOrDefault("GENIUS_BASE_URL", "https://api.genius.com"),
			PerPage: getEnvAsIntOrDefault("GENIUS_PER_PAGE", 5),
		},
		Search: SearchConfig{
			Timeout:  getEnvAsSecondsOrDefault("SEARCH_TIMEOUT_SECONDS", 10),
			CacheTTL: time.Duration(getEnvAsIntOrDefault("SEARCH_CACHE_TTL_HOURS", 24)) * time.Hour,
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:   getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password:  getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:        getEnvAsIntOrDefault("REDIS_DB", 0),
				KeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "songfinder:"),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_CACHE_PATH", "songfinder-cache.db"),
			},
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8000"),
		},
		Worker: WorkerConfig{
			Count:     getEnvAsIntOrDefault("WORKER_COUNT", 10),
			QueueSize: getEnvAsIntOrDefault("WORKER_QUEUE_SIZE", 100),
		},
		RateLimit: RateLimitConfig{
			ChatPerMinute: getEnvAsIntOrDefault("CHAT_RATE_PER_MINUTE", 20),
			ChatBurst:     getEnvAsIntOrDefault("CHAT_RATE_BURST", 5),
			APIPerMinute:  getEnvAsIntOrDefault("API_RATE_PER_MINUTE", 100),
		},
		Speech: SpeechConfig{
			LanguageCode: getEnvOrDefault("SPEECH_LANGUAGE", "en-US"),
			VoiceName:    getEnvOrDefault("SPEECH_VOICE", "en-US-Neural2-J"),
			Timeout:      getEnvAsSecondsOrDefault("SPEECH_TIMEOUT_SECONDS", 30),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
			File:   os.Getenv("LOG_FILE"),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	return parse.IntOrDefault(os.Getenv(key), defaultValue)
}

func getEnvAsSecondsOrDefault(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvAsIntOrDefault(key, defaultSeconds)) * time.Second
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return &coreerrors.ConfigurationError{
			Setting: "BOT_TOKEN",
			Message: "environment variable not set",
		}
	}

	if c.Server.Port == "" {
		return &coreerrors.ConfigurationError{Setting: "PORT", Message: "port cannot be empty"}
	}

	if c.Genius.PerPage < 1 {
		return &coreerrors.ConfigurationError{Setting: "GENIUS_PER_PAGE", Message: "must be at least 1"}
	}

	if c.Search.Timeout <= 0 {
		return &coreerrors.ConfigurationError{Setting: "SEARCH_TIMEOUT_SECONDS", Message: "must be positive"}
	}

	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return &coreerrors.ConfigurationError{Setting: "REDIS_ADDRESS", Message: "redis address cannot be empty when using redis cache"}
		}
	case "sqlite":
		if c.Cache.SQLite.Path == "" {
			return &coreerrors.ConfigurationError{Setting: "SQLITE_CACHE_PATH", Message: "path cannot be empty when using sqlite cache"}
		}
	default:
		return &coreerrors.ConfigurationError{Setting: "CACHE_TYPE", Message: "cache type must be 'memory', 'redis' or 'sqlite'"}
	}

	if c.Worker.Count < 1 {
		return &coreerrors.ConfigurationError{Setting: "WORKER_COUNT", Message: "must be at least 1"}
	}

	return nil
}

// HasGeniusKey reports whether searches can reach the provider
func (c *Config) HasGeniusKey() bool {
	return c.Genius.APIKey != ""
}
