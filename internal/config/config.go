package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	S3        S3Config
	Image     ImageConfig
	Cache     CacheConfig
	FastCache FastCacheConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Logger    LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host      string
	Port      string
	GinMode   string
	PublicURL string // Base URL advertised in upload responses
}

// S3Config holds object storage configuration (MinIO/Garage compatible)
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ImageConfig holds transform pipeline configuration
type ImageConfig struct {
	MaxWidth        int
	MaxHeight       int
	Quality         int    // Default encode quality 1-100
	MaxFileSize     int64  // Upload size limit in bytes
	BackgroundColor string // Hex fill for rotation exposing the canvas
}

// CacheConfig holds the durable object-storage cache tier configuration
type CacheConfig struct {
	Enabled bool
	MaxAge  int // Cache-Control max-age in seconds
}

// FastCacheConfig holds the optional low-latency cache tier configuration.
// Supports two backend types:
// - "dragonfly": Redis-protocol server (Dragonfly, Redis, KeyDB)
// - "badger": embedded BadgerDB, no external dependencies
type FastCacheConfig struct {
	Enabled   bool
	Type      string // "dragonfly" or "badger"
	Host      string // Dragonfly host
	Port      int    // Dragonfly port
	Password  string
	Directory string        // BadgerDB directory (only used when type=badger)
	TTL       time.Duration // Default TTL for cached renditions
}

// AuthConfig holds API key authentication configuration
type AuthConfig struct {
	Enabled   bool
	APIKeys   []string
	KeyHeader string
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	Max    int           // Requests allowed per window
	Window time.Duration // Rolling window length
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "console"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Host:      getEnv("HOST", "0.0.0.0"),
			Port:      getEnv("PORT", "3000"),
			GinMode:   getEnv("GIN_MODE", "release"),
			PublicURL: getEnv("PUBLIC_URL", ""),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", "http://localhost:9000"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", "images"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			UseSSL:    getEnvBool("S3_USE_SSL", false),
		},
		Image: ImageConfig{
			MaxWidth:        getEnvInt("MAX_WIDTH", 1920),
			MaxHeight:       getEnvInt("MAX_HEIGHT", 1080),
			Quality:         getEnvInt("IMAGE_QUALITY", 80),
			MaxFileSize:     int64(getEnvInt("MAX_FILE_SIZE", 52428800)), // 50MB default
			BackgroundColor: getEnv("BACKGROUND_COLOR", "#000000"),
		},
		Cache: CacheConfig{
			Enabled: getEnvBool("CACHE_ENABLED", true),
			MaxAge:  getEnvInt("CACHE_MAX_AGE", 86400),
		},
		FastCache: FastCacheConfig{
			Enabled:   getEnvBool("DRAGONFLY_ENABLED", false),
			Type:      getEnv("FAST_CACHE_TYPE", "dragonfly"),
			Host:      getEnv("DRAGONFLY_HOST", "localhost"),
			Port:      getEnvInt("DRAGONFLY_PORT", 6379),
			Password:  getEnv("DRAGONFLY_PASSWORD", ""),
			Directory: getEnv("BADGER_DIRECTORY", "./data/cache"),
			TTL:       time.Duration(getEnvInt("DRAGONFLY_CACHE_TTL", 3600)) * time.Second,
		},
		Auth: AuthConfig{
			Enabled:   getEnvBool("ENABLE_API_KEY_AUTH", false),
			APIKeys:   getEnvStringSlice("API_KEYS", []string{}),
			KeyHeader: getEnv("API_KEY_HEADER", "X-API-Key"),
		},
		RateLimit: RateLimitConfig{
			Max:    getEnvInt("RATE_LIMIT_MAX", 100),
			Window: time.Duration(getEnvInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate S3 configuration
	if c.S3.Endpoint == "" {
		return fmt.Errorf("S3_ENDPOINT is required")
	}
	if c.S3.AccessKey == "" {
		return fmt.Errorf("S3_ACCESS_KEY is required")
	}
	if c.S3.SecretKey == "" {
		return fmt.Errorf("S3_SECRET_KEY is required")
	}
	if c.S3.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required")
	}

	// Validate server configuration
	if c.Server.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	// Validate image configuration
	if c.Image.MaxWidth <= 0 {
		return fmt.Errorf("MAX_WIDTH must be a positive integer")
	}
	if c.Image.MaxHeight <= 0 {
		return fmt.Errorf("MAX_HEIGHT must be a positive integer")
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		return fmt.Errorf("IMAGE_QUALITY must be between 1 and 100")
	}
	if c.Image.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	// Validate fast cache configuration
	validFastCacheTypes := []string{"dragonfly", "badger"}
	if c.FastCache.Enabled && !contains(validFastCacheTypes, c.FastCache.Type) {
		return fmt.Errorf("FAST_CACHE_TYPE must be one of: %s", strings.Join(validFastCacheTypes, ", "))
	}
	if c.FastCache.Enabled && c.FastCache.Type == "badger" && c.FastCache.Directory == "" {
		return fmt.Errorf("BADGER_DIRECTORY is required when FAST_CACHE_TYPE=badger")
	}

	// Validate auth configuration
	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("API_KEYS is required when ENABLE_API_KEY_AUTH=true")
	}

	// Validate rate limit configuration
	if c.RateLimit.Max <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be a positive integer")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be a positive integer")
	}

	// Validate logger configuration
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "console"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.GinMode == "debug" || c.Logger.Format == "console"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.GinMode == "release" && c.Logger.Format == "json"
}

// ListenAddr returns the host:port address the HTTP server binds to
func (c *Config) ListenAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Helper functions for environment variable parsing

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as integer or default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns environment variable as boolean or default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvStringSlice returns environment variable as string slice or default
func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		// Split by comma and trim spaces
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// contains checks if slice contains value
func contains(slice []string, value string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
