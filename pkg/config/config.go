package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Upstream registry
	NVDB NVDBConfig

	// In-memory fetch cache
	Cache CacheConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// NVDBConfig holds the NVDB read API configuration
type NVDBConfig struct {
	BaseURL     string
	SchemaPath  string // object-type metadata, {id} appended
	ObjectsPath string // object pages, {id} appended
	ClientID    string // sent as X-Client on every request
	Timeout     time.Duration
	RateLimit   float64 // requests per second, 0 disables limiting

	DefaultRegion  int // fylke code used when the caller gives none
	MinObjects     int
	MaxObjects     int
	DefaultObjects int
}

// CacheConfig holds the fetch cache policy
type CacheConfig struct {
	// TTL of zero keeps entries for the lifetime of the process
	TTL time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		NVDB: NVDBConfig{
			BaseURL:        getEnv("NVDB_BASE_URL", "https://nvdbapiles.atlas.vegvesen.no"),
			SchemaPath:     getEnv("NVDB_SCHEMA_PATH", "/vegobjekttyper"),
			ObjectsPath:    getEnv("NVDB_OBJECTS_PATH", "/vegobjekter/api/v4/vegobjekter"),
			ClientID:       getEnv("NVDB_CLIENT_ID", "demo-dataquality"),
			Timeout:        getEnvAsDuration("NVDB_TIMEOUT", "20s"),
			RateLimit:      getEnvAsFloat("NVDB_RATE_LIMIT", 5),
			DefaultRegion:  getEnvAsInt("NVDB_DEFAULT_REGION", 34),
			MinObjects:     getEnvAsInt("NVDB_MIN_OBJECTS", 100),
			MaxObjects:     getEnvAsInt("NVDB_MAX_OBJECTS", 800),
			DefaultObjects: getEnvAsInt("NVDB_DEFAULT_OBJECTS", 500),
		},

		Cache: CacheConfig{
			TTL: getEnvAsDuration("CACHE_TTL", "0s"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without touching the environment
func Default() *Config {
	return &Config{
		Port: "8089",
		Env:  "development",
		NVDB: NVDBConfig{
			BaseURL:        "https://nvdbapiles.atlas.vegvesen.no",
			SchemaPath:     "/vegobjekttyper",
			ObjectsPath:    "/vegobjekter/api/v4/vegobjekter",
			ClientID:       "demo-dataquality",
			Timeout:        20 * time.Second,
			RateLimit:      5,
			DefaultRegion:  34,
			MinObjects:     100,
			MaxObjects:     800,
			DefaultObjects: 500,
		},
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.NVDB.BaseURL == "" {
		return fmt.Errorf("NVDB_BASE_URL is required")
	}

	if c.NVDB.Timeout <= 0 {
		return fmt.Errorf("NVDB_TIMEOUT must be positive")
	}

	if c.NVDB.RateLimit < 0 {
		return fmt.Errorf("NVDB_RATE_LIMIT must not be negative")
	}

	if c.NVDB.MinObjects < 1 || c.NVDB.MaxObjects < c.NVDB.MinObjects {
		return fmt.Errorf("NVDB_MIN_OBJECTS/NVDB_MAX_OBJECTS must satisfy 1 <= min <= max")
	}

	if c.NVDB.DefaultObjects < c.NVDB.MinObjects || c.NVDB.DefaultObjects > c.NVDB.MaxObjects {
		return fmt.Errorf("NVDB_DEFAULT_OBJECTS must lie within [%d, %d]", c.NVDB.MinObjects, c.NVDB.MaxObjects)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
