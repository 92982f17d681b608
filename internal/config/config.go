package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Password PasswordConfig
	Server   ServerConfig
	CORS     CORSConfig
	Query    QueryConfig
	Storage  StorageConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type JWTConfig struct {
	AccessSecret       string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	CleanupInterval    time.Duration
}

type PasswordConfig struct {
	BcryptCost int
}

type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type QueryConfig struct {
	DefaultLimit        int
	MaxLimit            int
	NearbyDefaultRadius float64
}

type StorageConfig struct {
	Driver      string
	AutoMigrate bool
}

type LogConfig struct {
	Level  string
	Format string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "hospital_directory"),
		},
		JWT: JWTConfig{
			AccessSecret:       getEnv("JWT_ACCESS_SECRET", "your-access-secret-key"),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", "your-refresh-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
			CleanupInterval:    parseDuration(getEnv("TOKEN_CLEANUP_INTERVAL", "1h"), time.Hour),
		},
		Password: PasswordConfig{
			BcryptCost: parseInt(getEnv("BCRYPT_COST", "12"), 12),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			GinMode:         getEnv("GIN_MODE", "debug"),
			ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Query: QueryConfig{
			DefaultLimit:        parseInt(getEnv("QUERY_DEFAULT_LIMIT", "10"), 10),
			MaxLimit:            parseInt(getEnv("QUERY_MAX_LIMIT", "100"), 100),
			NearbyDefaultRadius: parseFloat(getEnv("NEARBY_DEFAULT_RADIUS_M", "5000"), 5000),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageMySQL)),
			AutoMigrate: getEnv("DB_AUTO_MIGRATE", "true") == "true",
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	return config
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMySQL, StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q (want %s or %s)", c.Storage.Driver, StorageMySQL, StorageMemory)
	}
	if c.Query.DefaultLimit <= 0 || c.Query.MaxLimit < c.Query.DefaultLimit {
		return fmt.Errorf("QUERY_DEFAULT_LIMIT must be positive and at most QUERY_MAX_LIMIT")
	}
	if c.JWT.CleanupInterval <= 0 {
		return fmt.Errorf("TOKEN_CLEANUP_INTERVAL must be positive")
	}
	if c.Query.NearbyDefaultRadius <= 0 {
		return fmt.Errorf("NEARBY_DEFAULT_RADIUS_M must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, def time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return def
	}
	return duration
}

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Printf("Warning: Invalid integer '%s', using default\n", s)
		return def
	}
	return n
}

func parseFloat(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fmt.Printf("Warning: Invalid number '%s', using default\n", s)
		return def
	}
	return f
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
