package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPass        string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	JWTSecret     string
	JWTRefresh    string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Port          string
	Env           string
	UploadDir     string
	PublicBaseURL string
	MaxUploadSize int64
	LogLevel      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RateLimit     RateLimitConfig

	AMQPURL string
}

// RateLimitConfig controls the Redis token bucket guarding login and booking creation.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillInterval time.Duration
	Prefix         string
}

func NewConfigFromEnv() (*Config, error) {
	maxUploadSize, _ := strconv.ParseInt(getenv("MAX_UPLOAD_SIZE", "2097152"), 10, 64)
	redisDB, _ := strconv.Atoi(getenv("REDIS_DB", "0"))
	capacity, _ := strconv.Atoi(getenv("RATE_LIMIT_CAPACITY", "20"))

	cfg := &Config{
		DBDriver:      getenv("DB_DRIVER", "postgres"),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPass:        getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "ticketing"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		SQLitePath:    getenv("SQLITE_PATH", "ticketing.db"),
		JWTSecret:     getenv("JWT_SECRET", ""),
		JWTRefresh:    getenv("JWT_REFRESH_SECRET", ""),
		AccessTTL:     getduration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:    getduration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		Port:          getenv("PORT", "3000"),
		Env:           getenv("ENV", "development"),
		UploadDir:     getenv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:3000"),
		MaxUploadSize: maxUploadSize,
		LogLevel:      getenv("LOG_LEVEL", "info"),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		RateLimit: RateLimitConfig{
			Enabled:        getenv("RATE_LIMIT_ENABLED", "true") == "true",
			Capacity:       capacity,
			RefillInterval: getduration("RATE_LIMIT_REFILL_INTERVAL", 3*time.Second),
			Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
		},
		AMQPURL: getenv("AMQP_URL", ""),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.JWTRefresh == "" {
		return nil, errors.New("JWT_REFRESH_SECRET is required")
	}
	if cfg.JWTRefresh == cfg.JWTSecret {
		return nil, errors.New("JWT_REFRESH_SECRET must differ from JWT_SECRET")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, errors.New("DB_DRIVER must be postgres or sqlite")
	}
	if cfg.RateLimit.Capacity < 1 {
		cfg.RateLimit.Capacity = 1
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getduration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
