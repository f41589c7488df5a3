package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MinSecretLength is the shortest signing secret the service will start with.
const MinSecretLength = 32

// ErrSecretTooShort aborts startup when the signing secret is missing or weak.
var ErrSecretTooShort = errors.New("AUTH_JWT_SECRET missing or too short (use >= 32 chars)")

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Insights InsightsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level   string
	Service string
}

// AuthConfig defines session signing parameters.
type AuthConfig struct {
	JWTSecret      string
	SessionTTLDays int
	BcryptCost     int
}

// InsightsConfig points at the remote BI data API.
type InsightsConfig struct {
	BaseURL         string
	TimeoutSeconds  int
	CacheTTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where
// possible. The signing secret has no default: a missing or short secret is a
// startup failure, never a degraded run.
func Load() (*Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("AUTH_JWT_SECRET")
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "bi-dashboard"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Service: getEnv("APP_NAME", "bi-dashboard"),
		},
		Auth: AuthConfig{
			JWTSecret:      secret,
			SessionTTLDays: getEnvAsInt("AUTH_SESSION_TTL_DAYS", 7),
			BcryptCost:     getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Insights: InsightsConfig{
			BaseURL:         getEnv("INSIGHTS_API_URL", "http://localhost:4000"),
			TimeoutSeconds:  getEnvAsInt("INSIGHTS_TIMEOUT_SECONDS", 10),
			CacheTTLSeconds: getEnvAsInt("INSIGHTS_CACHE_TTL_SECONDS", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// Production reports whether the service runs in its production environment.
func (a AppConfig) Production() bool {
	return a.Env == "production"
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns the credential lifetime.
func (a AuthConfig) SessionTTL() time.Duration {
	days := a.SessionTTLDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// Timeout returns the upstream request timeout.
func (i InsightsConfig) Timeout() time.Duration {
	if i.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(i.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long upstream responses stay cached.
func (i InsightsConfig) CacheTTL() time.Duration {
	if i.CacheTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(i.CacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
