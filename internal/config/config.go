// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	HTTPAddr     string
	StoreBackend string

	DatabaseURL string

	RedisURL          string
	RedisRequestsKey  string
	RedisCampaignsKey string

	AMQPURL     string
	ReviewQueue string

	ValuationPolicyPath string
	// Location decides where a calendar day starts when as_of is not given.
	Location *time.Location

	LogLevel  string
	LogFormat string
}

const (
	defaultHTTPAddr          = ":8080"
	defaultRedisRequestsKey  = "collaborationRequests"
	defaultRedisCampaignsKey = "collaborations"
	defaultReviewQueue       = "request_reviewed"
	defaultPolicyPath        = "config/valuation.yaml"
)

// Load reads .env files (when present) and the process environment.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:            getEnv("HTTP_ADDR", defaultHTTPAddr),
		StoreBackend:        strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
		DatabaseURL:         firstNonEmpty(os.Getenv("DATABASE_URL"), dsnFromParts()),
		RedisURL:            os.Getenv("REDIS_URL"),
		RedisRequestsKey:    getEnv("REDIS_REQUESTS_KEY", defaultRedisRequestsKey),
		RedisCampaignsKey:   getEnv("REDIS_CAMPAIGNS_KEY", defaultRedisCampaignsKey),
		AMQPURL:             os.Getenv("AMQP_URL"),
		ReviewQueue:         getEnv("REVIEW_QUEUE", defaultReviewQueue),
		ValuationPolicyPath: getEnv("VALUATION_POLICY_PATH", defaultPolicyPath),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
		Location:            time.UTC,
	}

	if tz := os.Getenv("APP_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("APP_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL or DB_HOST/DB_NAME required for the postgres backend")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL required for the redis backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return cfg, nil
}

// dsnFromParts assembles a DSN from the DB_* variables.
func dsnFromParts() string {
	host := os.Getenv("DB_HOST")
	name := os.Getenv("DB_NAME")
	if host == "" || name == "" {
		return ""
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), host, getEnv("DB_PORT", "5432"), name,
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
