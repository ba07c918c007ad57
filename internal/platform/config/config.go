// Package config centralizes environment-driven configuration so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "github.com/agusdc111/arreglocuil/pkg/platform/strings"
)

// Server captures the full service configuration.
type Server struct {
	Addr string

	// LogLevel selects the slog level: debug, info, warn or error.
	LogLevel string

	// CoreAPIURL is the base URL of the scraping core service.
	CoreAPIURL string

	// PrimaryMethod selects the first identity provider in the fallback
	// chain: "afip" (default) or "cuitonline".
	PrimaryMethod string

	// AliasPath points at the health-fund alias table (JSON).
	AliasPath string

	// AllowedChannelIDs restricts which channels may run verifications.
	// Empty means no restriction.
	AllowedChannelIDs []string

	JWTSigningKey string

	// HealthcheckURL is pinged periodically by the heartbeat when set.
	HealthcheckURL string

	Redis RedisConfig

	// DatabaseURL enables the Postgres audit store when set.
	DatabaseURL string

	// KafkaBrokers enables the Kafka audit mirror when set.
	KafkaBrokers []string
	KafkaTopic   string

	Batch BatchConfig

	// RateLimit caps requests per client IP per minute.
	RateLimit int
}

// RedisConfig carries the connection settings for the rate-limit store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// BatchConfig paces the batch workflows.
type BatchConfig struct {
	EmploymentCap   int
	MonoCap         int
	EmploymentDelay time.Duration
	MonoDelay       time.Duration
	Cooldown        time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:              getString("ARREGLOCUIL_ADDR", ":8080"),
		LogLevel:          getString("LOG_LEVEL", "info"),
		CoreAPIURL:        getString("CORE_API_URL", "http://localhost:3500"),
		PrimaryMethod:     getString("CALI_PRIMARY_METHOD", "afip"),
		AliasPath:         getString("ALIAS_OBRAS_SOCIALES_PATH", "alias_obras_sociales.json"),
		AllowedChannelIDs: getList("ALLOWED_CHANNEL_IDS"),
		// Development default, must be overridden in production.
		JWTSigningKey:  getString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		HealthcheckURL: os.Getenv("HEALTHCHECK_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		KafkaBrokers: getList("KAFKA_BROKERS"),
		KafkaTopic:   os.Getenv("KAFKA_AUDIT_TOPIC"),
		Batch: BatchConfig{
			EmploymentCap:   getInt("BATCH_EMPLOYMENT_CAP", 100),
			MonoCap:         getInt("BATCH_MONO_CAP", 170),
			EmploymentDelay: getDuration("BATCH_EMPLOYMENT_DELAY", 0),
			MonoDelay:       getDuration("BATCH_MONO_DELAY", 7*time.Second),
			Cooldown:        getDuration("BATCH_RATE_LIMIT_COOLDOWN", 60*time.Second),
		},
		RateLimit: getInt("RATE_LIMIT_PER_MINUTE", 60),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	return platformstrings.DedupeAndTrim(strings.Split(v, ","))
}
