// Package config builds runtime configuration from environment variables so
// main stays lean. Business policy values (fee percentages, limits, score
// weights) live in the config documents or here as tunables; this package
// never decides them, it only carries them.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration.
type Config struct {
	Addr       string
	AdminToken string

	// JWTSigningKey verifies bearer tokens on identity-scoped endpoints.
	JWTSigningKey string

	Redis    RedisConfig
	Postgres PostgresConfig

	// EntitlementCacheTTL bounds staleness of the gate's config cache.
	EntitlementCacheTTL time.Duration

	// External payment processor deductions used for organiser net.
	ProcessorRatePct  float64
	ProcessorFixedGBP float64

	// Fleet score sweep backpressure tunables.
	ScoreSweepBatchSize int
	ScoreSweepPause     time.Duration

	// Venue score weights. The formula shape is fixed; only weights move.
	ScoreWeights ScoreWeights
}

// RedisConfig holds Redis connection settings. An empty URL disables Redis
// and the process falls back to in-memory stores.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds PostgreSQL settings. An empty DSN disables Postgres.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// ScoreWeights are the per-event-kind contributions to a venue trust score.
type ScoreWeights struct {
	EventCompleted float64
	Refund         float64
	Dispute        float64
	SafetyIncident float64
}

// FromEnv builds a Config from environment variables with dev-friendly defaults.
func FromEnv() Config {
	return Config{
		Addr:          envString("GATEHOUSE_ADDR", ":8080"),
		AdminToken:    os.Getenv("GATEHOUSE_ADMIN_TOKEN"),
		JWTSigningKey: envString("GATEHOUSE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Redis: RedisConfig{
			URL:          os.Getenv("GATEHOUSE_REDIS_URL"),
			PoolSize:     envInt("GATEHOUSE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("GATEHOUSE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("GATEHOUSE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("GATEHOUSE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("GATEHOUSE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN:          os.Getenv("GATEHOUSE_POSTGRES_DSN"),
			MaxOpenConns: envInt("GATEHOUSE_POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("GATEHOUSE_POSTGRES_MAX_IDLE_CONNS", 5),
		},
		EntitlementCacheTTL: envDuration("GATEHOUSE_ENTITLEMENT_CACHE_TTL", 30*time.Second),
		ProcessorRatePct:    envFloat("GATEHOUSE_PROCESSOR_RATE_PCT", 2.9),
		ProcessorFixedGBP:   envFloat("GATEHOUSE_PROCESSOR_FIXED_GBP", 0.20),
		ScoreSweepBatchSize: envInt("GATEHOUSE_SCORE_SWEEP_BATCH_SIZE", 10),
		ScoreSweepPause:     envDuration("GATEHOUSE_SCORE_SWEEP_PAUSE", 100*time.Millisecond),
		ScoreWeights: ScoreWeights{
			EventCompleted: envFloat("GATEHOUSE_SCORE_WEIGHT_EVENT", 10),
			Refund:         envFloat("GATEHOUSE_SCORE_WEIGHT_REFUND", -20),
			Dispute:        envFloat("GATEHOUSE_SCORE_WEIGHT_DISPUTE", -50),
			SafetyIncident: envFloat("GATEHOUSE_SCORE_WEIGHT_SAFETY", -100),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
