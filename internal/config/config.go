// Package config loads process configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret signs tokens when JWT_SECRET is unset. Validate only
// accepts it with DEV_AUTH=true.
const DefaultJWTSecret = "homi-default-dev-secret-change-me"

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSupabase = "supabase"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port            int
	LogLevel        string
	ShutdownTimeout time.Duration

	// Persistence
	StoreBackend           string
	DatabaseURL            string
	SupabaseURL            string
	SupabaseServiceRoleKey string

	// Cache
	RedisAddr string
	CacheTTL  time.Duration

	// Simulation defaults, overridable per request
	SimTrials        int
	SimHorizonMonths int
	SimVolatility    float64
	SimWorkers       int

	// Resilience
	MaxConcurrentSimulations int
	MaxRetries               int
	InitialBackoff           time.Duration
	HTTPTimeout              time.Duration

	// Observability
	OTLPEndpoint string

	// JWT / Auth
	JWTSecret    string
	JWTAccessTTL time.Duration

	// Dev mode
	DevAuth bool // DEV_AUTH=true seeds a demo coach in the memory store
}

// LoadDotEnv reads .env files into the environment without overriding
// variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:            getEnvInt("PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),

		StoreBackend:           strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),

		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheTTL:  getEnvDuration("CACHE_TTL", 10*time.Minute),

		SimTrials:        getEnvInt("SIM_TRIALS", 10000),
		SimHorizonMonths: getEnvInt("SIM_HORIZON_MONTHS", 360),
		SimVolatility:    getEnvFloat("SIM_VOLATILITY", 0.15),
		SimWorkers:       getEnvInt("SIM_WORKERS", 0),

		MaxConcurrentSimulations: getEnvInt("MAX_CONCURRENT_SIMULATIONS", 8),
		MaxRetries:               getEnvInt("MAX_RETRIES", 3),
		InitialBackoff:           getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		HTTPTimeout:              getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		JWTSecret:    getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTAccessTTL: getEnvDuration("JWT_ACCESS_TTL", 8*time.Hour),

		DevAuth: getEnv("DEV_AUTH", "false") == "true",
	}
}

// Validate checks that the selected backend has what it needs and that
// coach tokens are not signed with the built-in secret outside dev mode.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("STORE_BACKEND=postgres requires DATABASE_URL")
		}
	case StoreSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceRoleKey == "" {
			return errors.New("STORE_BACKEND=supabase requires SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.SimTrials <= 0 || c.SimHorizonMonths <= 0 || c.SimVolatility < 0 {
		return errors.New("SIM_TRIALS and SIM_HORIZON_MONTHS must be positive, SIM_VOLATILITY non-negative")
	}
	if !c.DevAuth && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set unless DEV_AUTH=true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
