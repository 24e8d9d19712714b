package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/forward-rent/prequal/internal/bureau"
	"github.com/forward-rent/prequal/internal/consent"
	"github.com/forward-rent/prequal/internal/fingerprint"
)

const (
	defaultAppName          = "ForwardPrequal"
	defaultAppEnv           = "development"
	defaultPort             = "8080"
	defaultLogLevel         = "info"
	defaultShutdownDelay    = 10 * time.Second
	defaultIdempotencyTTL   = 24 * time.Hour
	defaultBureauTimeout    = 30 * time.Second
	defaultPrequalRateLimit = 5
	idemTTLSecondsEnvVar    = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar        = "IDEMPOTENCY_TTL"
	shutdownSecondsEnvVar   = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar  = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	Bureau           bureau.Config
	EncryptionSecret string
	IdentitySalt     string
	ConsentSkew      time.Duration
	// PrequalRateLimit is the number of prequal attempts allowed per
	// applicant per minute. Zero disables the limit.
	PrequalRateLimit int
}

// Load reads configuration values from the environment and populates a Config
// instance. A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,
		Bureau: bureau.Config{
			BaseURL:  getEnv("BUREAU_BASE_URL", bureau.DefaultBaseURL),
			Username: os.Getenv("BUREAU_USERNAME"),
			Password: os.Getenv("BUREAU_PASSWORD"),
			Timeout:  defaultBureauTimeout,
		},
		EncryptionSecret: os.Getenv("ENCRYPTION_SECRET"),
		IdentitySalt:     getEnv("SSN_SALT", fingerprint.DefaultSalt),
		ConsentSkew:      consent.DefaultSkew,
		PrequalRateLimit: defaultPrequalRateLimit,
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.Bureau.Timeout, err = durationEnv("", "BUREAU_TIMEOUT", cfg.Bureau.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.ConsentSkew, err = durationEnv("", "CONSENT_SKEW", cfg.ConsentSkew); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("PREQUAL_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid PREQUAL_RATE_LIMIT: %q", v)
		}
		cfg.PrequalRateLimit = n
	}

	if !cfg.IsDevelopment() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set")
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set")
		}
	}

	return cfg, nil
}

// IsDevelopment reports whether in-memory fallbacks are allowed.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == defaultAppEnv
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// durationEnv reads whole seconds from secondsKey, falling back to a Go
// duration string in durationKey.
func durationEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if secondsKey != "" {
		if v := os.Getenv(secondsKey); v != "" {
			seconds, err := strconv.Atoi(v)
			if err != nil {
				return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
			}
			return time.Duration(seconds) * time.Second, nil
		}
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
