package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverSQLite = "sqlite"
	CacheDriverNone   = "none"
)

// Config holds application configuration
type Config struct {
	Port      int
	LogLevel  string
	LogPretty bool

	BackendURL     string
	BackendTimeout time.Duration

	CacheDriver     string
	CacheTTL        time.Duration
	CacheMaxEntries int
	RedisURL        string
	SQLitePath      string

	DebounceWindow time.Duration

	AdminJWTSecret string

	RateLimitCapacity int
	RateLimitWindow   time.Duration

	CORSOrigins []string
}

// Load reads configuration from the environment, after a .env file if one
// exists. Malformed values are errors, not silent defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		Port:      env.getEnvAsInt("PORT", 8080),
		LogLevel:  env.getEnv("LOG_LEVEL", "info"),
		LogPretty: env.getEnvAsBool("LOG_PRETTY", false),

		BackendURL:     env.getEnv("BACKEND_URL", "http://localhost:3001"),
		BackendTimeout: env.getEnvAsDuration("BACKEND_TIMEOUT", 15*time.Second),

		CacheDriver:     strings.ToLower(env.getEnv("CACHE_DRIVER", CacheDriverMemory)),
		CacheTTL:        env.getEnvAsDuration("CACHE_TTL", 10*time.Minute),
		CacheMaxEntries: env.getEnvAsInt("CACHE_MAX_ENTRIES", 10000),
		RedisURL:        env.getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SQLitePath:      env.getEnv("SQLITE_PATH", "./data/lender_cache.db"),

		DebounceWindow: env.getEnvAsDuration("DEBOUNCE_WINDOW", 400*time.Millisecond),

		AdminJWTSecret: env.getEnv("ADMIN_JWT_SECRET", ""),

		RateLimitCapacity: env.getEnvAsInt("RATE_LIMIT_CAPACITY", 100),
		RateLimitWindow:   env.getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),

		CORSOrigins: splitList(env.getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if u, err := url.Parse(c.BackendURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", c.BackendURL))
	}
	if c.BackendTimeout <= 0 {
		errs = append(errs, errors.New("BACKEND_TIMEOUT must be positive"))
	}
	switch c.CacheDriver {
	case CacheDriverMemory, CacheDriverNone:
	case CacheDriverRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis cache driver"))
		}
	case CacheDriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite cache driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("CACHE_DRIVER must be memory, redis, sqlite or none, got %q", c.CacheDriver))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}
	if c.CacheMaxEntries < 0 {
		errs = append(errs, errors.New("CACHE_MAX_ENTRIES must not be negative"))
	}
	if c.DebounceWindow <= 0 {
		errs = append(errs, errors.New("DEBOUNCE_WINDOW must be positive"))
	}
	if c.RateLimitCapacity <= 0 || c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_CAPACITY and RATE_LIMIT_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

// AdminEnabled reports whether the admin routes can be served.
func (c *Config) AdminEnabled() bool {
	return c.AdminJWTSecret != ""
}

// envReader reads typed variables and remembers every malformed one.
type envReader struct {
	errs []error
}

func (r *envReader) getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func (r *envReader) getEnvAsInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, value))
		return defaultValue
	}
	return intVal
}

func (r *envReader) getEnvAsBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid boolean %q", key, value))
		return defaultValue
	}
	return boolVal
}

func (r *envReader) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", key, value))
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
