// Package config loads process configuration from the environment.
//
// Every setting is read once at startup. Keys may be given with the NOTECODE_
// prefix (NOTECODE_PORT) or bare (PORT); the prefixed form wins. A .env file
// in the working directory is loaded first when present, without overriding
// variables that are already set.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/sakif/notecode/internal/idgen"
	"github.com/sakif/notecode/internal/logging"
)

const prefix = "notecode"

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Config struct {
	// Port is the HTTP listen port.
	Port int `envconfig:"PORT" default:"5000"`

	// StoreDriver selects the snippet backend: "sqlite" or "redis".
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`

	// DBPath is the SQLite database file. ":memory:" keeps everything in RAM.
	DBPath string `envconfig:"DB_PATH" default:"data/notecode.db"`

	// RedisURL is used when StoreDriver is "redis". See
	// https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL for the format.
	RedisURL string `envconfig:"REDIS_URL" default:"redis://127.0.0.1:6379/0"`

	// StoreTimeout bounds every individual store call.
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`

	// AllowedOrigins lists origins permitted by CORS, comma separated. "*" allows any.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`

	IDLength          int   `envconfig:"ID_LENGTH" default:"8"`
	MaxCreateAttempts int   `envconfig:"MAX_CREATE_ATTEMPTS" default:"5"`
	MaxBodyBytes      int64 `envconfig:"MAX_BODY_BYTES" default:"102400"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// DevMode switches logs to human-readable console output.
	DevMode bool `envconfig:"DEV_MODE" default:"false"`
}

// Load reads .env (if any) and the environment into a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (*Config, error) {
	var c Config
	if err := envconfig.Process(prefix, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values that would only fail later, at request time.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: PORT must be between 1 and 65535, got %d", c.Port)
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("config: DB_PATH is required for the sqlite driver")
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required for the redis driver")
		}
	default:
		return fmt.Errorf("config: STORE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverRedis, c.StoreDriver)
	}

	if c.StoreTimeout <= 0 {
		return fmt.Errorf("config: STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	if c.IDLength < 1 || c.IDLength > idgen.MaxLength {
		return fmt.Errorf("config: ID_LENGTH must be between 1 and %d, got %d", idgen.MaxLength, c.IDLength)
	}
	if c.MaxCreateAttempts < 1 {
		return fmt.Errorf("config: MAX_CREATE_ATTEMPTS must be at least 1, got %d", c.MaxCreateAttempts)
	}
	if c.MaxBodyBytes < 1 {
		return fmt.Errorf("config: MAX_BODY_BYTES must be at least 1, got %d", c.MaxBodyBytes)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}

	origins := c.AllowedOrigins[:0]
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return fmt.Errorf("config: ALLOWED_ORIGINS must list at least one origin")
	}
	c.AllowedOrigins = origins

	return nil
}
