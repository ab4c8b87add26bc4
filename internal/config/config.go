package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/vytor/chessactivity/internal/logger"
	"github.com/vytor/chessactivity/internal/period"
)

type Config struct {
	Addr                 string        `env:"ADDR" validate:"required"`
	DBPath               string        `env:"DB_PATH" validate:"required"`
	LogLevel             string        `env:"LOG_LEVEL" validate:"loglevel"`
	Timezone             string        `env:"TIMEZONE" validate:"required,timezone"`
	DefaultPeriod        string        `env:"DEFAULT_PERIOD" validate:"required,period"`
	ChessComBaseURL      string        `env:"CHESSCOM_BASE_URL" validate:"required,url"`
	ChessComUserAgent    string        `env:"CHESSCOM_USER_AGENT" validate:"required"`
	HTTPTimeout          time.Duration `env:"HTTP_TIMEOUT" validate:"gt=0"`
	MaxConcurrentArchive int           `env:"MAX_CONCURRENT_ARCHIVE" validate:"min=1,max=32"`
	ArchiveCache         bool          `env:"ARCHIVE_CACHE"`
	ProfileCacheSize     int           `env:"PROFILE_CACHE_SIZE" validate:"min=1"`
	ProfileCacheTTL      time.Duration `env:"PROFILE_CACHE_TTL" validate:"gt=0"`
	SyncWorkerCount      int           `env:"SYNC_WORKER_COUNT" validate:"min=1"`
	SyncQueueSize        int           `env:"SYNC_QUEUE_SIZE" validate:"min=1"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:chessactivity.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		Timezone:             envOr("TIMEZONE", "UTC"),
		DefaultPeriod:        envOr("DEFAULT_PERIOD", period.DefaultExpr),
		ChessComBaseURL:      envOr("CHESSCOM_BASE_URL", "https://api.chess.com/pub/player"),
		ChessComUserAgent:    envOr("CHESSCOM_USER_AGENT", "chessactivity/1.0"),
		HTTPTimeout:          envDurationOr("HTTP_TIMEOUT", 15*time.Second),
		MaxConcurrentArchive: envIntOr("MAX_CONCURRENT_ARCHIVE", 4),
		ArchiveCache:         envBoolOr("ARCHIVE_CACHE", true),
		ProfileCacheSize:     envIntOr("PROFILE_CACHE_SIZE", 256),
		ProfileCacheTTL:      envDurationOr("PROFILE_CACHE_TTL", 10*time.Minute),
		SyncWorkerCount:      envIntOr("SYNC_WORKER_COUNT", 2),
		SyncQueueSize:        envIntOr("SYNC_QUEUE_SIZE", 32),
	}
}

// Location returns the configured time zone, UTC when it cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their environment variable name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		return logger.ValidLevel(fl.Field().String())
	})
	_ = v.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		_, err := time.LoadLocation(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		_, err := period.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " cannot be empty"
	case "min":
		return fmt.Sprintf("%s must be at least %s (got %v)", name, fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got %v)", name, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be positive (got %v)", name, fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL (got %q)", name, fe.Value())
	case "loglevel":
		return fmt.Sprintf("%s must be one of DEBUG, INFO, WARN, ERROR (got %q)", name, fe.Value())
	case "timezone":
		return fmt.Sprintf("%s is not a known time zone (got %q)", name, fe.Value())
	case "period":
		return fmt.Sprintf("%s must look like 30d or 2024-03 (got %q)", name, fe.Value())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
