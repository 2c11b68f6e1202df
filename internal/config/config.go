// Package config loads server settings from .env, environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultPort              = "5000"
	DefaultBroadcastInterval = 10 * time.Second
	DefaultRecordBuffer      = 256
	DefaultWriteTimeout      = 5 * time.Second
	DefaultMemoryCapacity    = 10000
)

// Config holds server settings.
type Config struct {
	Addr              string
	PostgresDSN       string
	ClickhouseDSN     string
	UseMemory         bool
	MemoryCapacity    int
	BroadcastInterval time.Duration
	RecordBuffer      int
	WriteTimeout      time.Duration
	LogLevel          string
	LogFormat         string
	CORSOrigins       []string
}

// LoadEnvFile loads key=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load parses args with environment variables as flag defaults.
func Load(args []string) (*Config, error) {
	fset := flag.NewFlagSet("server", flag.ContinueOnError)

	cfg := &Config{}
	var corsOrigins string

	fset.StringVar(&cfg.Addr, "addr", ":"+envOr("PORT", DefaultPort), "HTTP listen address")
	fset.StringVar(&cfg.PostgresDSN, "postgres-dsn", envOr("POSTGRES_DSN", os.Getenv("DATABASE_URL")), "PostgreSQL connection string")
	fset.StringVar(&cfg.ClickhouseDSN, "clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	fset.BoolVar(&cfg.UseMemory, "use-memory", envBool("USE_MEMORY"), "Use in-memory storage instead of PostgreSQL/ClickHouse")
	fset.IntVar(&cfg.MemoryCapacity, "memory-capacity", envInt("MEMORY_CAPACITY", DefaultMemoryCapacity), "Samples kept by the in-memory store")
	fset.DurationVar(&cfg.BroadcastInterval, "broadcast-interval", envDuration("BROADCAST_INTERVAL", DefaultBroadcastInterval), "WebSocket network-update interval")
	fset.IntVar(&cfg.RecordBuffer, "record-buffer", envInt("RECORD_BUFFER", DefaultRecordBuffer), "Sample recorder buffer size")
	fset.DurationVar(&cfg.WriteTimeout, "write-timeout", envDuration("WRITE_TIMEOUT", DefaultWriteTimeout), "Per-sink write timeout for recorded samples")
	fset.StringVar(&cfg.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	fset.StringVar(&cfg.LogFormat, "log-format", envOr("LOG_FORMAT", "json"), "Log format (json, console)")
	fset.StringVar(&corsOrigins, "cors-origins", os.Getenv("CORS_ALLOWED_ORIGINS"), "Comma-separated allowed CORS origins (empty allows all)")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	cfg.CORSOrigins = splitList(corsOrigins)

	// Without any DSN there is nowhere to persist but memory.
	if cfg.PostgresDSN == "" && cfg.ClickhouseDSN == "" {
		cfg.UseMemory = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("--addr is required")
	}
	if c.BroadcastInterval <= 0 {
		return fmt.Errorf("--broadcast-interval must be positive, got %v", c.BroadcastInterval)
	}
	if c.MemoryCapacity <= 0 {
		return fmt.Errorf("--memory-capacity must be positive, got %d", c.MemoryCapacity)
	}
	if c.RecordBuffer <= 0 {
		return fmt.Errorf("--record-buffer must be positive, got %d", c.RecordBuffer)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("--write-timeout must be positive, got %v", c.WriteTimeout)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
