/*
Package config loads server configuration.

PRECEDENCE (highest first):
  1. Command-line flags
  2. Environment variables
  3. .env file in the working directory (never overrides the environment)
  4. Defaults

VARIABLES:
  PAYROLL_PORT              -port              8080
  PAYROLL_DB                -db                payroll.db (":memory:" allowed)
  PAYROLL_STORE             -store             sqlite | memory
  PAYROLL_REGIME            -regime            JSON/YAML regime file; empty = built-in
  PAYROLL_CORS_ORIGINS      -cors-origins      comma-separated origins
  PAYROLL_BATCH_WORKERS     -batch-workers     4
  PAYROLL_SHUTDOWN_TIMEOUT  -shutdown-timeout  30s
*/
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store kinds.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config is the resolved server configuration.
type Config struct {
	Port            int
	DBPath          string
	Store           string
	RegimePath      string
	CORSOrigins     []string
	BatchWorkers    int
	ShutdownTimeout time.Duration
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:            8080,
		DBPath:          "payroll.db",
		Store:           StoreSQLite,
		CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		BatchWorkers:    4,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Load reads envFile (if it exists), then the environment, then args.
// args excludes the program name.
func Load(envFile string, args []string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg, err := FromEnv(Default())
	if err != nil {
		return Config{}, err
	}

	fset := flag.NewFlagSet("payroll-server", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	fset.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fset.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fset.StringVar(&cfg.Store, "store", cfg.Store, "store backend: sqlite or memory")
	fset.StringVar(&cfg.RegimePath, "regime", cfg.RegimePath, "contribution regime file (JSON or YAML)")
	origins := fset.String("cors-origins", strings.Join(cfg.CORSOrigins, ","), "allowed CORS origins, comma-separated")
	fset.IntVar(&cfg.BatchWorkers, "batch-workers", cfg.BatchWorkers, "parallel batch recalculation workers")
	fset.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	if err := fset.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}
	cfg.CORSOrigins = splitList(*origins)

	return cfg, cfg.Validate()
}

// FromEnv overlays PAYROLL_* environment variables on base.
func FromEnv(base Config) (Config, error) {
	cfg := base
	if v, ok := os.LookupEnv("PAYROLL_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("PAYROLL_PORT: %w", err)
		}
		cfg.Port = port
	}
	if v, ok := os.LookupEnv("PAYROLL_DB"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("PAYROLL_STORE"); ok {
		cfg.Store = v
	}
	if v, ok := os.LookupEnv("PAYROLL_REGIME"); ok {
		cfg.RegimePath = v
	}
	if v, ok := os.LookupEnv("PAYROLL_CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("PAYROLL_BATCH_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("PAYROLL_BATCH_WORKERS: %w", err)
		}
		cfg.BatchWorkers = n
	}
	if v, ok := os.LookupEnv("PAYROLL_SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("PAYROLL_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("sqlite store needs a database path")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreSQLite, StoreMemory)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("batch workers must be at least 1")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
