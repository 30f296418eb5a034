package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "statement-parser.yaml"

// Config represents the statement-parser.yaml configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Parse  ParseConfig  `yaml:"parse"`
	Batch  BatchConfig  `yaml:"batch"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port        string        `yaml:"port"`
	MaxUploadMB int           `yaml:"max_upload_mb"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// ParseConfig holds parser defaults.
type ParseConfig struct {
	KeepPayments bool `yaml:"keep_payments"`
}

// BatchConfig controls parallel parsing.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			MaxUploadMB: 50,
			CacheTTL:    10 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		Batch: BatchConfig{
			Workers: 4,
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Resolve builds the effective configuration: defaults, then the YAML file
// (a missing file is fine unless it was asked for explicitly), then .env and
// STATEMENT_* environment variables.
func Resolve(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg, err := Load(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	// .env is optional; real environment variables take precedence over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from STATEMENT_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup("STATEMENT_PORT"); ok {
		c.Server.Port = v
	}
	if v, ok := lookup("STATEMENT_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("STATEMENT_LOG_JSON"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid STATEMENT_LOG_JSON %q: %w", v, err)
		}
		c.Log.JSON = b
	}
	if v, ok := lookup("STATEMENT_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid STATEMENT_WORKERS %q", v)
		}
		c.Batch.Workers = n
	}
	if v, ok := lookup("STATEMENT_CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid STATEMENT_CACHE_TTL %q: %w", v, err)
		}
		c.Server.CacheTTL = d
	}
	if v, ok := lookup("STATEMENT_MAX_UPLOAD_MB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid STATEMENT_MAX_UPLOAD_MB %q", v)
		}
		c.Server.MaxUploadMB = n
	}
	if v, ok := lookup("STATEMENT_KEEP_PAYMENTS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid STATEMENT_KEEP_PAYMENTS %q: %w", v, err)
		}
		c.Parse.KeepPayments = b
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
