// Package config loads onoff settings from YAML, applies defaults and
// environment overrides, and validates the result against a CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/onoff/internal/store"
)

//go:embed schema.cue
var schemaCUE string

// Defaults.
const (
	DefaultNamespace = "default"
	DefaultBase      = 3
	DefaultLogLevel  = "info"
	DefaultDriver    = "memory"
	DefaultS3Region  = "us-east-1"
)

// Config holds all application configuration.
type Config struct {
	Namespace string  `yaml:"namespace" json:"namespace"`
	Base      int     `yaml:"base" json:"base"`
	LogLevel  string  `yaml:"log_level" json:"log_level"`
	Storage   Storage `yaml:"storage" json:"storage"`
}

// Storage selects the backing store.
type Storage struct {
	Driver      string `yaml:"driver" json:"driver"`
	SQLitePath  string `yaml:"sqlite_path" json:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn" json:"postgres_dsn"`
	S3          S3     `yaml:"s3" json:"s3"`
}

// S3 configures the s3 driver.
type S3 struct {
	Bucket    string `yaml:"bucket" json:"bucket"`
	Region    string `yaml:"region" json:"region"`
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	PathStyle bool   `yaml:"path_style" json:"path_style"`
}

// Load reads configuration from a YAML file, applies defaults and
// environment overrides, and validates it. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, err
		}
	}

	applyDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// GetConfigPath returns the config file path from ONOFF_CONFIG, or "" when
// unset.
func GetConfigPath() string {
	return os.Getenv("ONOFF_CONFIG")
}

// decode parses YAML strictly so a misspelled key is an error.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Base == 0 {
		cfg.Base = DefaultBase
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultDriver
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = DefaultS3Region
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"ONOFF_NAMESPACE", &cfg.Namespace},
		{"ONOFF_LOG_LEVEL", &cfg.LogLevel},
		{"ONOFF_STORAGE_DRIVER", &cfg.Storage.Driver},
		{"ONOFF_SQLITE_PATH", &cfg.Storage.SQLitePath},
		{"ONOFF_POSTGRES_DSN", &cfg.Storage.PostgresDSN},
		{"ONOFF_S3_BUCKET", &cfg.Storage.S3.Bucket},
		{"ONOFF_S3_REGION", &cfg.Storage.S3.Region},
		{"ONOFF_S3_ENDPOINT", &cfg.Storage.S3.Endpoint},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
	if v := os.Getenv("ONOFF_S3_PATH_STYLE"); v != "" {
		cfg.Storage.S3.PathStyle = strings.EqualFold(v, "true")
	}
}

// Validate unifies cfg with the embedded CUE schema.
func Validate(cfg *Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	value := schema.Unify(ctx.Encode(cfg))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return errors.New(strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

// StoreConfig converts the storage section for store.Open. S3 credentials
// come from the AWS default chain unless AWS_ACCESS_KEY_ID is set.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Driver:      store.Driver(c.Storage.Driver),
		SQLitePath:  c.Storage.SQLitePath,
		PostgresDSN: c.Storage.PostgresDSN,
		S3: store.S3Config{
			Bucket:          c.Storage.S3.Bucket,
			Region:          c.Storage.S3.Region,
			Endpoint:        c.Storage.S3.Endpoint,
			PathStyle:       c.Storage.S3.PathStyle,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
