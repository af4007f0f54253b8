// Package config loads pgscope settings from an optional YAML file with
// environment-variable overrides. The admin database section points at the
// maintenance database used for server-level operations (CREATE/DROP
// DATABASE, listing databases); per-request targets are supplied by clients
// at connect time and never live in configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.yaml.in/yaml/v3"
)

// Server holds HTTP listener settings.
type Server struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Database holds the admin connection and pool tuning applied to every
// pool the server opens, including client-requested ones.
type Database struct {
	Host     string `yaml:"host"`
	Port     uint16 `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`

	MaxConns       int32         `yaml:"max_conns"`
	MinConns       int32         `yaml:"min_conns"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Snapshot holds object-store settings for schema snapshot export.
type Snapshot struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the complete application configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Snapshot Snapshot `yaml:"snapshot"`
	Log      Log      `yaml:"log"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: Server{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: Database{
			Host:           "localhost",
			Port:           5432,
			User:           "postgres",
			Database:       "postgres",
			MaxConns:       10,
			MinConns:       2,
			ConnectTimeout: 5 * time.Second,
		},
		Snapshot: Snapshot{
			Endpoint: "localhost:9000",
			Bucket:   "pgscope-snapshots",
		},
		Log: Log{Level: "info", Format: "json"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	envStr("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)

	envStr("DATABASE_HOST", &c.Database.Host)
	envPort("DATABASE_PORT", &c.Database.Port)
	envStr("DATABASE_USER", &c.Database.User)
	envStr("DATABASE_PASSWORD", &c.Database.Password)
	envStr("DATABASE_NAME", &c.Database.Database)

	envStr("SNAPSHOT_ENDPOINT", &c.Snapshot.Endpoint)
	envStr("SNAPSHOT_ACCESS_KEY", &c.Snapshot.AccessKey)
	envStr("SNAPSHOT_SECRET_KEY", &c.Snapshot.SecretKey)
	envStr("SNAPSHOT_BUCKET", &c.Snapshot.Bucket)
	envBool("SNAPSHOT_USE_SSL", &c.Snapshot.UseSSL)

	envStr("LOG_LEVEL", &c.Log.Level)
	envStr("LOG_FORMAT", &c.Log.Format)
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envPort(key string, dst *uint16) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			*dst = uint16(n)
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
