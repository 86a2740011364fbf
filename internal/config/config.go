// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

// Package config loads and validates FitForge configuration.
//
// Settings are resolved in layers: built-in defaults, then an optional
// YAML file, then FITFORGE_* environment variables, then command-line
// flags. Later layers win.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/fitforge/fitforge/internal/logging"
	"github.com/fitforge/fitforge/internal/xdg"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "FITFORGE_"

// hmacAlgorithms lists the accepted token signing algorithms.
var hmacAlgorithms = []string{"HS256", "HS384", "HS512"}

// Server holds the HTTP API listener settings.
type Server struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	TLSCert         string        `koanf:"tls_cert"`
	TLSKey          string        `koanf:"tls_key"`
}

// Database holds the Postgres connection settings.
type Database struct {
	URL            string        `koanf:"url"`
	MinConns       int           `koanf:"min_conns"`
	MaxConns       int           `koanf:"max_conns"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// Auth holds the token signing settings. Access and refresh tokens are
// signed with independent secrets.
type Auth struct {
	AccessSecret      string `koanf:"access_secret"`
	RefreshSecret     string `koanf:"refresh_secret"`
	Algorithm         string `koanf:"algorithm"`
	AccessTTLMinutes  int    `koanf:"access_ttl_minutes"`
	RefreshTTLMinutes int    `koanf:"refresh_ttl_minutes"`
}

// Verification holds the email verification link settings.
type Verification struct {
	BaseURL string `koanf:"base_url"`
}

// Mail holds the SMTP settings for outbound verification mail.
type Mail struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

// Observability holds the metrics/health listener settings.
type Observability struct {
	// Addr is the metrics/health HTTP address. Empty disables the server.
	Addr string `koanf:"addr"`
}

// Logging holds the log output settings.
type Logging struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Config is the full FitForge configuration.
type Config struct {
	Server        Server        `koanf:"server"`
	Database      Database      `koanf:"database"`
	Auth          Auth          `koanf:"auth"`
	Verification  Verification  `koanf:"verification"`
	Mail          Mail          `koanf:"mail"`
	Observability Observability `koanf:"observability"`
	Logging       Logging       `koanf:"logging"`
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: Database{
			MinConns:       2,
			MaxConns:       10,
			ConnectTimeout: 5 * time.Second,
		},
		Auth: Auth{
			Algorithm:         "HS256",
			AccessTTLMinutes:  30,
			RefreshTTLMinutes: 7 * 24 * 60,
		},
		Verification: Verification{
			BaseURL: "http://localhost:8080",
		},
		Mail: Mail{
			Port: 587,
		},
		Observability: Observability{
			Addr: "127.0.0.1:9090",
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultPath returns the default config file path under the XDG config
// directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigDir(), "config.yaml")
}

// LoadOptions controls how Load resolves configuration.
type LoadOptions struct {
	// Path is an explicit config file path. When empty, DefaultPath is
	// tried and skipped if the file does not exist; an explicit path
	// must exist.
	Path string
	// Flags is the command's flag set. Flag names use the koanf key
	// paths (for example "server.addr"). Nil skips the flag layer.
	Flags *pflag.FlagSet
	// Environ supplies the process environment. Nil means os.Environ.
	Environ func() []string
}

// Load resolves the configuration from defaults, file, environment, and
// flags. The result is not validated; callers run Validate or
// ValidateServe depending on the command.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	path := opts.Path
	if path == "" {
		path = DefaultPath()
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ
	}
	for _, kv := range environ() {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		name, value, ok := strings.Cut(strings.TrimPrefix(kv, EnvPrefix), "=")
		if !ok {
			continue
		}
		if err := k.Set(envKey(name), value); err != nil {
			return nil, fmt.Errorf("failed to apply environment variable %s%s: %w", EnvPrefix, name, err)
		}
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.Provider(opts.Flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Platform-provided DATABASE_URL is honored when no layer set one.
	if cfg.Database.URL == "" {
		for _, kv := range environ() {
			if v, ok := strings.CutPrefix(kv, "DATABASE_URL="); ok {
				cfg.Database.URL = v
				break
			}
		}
	}
	return &cfg, nil
}

// envKey maps FITFORGE_SECTION_LEAF to the koanf path section.leaf. The
// first underscore separates the section; later ones stay in the leaf
// (FITFORGE_AUTH_ACCESS_SECRET resolves to auth.access_secret).
func envKey(name string) string {
	section, leaf, ok := strings.Cut(name, "_")
	if !ok {
		return strings.ToLower(name)
	}
	return strings.ToLower(section) + "." + strings.ToLower(leaf)
}

// Validate checks settings every command depends on. Commands that serve
// traffic use ValidateServe instead.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return fmt.Errorf("server.tls_cert and server.tls_key must be set together")
	}
	if c.Database.MinConns < 0 {
		return fmt.Errorf("database.min_conns must not be negative, got %d", c.Database.MinConns)
	}
	if c.Database.MaxConns > 0 && c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("database.max_conns must be at least database.min_conns, got %d < %d",
			c.Database.MaxConns, c.Database.MinConns)
	}
	if !slices.Contains(hmacAlgorithms, c.Auth.Algorithm) {
		return fmt.Errorf("auth.algorithm must be one of %s, got %q",
			strings.Join(hmacAlgorithms, ", "), c.Auth.Algorithm)
	}
	if c.Auth.AccessTTLMinutes <= 0 {
		return fmt.Errorf("auth.access_ttl_minutes must be positive, got %d", c.Auth.AccessTTLMinutes)
	}
	if c.Auth.RefreshTTLMinutes <= 0 {
		return fmt.Errorf("auth.refresh_ttl_minutes must be positive, got %d", c.Auth.RefreshTTLMinutes)
	}
	if c.Mail.Enabled {
		if c.Mail.Host == "" {
			return fmt.Errorf("mail.host is required when mail.enabled is true")
		}
		if c.Mail.From == "" {
			return fmt.Errorf("mail.from is required when mail.enabled is true")
		}
		if c.Mail.Port < 1 || c.Mail.Port > 65535 {
			return fmt.Errorf("mail.port must be between 1 and 65535, got %d", c.Mail.Port)
		}
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be 'json' or 'text', got %q", c.Logging.Format)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}
	return nil
}

// ValidateServe checks everything Validate does plus the settings the
// serve command needs: a database and distinct signing secrets.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required (or set DATABASE_URL)")
	}
	if c.Auth.AccessSecret == "" {
		return fmt.Errorf("auth.access_secret is required")
	}
	if c.Auth.RefreshSecret == "" {
		return fmt.Errorf("auth.refresh_secret is required")
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return fmt.Errorf("auth.access_secret and auth.refresh_secret must differ")
	}
	if c.Verification.BaseURL == "" {
		return fmt.Errorf("verification.base_url is required")
	}
	return nil
}

// AccessTTL returns the access token lifetime.
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.Auth.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.Auth.RefreshTTLMinutes) * time.Minute
}
