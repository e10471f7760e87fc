// Package config loads ethiq settings from a YAML file with environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	// Bank is a path to a custom question bank. Empty selects the built-in bank.
	Bank     string         `yaml:"bank"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Report   ReportConfig   `yaml:"report"`
	Assessor AssessorConfig `yaml:"assessor"`

	// envErrs holds environment values ApplyEnv could not parse.
	envErrs []string
}

// DatabaseConfig selects the history store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite | postgres
	DSN    string `yaml:"dsn"`    // empty sqlite DSN means the default data path
}

// ServerConfig configures the web form surface.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	SessionSecret  string        `yaml:"session_secret"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	SecureCookies  bool          `yaml:"secure_cookies"`
}

// ReportConfig controls generated documents.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// AssessorConfig toggles LLM commentary. Provider credentials come from the
// environment only.
type AssessorConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a Config with local-first defaults.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Driver: "sqlite"},
		Server: ServerConfig{
			Addr:           ":8080",
			SessionTTL:     2 * time.Hour,
			AllowedOrigins: []string{"http://localhost:8080"},
		},
		Report:   ReportConfig{OutputDir: "."},
		Assessor: AssessorConfig{Enabled: true},
	}
}

// Parse decodes a single YAML document over the defaults. Unknown keys are
// rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Load resolves the config file, applies environment overrides and
// validates the result. path wins over ETHIQ_CONFIG, which wins over
// $XDG_CONFIG_HOME/ethiq/config.yaml. A missing default file is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv("ETHIQ_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			cfg, err = Parse(data)
			if err != nil {
				return Config{}, fmt.Errorf("%s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/ethiq/config.yaml, falling back to
// ~/.config. It returns "" when no home directory is known.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "ethiq", "config.yaml")
}

// ApplyEnv overlays ETHIQ_* environment variables.
func (c *Config) ApplyEnv() {
	c.Bank = envOr("ETHIQ_BANK", c.Bank)
	c.Database.Driver = envOr("ETHIQ_DB_DRIVER", c.Database.Driver)
	c.Database.DSN = envOr("ETHIQ_DB_DSN", c.Database.DSN)
	c.Server.Addr = envOr("ETHIQ_HTTP_ADDR", c.Server.Addr)
	c.Server.SessionSecret = envOr("ETHIQ_SESSION_SECRET", c.Server.SessionSecret)
	c.Server.AllowedOrigins = csvOr("ETHIQ_CORS_ORIGINS", c.Server.AllowedOrigins)
	c.Server.SecureCookies = envBool("ETHIQ_SECURE_COOKIES", c.Server.SecureCookies)
	if v := os.Getenv("ETHIQ_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			c.envErrs = append(c.envErrs, fmt.Sprintf("ETHIQ_SESSION_TTL: %v", err))
		} else {
			c.Server.SessionTTL = d
		}
	}
	c.Report.OutputDir = envOr("ETHIQ_REPORT_DIR", c.Report.OutputDir)
	c.Assessor.Enabled = envBool("ETHIQ_ASSESSOR", c.Assessor.Enabled)
}

// Validate returns every problem found, joined.
func (c Config) Validate() error {
	errs := append([]string(nil), c.envErrs...)
	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.DSN == "" {
			errs = append(errs, "database.dsn is required for the postgres driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("database.driver must be sqlite or postgres, got %q", c.Database.Driver))
	}
	if c.Server.Addr == "" {
		errs = append(errs, "server.addr must not be empty")
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, "server.session_ttl must be positive")
	}
	if c.Report.OutputDir == "" {
		errs = append(errs, "report.output_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
