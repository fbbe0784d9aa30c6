package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/dmitrijs2005/passvault/internal/generator"
)

// Config holds runtime settings for the PassVault CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API (for example http://host:5001/api).
//   - SessionDB: SQLite file that keeps the session token between runs.
//   - RequestTimeout: upper bound for a single API call.
//   - DefaultLength: length used by "generate" when none is given.
//   - LogLevel: threshold for diagnostics written to stderr.
type Config struct {
	ServerURL      string
	SessionDB      string
	RequestTimeout time.Duration
	DefaultLength  int
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5001/api"
	c.SessionDB = "vault.db"
	c.RequestTimeout = 10 * time.Second
	c.DefaultLength = generator.DefaultLength
	c.LogLevel = "warn"
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("server url %q is not an absolute URL", c.ServerURL))
	}
	if c.SessionDB == "" {
		errs = append(errs, errors.New("session db path is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.DefaultLength < generator.MinLength || c.DefaultLength > generator.MaxLength {
		errs = append(errs, fmt.Errorf("default length must be within [%d, %d], got %d",
			generator.MinLength, generator.MaxLength, c.DefaultLength))
	}
	return errors.Join(errs...)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
