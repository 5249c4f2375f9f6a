// Package config handles configuration for the server: defaults, an optional
// JSON file overlay, and command-line flags, applied in that order.
package config

import (
	"errors"
	"os"
	"time"
)

// Config holds runtime settings for the JustAsk server.
//
// An empty DatabaseDSN selects the in-memory store. FrontendURL, when set,
// switches session cookies to Secure/SameSite=None and becomes the only
// allowed CORS origin.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	DatabaseDSN string
	RedisURL    string

	AccessSecret    string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	SessionTTL        time.Duration
	SessionCookieName string
	FrontendURL       string

	BcryptCost          int
	RevocationHighWater int
	RevocationKeep      int

	LogLevel string
}

const defaultFrontendOrigin = "http://localhost:5173"

// LoadDefaults populates Config with development defaults.
// NOTE: the secrets are placeholders and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3000"
	c.GRPCAddr = ":50051"
	c.DatabaseDSN = ""
	c.RedisURL = "redis://localhost:6379/0"
	c.AccessSecret = "justask-access-secret-key"
	c.RefreshSecret = "justask-refresh-secret-key"
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 30 * 24 * time.Hour
	c.SessionTTL = 24 * time.Hour
	c.SessionCookieName = "justask.sid"
	c.FrontendURL = ""
	c.BcryptCost = 10
	c.RevocationHighWater = 10000
	c.RevocationKeep = 5000
	c.LogLevel = "info"
}

// LoadConfig builds a Config from os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, then the JSON file named by -c/-config in args,
// then the remaining flags in args, and validates the result.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http address is required"))
	}
	if c.RedisURL == "" {
		errs = append(errs, errors.New("redis URL is required for sessions"))
	}
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		errs = append(errs, errors.New("access and refresh secrets are required"))
	} else if c.AccessSecret == c.RefreshSecret {
		errs = append(errs, errors.New("access and refresh secrets must differ"))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 || c.SessionTTL <= 0 {
		errs = append(errs, errors.New("token and session lifetimes must be positive"))
	}
	if c.SessionCookieName == "" {
		errs = append(errs, errors.New("session cookie name is required"))
	}
	if c.RevocationKeep <= 0 || c.RevocationKeep >= c.RevocationHighWater {
		errs = append(errs, errors.New("revocation keep must be positive and below the high-water mark"))
	}
	return errors.Join(errs...)
}

// SecureCookies reports whether session cookies must be Secure with
// SameSite=None, which is the case behind a cross-origin production frontend.
func (c *Config) SecureCookies() bool {
	return c.FrontendURL != ""
}

// AllowedOrigin is the single origin accepted by CORS.
func (c *Config) AllowedOrigin() string {
	if c.FrontendURL != "" {
		return c.FrontendURL
	}
	return defaultFrontendOrigin
}
