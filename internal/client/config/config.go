package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the operator console.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	SessionDBPath  string

	UsersLimit     int
	MatchesLimit   int
	PageSize       int
	NestedPageSize int

	ErrorMaxAge   time.Duration
	SweepInterval time.Duration

	LogFormat string
	LogLevel  string
}

// LoadDefaults populates c with the values the dashboard ships with.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api/v1"
	c.RequestTimeout = 10 * time.Second
	c.SessionDBPath = "matchdesk.db"
	c.UsersLimit = 50
	c.MatchesLimit = 10
	c.PageSize = 10
	c.NestedPageSize = 5
	c.ErrorMaxAge = 30 * time.Second
	c.SweepInterval = 5 * time.Second
	c.LogFormat = "text"
	c.LogLevel = "warn"
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api base url %q", ErrInvalidConfig, c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	}
	if c.UsersLimit <= 0 || c.MatchesLimit <= 0 {
		return fmt.Errorf("%w: fetch limits must be positive", ErrInvalidConfig)
	}
	if c.PageSize <= 0 || c.NestedPageSize <= 0 {
		return fmt.Errorf("%w: page sizes must be positive", ErrInvalidConfig)
	}
	if c.ErrorMaxAge <= 0 || c.SweepInterval <= 0 {
		return fmt.Errorf("%w: error expiry settings must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig builds a Config from defaults, the config file, the environment
// and finally the command line, in that order.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], ".env")
}

func load(args []string, envFile string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, envFile); err != nil {
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
