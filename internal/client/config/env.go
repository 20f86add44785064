package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "MATCHDESK_"

// parseEnv seeds the process environment from envFile (a missing file is
// fine) and then overlays cfg with MATCHDESK_* variables.
func parseEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	envString(&cfg.APIBaseURL, "API_URL")
	envString(&cfg.SessionDBPath, "SESSION_DB")
	envString(&cfg.LogFormat, "LOG_FORMAT")
	envString(&cfg.LogLevel, "LOG_LEVEL")

	for name, dst := range map[string]*int{
		"USERS_LIMIT":      &cfg.UsersLimit,
		"MATCHES_LIMIT":    &cfg.MatchesLimit,
		"PAGE_SIZE":        &cfg.PageSize,
		"NESTED_PAGE_SIZE": &cfg.NestedPageSize,
	} {
		if err := envInt(dst, name); err != nil {
			return err
		}
	}

	for name, dst := range map[string]*time.Duration{
		"REQUEST_TIMEOUT": &cfg.RequestTimeout,
		"ERROR_MAX_AGE":   &cfg.ErrorMaxAge,
		"SWEEP_INTERVAL":  &cfg.SweepInterval,
	} {
		if err := envDuration(dst, name); err != nil {
			return err
		}
	}
	return nil
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, name string) error {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s%s=%q", ErrInvalidConfig, envPrefix, name, v)
	}
	*dst = n
	return nil
}

func envDuration(dst *time.Duration, name string) error {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s%s=%q", ErrInvalidConfig, envPrefix, name, v)
	}
	*dst = d
	return nil
}
