package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/matchdesk/internal/flagx"
	"github.com/dmitrijs2005/matchdesk/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape shared by the JSON and YAML loaders.
// Zero values mean "not set" and leave the current setting alone.
type fileConfig struct {
	APIBaseURL     string         `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	SessionDBPath  string         `json:"session_db_path" yaml:"session_db_path"`
	UsersLimit     int            `json:"users_limit" yaml:"users_limit"`
	MatchesLimit   int            `json:"matches_limit" yaml:"matches_limit"`
	PageSize       int            `json:"page_size" yaml:"page_size"`
	NestedPageSize int            `json:"nested_page_size" yaml:"nested_page_size"`
	ErrorMaxAge    timex.Duration `json:"error_max_age" yaml:"error_max_age"`
	SweepInterval  timex.Duration `json:"sweep_interval" yaml:"sweep_interval"`
	LogFormat      string         `json:"log_format" yaml:"log_format"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlagFrom(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.SessionDBPath, fc.SessionDBPath)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LogLevel, fc.LogLevel)

	setInt(&cfg.UsersLimit, fc.UsersLimit)
	setInt(&cfg.MatchesLimit, fc.MatchesLimit)
	setInt(&cfg.PageSize, fc.PageSize)
	setInt(&cfg.NestedPageSize, fc.NestedPageSize)

	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.ErrorMaxAge.Duration > 0 {
		cfg.ErrorMaxAge = fc.ErrorMaxAge.Duration
	}
	if fc.SweepInterval.Duration > 0 {
		cfg.SweepInterval = fc.SweepInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
