// Package config loads runtime configuration for the MatchDesk operator console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in .yaml
//     or .yml are decoded as YAML, anything else as JSON.
//  3. Environment variables prefixed MATCHDESK_, optionally seeded from a
//     .env file. Variables already set in the process win over the file.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string     base URL of the dashboard API
//	-s string     path of the SQLite session database
//	-t duration   per-request timeout, e.g. 10s
//	-l int        users fetched per load
//	-m int        matches fetched per load
//	-p int        rows per table page
//
// # File schema
//
// Durations accept strings like "30s" or integer nanoseconds:
//
//	api_base_url: http://localhost:8000/api/v1
//	request_timeout: 10s
//	session_db_path: matchdesk.db
//	users_limit: 50
//	matches_limit: 10
//	page_size: 10
//	nested_page_size: 5
//	error_max_age: 30s
//	sweep_interval: 5s
//	log_format: text
//	log_level: warn
package config
