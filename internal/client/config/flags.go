package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/matchdesk/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only the flags
// listed in the package doc are looked at; anything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-l", "-m", "-p"})

	fs := flag.NewFlagSet("matchdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the dashboard API")
	fs.StringVar(&cfg.SessionDBPath, "s", cfg.SessionDBPath, "path of the session database")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.IntVar(&cfg.UsersLimit, "l", cfg.UsersLimit, "users fetched per load")
	fs.IntVar(&cfg.MatchesLimit, "m", cfg.MatchesLimit, "matches fetched per load")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "rows per table page")

	return fs.Parse(filtered)
}
