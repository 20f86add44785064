package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/matchdesk/internal/logging"
	"github.com/dmitrijs2005/matchdesk/internal/mockapi"
)

func main() {
	cfg := mockapi.DefaultConfig()

	addr := flag.String("a", ":8000", "listen address")
	secret := flag.String("k", string(cfg.Secret), "token signing secret")
	flag.IntVar(&cfg.Profiles, "n", cfg.Profiles, "number of generated profiles")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "profile generator seed")
	flag.DurationVar(&cfg.TokenTTL, "ttl", cfg.TokenTTL, "access token lifetime")
	flag.BoolVar(&cfg.AccessLog, "v", false, "log every request")
	logLevel := flag.String("l", "info", "log level")
	flag.Parse()

	cfg.Secret = []byte(*secret)

	logger, err := logging.New(logging.FormatText, *logLevel, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	srv := mockapi.NewServer(cfg, logger)
	logger.Info(ctx, "mock api listening", "addr", *addr, "prefix", mockapi.APIPrefix, "profiles", cfg.Profiles)

	if err := srv.Run(ctx, *addr); err != nil {
		logger.Error(ctx, err.Error())
		os.Exit(1)
	}
}
