package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/matchdesk/internal/buildinfo"
	"github.com/dmitrijs2005/matchdesk/internal/client/cli"
	"github.com/dmitrijs2005/matchdesk/internal/client/config"
	"github.com/dmitrijs2005/matchdesk/internal/client/dashboard"
	"github.com/dmitrijs2005/matchdesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// The console may be blocked reading a line; a second interrupt falls
	// through to the default handler and ends the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	d, err := dashboard.New(ctx, cfg, dashboard.WithLogger(logger))
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer d.Close()

	d.Start(ctx)

	if err := cli.NewApp(d, os.Stdin, os.Stdout, logger).Run(ctx); err != nil {
		logger.Error(ctx, err.Error())
	}
}
