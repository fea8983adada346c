// Package main starts the storefront web service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	webcmd "github.com/louisbranch/seedshift/internal/cmd/web"
	platformcmd "github.com/louisbranch/seedshift/internal/platform/cmd"
	"go.uber.org/zap"
)

func main() {
	cfg, err := webcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse flags: %v\n", err)
		os.Exit(2)
	}
	logger, err := webcmd.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceWeb, logger, func(ctx context.Context) error {
		return webcmd.Run(ctx, cfg, logger)
	})
	if err != nil {
		logger.Fatal("failed to serve", zap.Error(err))
	}
}
