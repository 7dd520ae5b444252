package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tripmate/internal/client/api"
	"tripmate/internal/client/cli"
)

func main() {
	cfg, err := cli.LoadConfig(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logCfg := zap.NewDevelopmentConfig()
	logCfg.OutputPaths = []string{"stderr"}
	if !cfg.Debug {
		logCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.New(cfg.ServerURL, &http.Client{Timeout: cfg.RequestTimeout})
	app := cli.NewApp(cfg, client, os.Stdin, os.Stdout, logger)

	logger.Debug("starting client", zap.String("server", cfg.ServerURL))
	app.Run(ctx)
}
