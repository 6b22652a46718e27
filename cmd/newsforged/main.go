// newsforged is the daemon: it loads configuration, opens the job store,
// wires providers and pipelines, and serves the HTTP API until signaled.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"newsforge/internal/config"
	"newsforge/internal/logging"
	"newsforge/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, configPath, found, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if !found {
		logger.Info("no config file found, using defaults", logging.String("path", configPath))
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", logging.Error(err))
		return
	}
	defer st.Close()

	daemon, err := bootstrap(cfg, st, logger)
	if err != nil {
		logger.Error("bootstrap", logging.Error(err))
		return
	}
	defer daemon.Close()

	if err := daemon.Run(ctx); err != nil {
		logger.Error("daemon run", logging.Error(err))
		return
	}
	logger.Info("newsforged shut down")
}
