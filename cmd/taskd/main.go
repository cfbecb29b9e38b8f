// Package main is the entry point for taskd, the task REST service.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskdeck/internal/logging"
	"taskdeck/internal/server"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "taskd.yaml", "server configuration file")
	flag.Parse()

	logger := logging.New(os.Stderr, logging.Options{
		Level:           logging.ParseLevel("info"),
		Formatter:       logging.ParseFormatter("text"),
		ReportTimestamp: true,
		Prefix:          "taskd",
	})

	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("cannot load config", "err", err)
	}
	logger.SetLevel(logging.ParseLevel(cfg.LogLevel))

	store, err := server.Open(cfg.DB, logger)
	if err != nil {
		logger.Fatal("cannot open database", "path", cfg.DB, "err", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(store, logger, cfg.Timeout),
		ReadHeaderTimeout: cfg.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "address", srv.Addr, "db", cfg.DB)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
