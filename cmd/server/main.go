package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviegrid/internal/catalog"
	"github.com/Clark-Hu/moviegrid/internal/config"
	httpserver "github.com/Clark-Hu/moviegrid/internal/http"
	"github.com/Clark-Hu/moviegrid/internal/logging"
	"github.com/Clark-Hu/moviegrid/internal/metrics"
	"github.com/Clark-Hu/moviegrid/internal/repository"
	"github.com/Clark-Hu/moviegrid/internal/scheduler"
	"github.com/Clark-Hu/moviegrid/internal/tmdb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err == nil {
		err = cfg.RequireRemote()
	}
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("open local store")
	}
	defer backend.Close()

	timeout := time.Duration(cfg.TMDBTimeoutSecs) * time.Second
	remote, err := tmdb.NewHTTPClient(cfg.TMDBURL, cfg.TMDBAPIKey, timeout, logger)
	if err != nil {
		logger.WithError(err).Fatal("init tmdb client")
	}

	m := metrics.New()
	svc := catalog.New(backend.Movies, remote,
		catalog.WithRecorder(m),
		catalog.WithLogger(logger),
	)

	if cfg.CacheWarmSchedule != "" {
		warmer := scheduler.NewWarmer(svc, cfg.CacheWarmSchedule, 2*timeout, logger)
		if err := warmer.Start(); err != nil {
			logger.WithError(err).Fatal("start cache warmer")
		}
		defer warmer.Stop()
	}

	server := httpserver.New(cfg, svc, backend, m, logger)
	logger.WithFields(logrus.Fields{
		"port":   cfg.Port,
		"driver": cfg.StoreDriver,
	}).Info("moviegrid listening")

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("graceful shutdown error")
	}
}
