package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinema/catalog"
	"cinema/httpserver"
	"cinema/pkg/config"
	"cinema/pkg/logger"
	"cinema/pkg/metrics"
	"cinema/pkg/sentry"
	"cinema/store"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
)

const shutdownTimeout = 10 * time.Second

// @title Cinema catalog API
// @version 1.0
// @description Compares a sequential and a concurrent fetch of movies and theatres.
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Fatalw("cannot init sentry", "error", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		sentry.Fatal(err)
		log.Fatalw("cannot open catalog store", "driver", cfg.DB.Driver, "error", err)
	}
	defer func() { _ = st.Close() }()

	access := catalog.NewDataAccess(st,
		catalog.WithLatency(catalog.Latency{
			Movies:   cfg.Fetch.MoviesLatency,
			Theatres: cfg.Fetch.TheatresLatency,
		}),
		catalog.WithLogger(log),
	)

	server := httpserver.Default(cfg,
		httpserver.WithLogger(log),
		httpserver.WithMetrics(metrics.NewRecorder()),
		httpserver.WithCatalogService(catalog.NewUsecase(access)),
	)

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server started", "addr", server.Addr, "driver", st.Driver())
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server stopped with error", "error", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorw("graceful shutdown failed", "error", err)
		}
	}
}
