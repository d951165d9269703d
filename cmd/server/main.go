package main

import (
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matheustorresii/tour-of-heroes/internal/config"
	"github.com/matheustorresii/tour-of-heroes/internal/db"
	"github.com/matheustorresii/tour-of-heroes/internal/events"
	"github.com/matheustorresii/tour-of-heroes/internal/hero"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	cfg := config.LoadFromPath(*configPath)

	storage, err := db.NewSQLiteDB(cfg.Server.DSN)
	if err != nil {
		logger.Error("db init failed", "err", err)
		os.Exit(1)
	}
	defer storage.Close()
	if cfg.Server.Seed {
		if err := storage.Seed(db.DefaultHeroes); err != nil {
			logger.Error("db seed failed", "err", err)
			os.Exit(1)
		}
	}

	hub := events.NewHub(logger)
	mux := http.NewServeMux()
	hero.NewHandler(storage, hub, logger).Register(mux)
	mux.HandleFunc(hero.CollectionPath+events.FeedPath, hub.ServeWS)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           loggingMiddleware(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("heroes server listening", "addr", "http://"+cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

// loggingMiddleware is a simple request logger.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery, "took", time.Since(started))
	})
}
