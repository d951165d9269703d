package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/chzyer/readline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matheustorresii/tour-of-heroes/internal/cli"
	"github.com/matheustorresii/tour-of-heroes/internal/config"
	"github.com/matheustorresii/tour-of-heroes/internal/events"
	"github.com/matheustorresii/tour-of-heroes/internal/heroes"
	"github.com/matheustorresii/tour-of-heroes/internal/heroservice"
	"github.com/matheustorresii/tour-of-heroes/internal/message"
	"github.com/matheustorresii/tour-of-heroes/internal/models"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	metricsAddr := flag.String("metrics-addr", "", "serve gateway metrics on this address")
	verbose := flag.Bool("v", false, "log service messages to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	cfg := config.LoadFromPath(*configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	if *metricsAddr != "" {
		srv := newMetricsServer(*metricsAddr, reg)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	messages := message.NewService()
	svc, err := heroservice.New(cfg.Client.BaseURL,
		message.Tee(messages, message.NewLogSink(logger)),
		heroservice.WithHTTPClient(&http.Client{Timeout: cfg.Client.Timeout}),
		heroservice.WithCollectionPath(cfg.Client.CollectionPath),
		heroservice.WithLogger(logger),
		heroservice.WithMetrics(heroservice.NewMetrics(reg)),
	)
	if err != nil {
		logger.Error("hero service init failed", "err", err)
		os.Exit(1)
	}

	presenter := heroes.NewPresenter(svc)
	presenter.Activate(ctx)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "heroes> ",
		HistoryFile:     cfg.Client.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Error("readline init failed", "err", err)
		os.Exit(1)
	}
	defer rl.Close()

	c := cli.NewCLI(svc, presenter, messages, rl.Stdout())
	c.RL = rl
	feed := events.FeedURL(svc.CollectionURL())
	c.SetWatcher(func(ctx context.Context, fn func(models.HeroEvent)) error {
		return events.Subscribe(ctx, feed, fn)
	})
	defer c.StopWatch()

	fmt.Fprintf(rl.Stdout(), "%d heroes loaded from %s ('help' for commands)\n", len(presenter.Heroes()), svc.CollectionURL())
	for {
		err := c.Run(ctx)
		if err == nil {
			continue
		}
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			fmt.Fprintln(rl.Stdout(), "Use 'exit' or 'quit' to exit the program.")
		case errors.Is(err, io.EOF), errors.Is(err, cli.ErrExit):
			return
		default:
			fmt.Fprintln(rl.Stdout(), "Error:", err)
		}
	}
}

func newMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
