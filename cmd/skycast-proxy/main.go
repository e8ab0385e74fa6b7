package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abelbrown/skycast/internal/config"
	"github.com/abelbrown/skycast/internal/logging"
	"github.com/abelbrown/skycast/internal/otel"
	"github.com/abelbrown/skycast/internal/provider"
	"github.com/abelbrown/skycast/internal/proxy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.InitWriter(os.Stderr, "info")
		logging.Error("load config", "err", err)
		os.Exit(1)
	}

	logging.InitWriter(os.Stderr, cfg.Logging.Level)
	logger := logging.WithPrefix("proxy")

	if cfg.Proxy.APIKey == "" {
		logger.Warn("WEATHER_API_KEY is not set; every upstream call will fail")
	}

	// SKYCAST_TRACE=1 streams request events to stdout as JSONL.
	var events *otel.Logger
	if otel.TraceEnabled() {
		events = otel.NewLogger(os.Stdout)
		defer events.Close()
	}

	metrics := proxy.NewMetrics()
	upstream := provider.New(cfg.Proxy.APIKey, cfg.Proxy.UpstreamBaseURL, cfg.Proxy.UpstreamTimeout)
	srv := proxy.NewServer(upstream, metrics, events, logger)

	httpSrv := &http.Server{
		Addr: ":" + cfg.Proxy.Port,
		Handler: proxy.NewRouter(srv, proxy.RouterOptions{
			AllowedOrigins: cfg.Proxy.AllowedOrigins,
			Logger:         logger,
			Metrics:        metrics,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("skycast proxy started", "port", cfg.Proxy.Port, "upstream", cfg.Proxy.UpstreamBaseURL)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
		os.Exit(1)
	}
}
