// Command observerd runs the telemetry collection daemon. It keeps a bounded
// in-memory store of metrics, traces, alerts, health checks, and log entries,
// samples Go runtime statistics on a schedule, and serves the collected data
// over HTTP (/metrics, /export, /healthz).
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"obskit/internal/config"
	"obskit/internal/observability/logging"
	"obskit/internal/sampler"
	"obskit/pkg/obs"
	"obskit/pkg/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	level, err := config.ParseLogLevel(cfg.Service.LogLevel)
	if err != nil {
		slog.Error("failed to parse log level", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.NewLogger(level)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("observerd exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("observerd stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	toolkit, err := obs.New(obs.Options{
		ServiceName: cfg.Service.Name,
		Store:       cfg.StoreConfig(),
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	logger.Info("telemetry store initialized",
		slog.Int("capacity", cfg.Store.Capacity),
		slog.Int("low_water", cfg.Store.LowWater))

	// Bridge the collected sample data into the default Prometheus registry
	// so /metrics serves it alongside the store's own operational metrics.
	if err := prometheus.Register(store.NewCollector(toolkit.Store())); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	srv := newServer(cfg.Server, toolkit, logger)
	g.Go(func() error {
		logger.Info("http server starting", slog.String("addr", cfg.Server.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Sampling.Enabled {
		s := sampler.New(toolkit, cfg.Sampling.Schedule, logger)
		if err := s.SampleOnce(ctx); err != nil {
			logger.Warn("initial runtime sample failed", slog.Any("error", err))
		}
		if err := s.Start(); err != nil {
			return err
		}
		g.Go(func() error {
			<-ctx.Done()
			s.Stop()
			return nil
		})
	} else {
		logger.Info("runtime sampling disabled")
	}

	return g.Wait()
}
