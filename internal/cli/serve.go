package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/sortstep"
	"github.com/aretw0/sortstep/internal/config"
	httpAdapter "github.com/aretw0/sortstep/pkg/adapters/http"
	redisAdapter "github.com/aretw0/sortstep/pkg/adapters/redis"
	"github.com/aretw0/sortstep/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Serve listens on cfg.HTTP.Addr and serves the HTTP API until ctx ends.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.HTTP.Addr, err)
	}
	return ServeListener(ctx, ln, cfg, logger)
}

// ServeListener serves the HTTP API on ln until ctx ends, then shuts down
// within cfg.HTTP.ShutdownTimeout. Open event streams are closed first.
func ServeListener(ctx context.Context, ln net.Listener, cfg config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	values, err := initialArray(cfg.Generate)
	if err != nil {
		_ = ln.Close()
		return err
	}
	opts := []sortstep.Option{
		sortstep.WithLogger(logger),
		sortstep.WithDelay(cfg.Delay),
		sortstep.WithArray(values),
		sortstep.WithLifecycleHooks(observability.Chain(metrics.Hooks(), observability.LoggingHooks(logger))),
	}

	client, err := connectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		_ = ln.Close()
		return err
	}
	if client != nil {
		defer client.Close()
		opts = append(opts, sortstep.WithRenderer(
			redisAdapter.NewPublisher(client, cfg.Redis.Channel, redisAdapter.WithLogger(logger)),
		))
	}

	ctrl := sortstep.New(opts...)
	defer ctrl.Close()

	handler, err := httpAdapter.NewHandler(ctrl,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
	)
	if err != nil {
		_ = ln.Close()
		return fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	// Request contexts derive from base so shutdown can end SSE streams.
	base, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("Starting sortstep server", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down sortstep server")
		stopStreams()
		ctrl.Cancel()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", cfg.HTTP.ShutdownTimeout, err)
		}
		return nil
	})

	return group.Wait()
}
