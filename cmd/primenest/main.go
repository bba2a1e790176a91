// Command primenest serves the marketplace HTTP API over the configured store.
package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"primenest/internal/adapters/api"
	"primenest/internal/chat"
	"primenest/internal/config"
	"primenest/internal/core"
	"primenest/internal/kv"
	"primenest/internal/logging"
	"primenest/internal/query"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, config.Load(), os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logOut io.Writer) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)
	if err != nil {
		return err
	}
	e, area, err := newServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := kv.Close(area); err != nil {
			logger.Warn("close storage", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		errCh <- e.Start(cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newServer wires storage, service, dispatcher and routes. The caller closes
// the returned area.
func newServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*echo.Echo, kv.Store, error) {
	store, area, err := core.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom, err := core.NewPrometheusMetricsRecorder(reg)
	if err != nil {
		_ = kv.Close(area)
		return nil, nil, err
	}
	metrics := core.MultiMetricsRecorder{prom, core.NewExpvarMetricsRecorder("")}
	tracer := core.NewJSONTracer(nil)

	svc := core.NewService(store, core.NewSessions(area, nil, logger),
		core.WithLatency(cfg.Latency, cfg.LogoutLatency),
		core.WithMetricsRecorder(metrics),
		core.WithTracer(tracer),
		core.WithLogger(logger),
	)
	dispatcher, err := query.FromConfig(svc, cfg.Passthrough, logger)
	if err != nil {
		_ = kv.Close(area)
		return nil, nil, err
	}

	e := api.NewEcho(&api.Handler{
		Queries: dispatcher,
		Service: svc,
		Chat:    chat.NewResponder(cfg.ChatAgentName),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:  logger,
	})
	e.GET("/debug/vars", echo.WrapHandler(expvar.Handler()))
	e.GET("/debug/traces", func(c echo.Context) error {
		return c.JSON(http.StatusOK, tracer.Entries())
	})
	return e, area, nil
}
