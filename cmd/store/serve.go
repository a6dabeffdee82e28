package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/store/internal/config"
	"github.com/vango-dev/store/internal/errors"
	"github.com/vango-dev/store/pkg/middleware"
	"github.com/vango-dev/store/pkg/server"
	"github.com/vango-dev/store/pkg/store"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a store over HTTP",
		Long: `Serve the store described by store.json.

Routes:
  GET  /store     read the value
  PUT  /store     write {"value": ...}
  GET  /metrics   Prometheus metrics (when metrics.enabled)

Examples:
  store serve
  store serve --addr :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if addr != "" {
				if err := applyAddr(cfg, addr); err != nil {
					return err
				}
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg, opts.debug)
			return runServe(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from store.json)")

	return cmd
}

// applyAddr overrides the configured host and port with addr.
func applyAddr(cfg *config.Config, addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return errors.New("E150").
			WithDetail("--addr must be host:port").
			Wrap(err)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New("E122").Wrap(err)
	}
	cfg.Server.Host = host
	cfg.Server.Port = n
	return cfg.Validate()
}

// newServeRouter builds the HTTP routes for cfg's store.
func newServeRouter(cfg *config.Config, logger *slog.Logger) http.Handler {
	onchange := store.Notify(func(value, old any) {
		logger.Info("store: changed", slog.String("store", cfg.Name))
	})
	if cfg.Metrics.Enabled {
		onchange = middleware.Prometheus(cfg.Name, onchange,
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
	}
	if cfg.Tracing.Enabled {
		onchange = middleware.OpenTelemetry(cfg.Name, onchange,
			middleware.WithTracerName(cfg.Tracing.TracerName),
		)
	}
	onchange = middleware.Logging(cfg.Name, onchange, logger)

	s := store.New(cfg.Initial, onchange,
		store.WithName(cfg.Name),
		store.WithLogger(logger),
	)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Mount("/store", server.Handler(s,
		server.WithName(cfg.Name),
		server.WithLogger(logger),
	))
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	return r
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           newServeRouter(cfg, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("store: listening", slog.String("addr", srv.Addr), slog.String("store", cfg.Name))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("store: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
