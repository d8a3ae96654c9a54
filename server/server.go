package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jrschumacher/cognito-jwt/internal/config"
	"github.com/jrschumacher/cognito-jwt/internal/logger"
	"github.com/jrschumacher/cognito-jwt/internal/middleware"
	health "github.com/jrschumacher/cognito-jwt/server/health-handlers"
	verify "github.com/jrschumacher/cognito-jwt/server/verify-handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Verifier middleware.TokenVerifier
	Issuer   string
	Ready    health.Probe
	Gatherer prometheus.Gatherer
}

// NewHandler assembles all routes.
func NewHandler(cfg *config.Config, deps Deps) http.Handler {
	mux := http.NewServeMux()

	health.RegisterRoutes(mux, "", cfg, deps.Ready)
	verify.RegisterRoutes(mux, "", cfg, &middleware.Auth{
		Verifier: deps.Verifier,
		Issuer:   deps.Issuer,
		Leeway:   cfg.ClockLeeway,
	})
	if cfg.MetricsEnabled && deps.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return middleware.NewChain(middleware.RequestLogger).Then(mux)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, cfg *config.Config, deps Deps) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewHandler(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
