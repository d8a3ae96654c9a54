package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jrschumacher/cognito-jwt/internal/config"
	"github.com/jrschumacher/cognito-jwt/internal/httputil"
	"github.com/jrschumacher/cognito-jwt/internal/svrlib"
)

// Probe reports whether a dependency is reachable.
type Probe func(ctx context.Context) error

type HealthRouter struct {
	*svrlib.Router
	ready Probe
}

// RegisterRoutes registers all health check routes on the given mux
func RegisterRoutes(mux *http.ServeMux, baseRoute string, cfg *config.Config, ready Probe) {
	router := &HealthRouter{Router: svrlib.NewRouter(mux, baseRoute, cfg), ready: ready}
	router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(router.HealthzHandler))
	router.Handle(http.MethodGet, "/readyz", http.HandlerFunc(router.ReadyzHandler))
}

// HealthzHandler responds to /healthz requests for health checks
func (rt *HealthRouter) HealthzHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

// ReadyzHandler reports 503 while the user pool key set cannot be fetched.
func (rt *HealthRouter) ReadyzHandler(w http.ResponseWriter, r *http.Request) {
	if rt.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		if err := rt.ready(ctx); err != nil {
			httputil.WriteError(w, http.StatusServiceUnavailable, "key set unavailable", "error", err)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ready")
}
