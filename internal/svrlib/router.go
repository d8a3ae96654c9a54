// Package svrlib provides common server routing utilities
package svrlib

import (
	"net/http"

	"github.com/jrschumacher/cognito-jwt/internal/config"
)

// Router wraps HTTP routing functionality with configuration
type Router struct {
	Config    *config.Config
	Mux       *http.ServeMux
	BaseRoute string
}

// NewRouter creates a new Router with the given mux, base route, and configuration
func NewRouter(mux *http.ServeMux, baseRoute string, cfg *config.Config) *Router {
	return &Router{cfg, mux, baseRoute}
}

// Handle registers handler for method and path below the base route.
func (r *Router) Handle(method, path string, handler http.Handler) {
	r.Mux.Handle(method+" "+r.BaseRoute+path, handler)
}
