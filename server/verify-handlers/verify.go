package verify

import (
	"net/http"

	"github.com/jrschumacher/cognito-jwt/internal/config"
	"github.com/jrschumacher/cognito-jwt/internal/httputil"
	"github.com/jrschumacher/cognito-jwt/internal/middleware"
	"github.com/jrschumacher/cognito-jwt/internal/svrlib"
	"github.com/jrschumacher/cognito-jwt/pkg/cognito"
)

type VerifyRouter struct {
	*svrlib.Router
}

// Response is returned for an accepted token.
type Response struct {
	Active bool           `json:"active"`
	Claims cognito.Claims `json:"claims"`
}

// RegisterRoutes registers /verify behind bearer token authentication.
func RegisterRoutes(mux *http.ServeMux, baseRoute string, cfg *config.Config, auth *middleware.Auth) {
	router := &VerifyRouter{svrlib.NewRouter(mux, baseRoute, cfg)}
	handler := middleware.NewChain(auth.RequireToken).ThenFunc(router.VerifyHandler)
	router.Handle(http.MethodGet, "/verify", handler)
	router.Handle(http.MethodPost, "/verify", handler)
}

// VerifyHandler echoes the claims of the verified token.
func (rt *VerifyRouter) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r)
	if !ok {
		httputil.WriteUnauthorized(w, "missing bearer token")
		return
	}
	httputil.WriteSuccess(w, Response{Active: true, Claims: claims})
}
