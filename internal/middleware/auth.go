package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jrschumacher/cognito-jwt/internal/httputil"
	"github.com/jrschumacher/cognito-jwt/internal/logger"
	"github.com/jrschumacher/cognito-jwt/pkg/cognito"
)

// TokenVerifier is implemented by *cognito.Verifier.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (cognito.Claims, error)
}

type contextKey string

const claimsContextKey contextKey = "claims"

// Auth verifies bearer tokens and checks their time claims.
type Auth struct {
	Verifier TokenVerifier
	// Issuer, when set, must equal the "iss" claim.
	Issuer string
	// Leeway is the clock skew tolerated on exp and nbf.
	Leeway time.Duration
	Now    func() time.Time
}

// RequireToken rejects requests without a valid bearer token and stores the
// verified claims in the request context.
func (a *Auth) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			httputil.WriteUnauthorized(w, "missing bearer token")
			return
		}

		claims, err := a.Verifier.Verify(r.Context(), token)
		if err != nil {
			httputil.WriteUnauthorized(w, "invalid token")
			return
		}

		if msg := a.checkClaims(claims); msg != "" {
			logger.Debug("Rejected verified token", "sub", claims.Subject(), "reason", msg)
			httputil.WriteUnauthorized(w, msg)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// checkClaims returns a rejection message, or "" if iss, exp and nbf are acceptable.
func (a *Auth) checkClaims(claims cognito.Claims) string {
	if a.Issuer != "" {
		if iss, _ := claims.String("iss"); iss != a.Issuer {
			return "unexpected issuer"
		}
	}

	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}

	if _, present := claims["exp"]; !present {
		return "token has no expiry"
	}
	exp, ok := claims.Time("exp")
	if !ok {
		return "invalid exp claim"
	}
	if now.After(exp.Add(a.Leeway)) {
		return "token expired"
	}

	// A present but unreadable nbf cannot be shown to have passed.
	if _, present := claims["nbf"]; present {
		nbf, ok := claims.Time("nbf")
		if !ok {
			return "invalid nbf claim"
		}
		if now.Add(a.Leeway).Before(nbf) {
			return "token not yet valid"
		}
	}
	return ""
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetClaims returns the claims stored by RequireToken.
func GetClaims(r *http.Request) (cognito.Claims, bool) {
	claims, ok := r.Context().Value(claimsContextKey).(cognito.Claims)
	return claims, ok
}
