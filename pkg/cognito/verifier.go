package cognito

import (
	"context"
	"log/slog"
	"time"
)

// Verifier verifies tokens issued by one Cognito user pool. It is safe for
// concurrent use.
type Verifier struct {
	issuer   Issuer
	jwksURL  string
	keys     func(ctx context.Context, kid string) (*KeySet, error)
	logger   *slog.Logger
	observer Observer
}

// New creates a Verifier for the user pool userPoolID in region.
func New(region, userPoolID string, opts ...Option) (*Verifier, error) {
	issuer := Issuer{Region: region, UserPoolID: userPoolID}
	if err := issuer.Validate(); err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	jwksURL := issuer.JWKSURL()
	if o.jwksURL != "" {
		jwksURL = o.jwksURL
	}

	var keys func(ctx context.Context, kid string) (*KeySet, error)
	switch {
	case o.cache != nil:
		keys = cachedKeys(o.cache, jwksURL)
	case o.cacheTTL > 0:
		keys = cachedKeys(newKeySetCache(newFetcher(o), o.cacheTTL, o.refreshInterval), jwksURL)
	default:
		fetcher := newFetcher(o)
		keys = func(ctx context.Context, _ string) (*KeySet, error) {
			return fetcher.Fetch(ctx, jwksURL)
		}
	}

	return &Verifier{
		issuer:   issuer,
		jwksURL:  jwksURL,
		keys:     keys,
		logger:   o.logger.With("issuer", issuer.URL()),
		observer: o.observer,
	}, nil
}

func cachedKeys(cache *KeySetCache, jwksURL string) func(context.Context, string) (*KeySet, error) {
	return func(ctx context.Context, kid string) (*KeySet, error) {
		return cache.Get(ctx, jwksURL, kid)
	}
}

// Issuer returns the user pool the verifier is bound to.
func (v *Verifier) Issuer() Issuer {
	return v.issuer
}

// JWKSURL returns the URL key sets are fetched from.
func (v *Verifier) JWKSURL() string {
	return v.jwksURL
}

// Verify checks the token's signature against the user pool's key set and
// returns the decoded payload. Any failure returns ErrRejected.
//
// Only the signature is checked. Expiry, not-before, issuer, audience and
// token_use claims are NOT validated and must be checked by the caller.
func (v *Verifier) Verify(ctx context.Context, token string) (Claims, error) {
	start := time.Now()
	claims, err := v.verify(ctx, token)
	reason := ReasonOf(err)
	v.observer.ObserveVerification(reason, time.Since(start))

	if err != nil {
		level := slog.LevelDebug
		if reason == ReasonFetchError || reason == ReasonUnknown {
			level = slog.LevelWarn
		}
		v.logger.Log(ctx, level, "Token rejected", "reason", reason.String(), "error", err)
		return nil, ErrRejected
	}
	v.logger.Debug("Token verified", "sub", claims.Subject())
	return claims, nil
}

// verify runs the pipeline; the first failing stage ends it.
func (v *Verifier) verify(ctx context.Context, token string) (Claims, error) {
	tok, err := parseToken(token)
	if err != nil {
		return nil, err
	}

	set, err := v.keys(ctx, tok.keyID)
	if err != nil {
		return nil, err
	}

	key, err := resolveKey(set, tok.keyID)
	if err != nil {
		return nil, err
	}

	return verifySignature(tok, key)
}
