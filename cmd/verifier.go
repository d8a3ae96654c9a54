package cmd

import (
	"fmt"

	"github.com/jrschumacher/cognito-jwt/internal/config"
	"github.com/jrschumacher/cognito-jwt/internal/logger"
	"github.com/jrschumacher/cognito-jwt/pkg/cognito"
)

// verifierOptions translates config into library options.
func verifierOptions(c *config.Config, extra ...cognito.Option) []cognito.Option {
	opts := []cognito.Option{
		cognito.WithCacheTTL(c.JWKSCacheTTL),
		cognito.WithRefreshInterval(c.JWKSRefreshInterval),
		cognito.WithFetchTimeout(c.JWKSFetchTimeout),
		cognito.WithRetries(c.JWKSFetchRetries),
		cognito.WithLogger(logger.With("component", "cognito")),
	}
	if c.JWKSURL != "" {
		opts = append(opts, cognito.WithJWKSURL(c.JWKSURL))
	}
	return append(opts, extra...)
}

func newVerifier(c *config.Config, extra ...cognito.Option) (*cognito.Verifier, error) {
	if err := config.Validate(c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	v, err := cognito.New(c.CognitoRegion, c.CognitoUserPoolID, verifierOptions(c, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("create verifier: %w", err)
	}
	return v, nil
}
