package cognito

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultFetchTimeout bounds a single key set request attempt.
	DefaultFetchTimeout = 5 * time.Second
	// DefaultRetries is how many times a failed key set request is retried.
	DefaultRetries = 2
	// DefaultCacheTTL is how long a fetched key set is reused.
	DefaultCacheTTL = 10 * time.Minute
	// DefaultRefreshInterval is the minimum age of a cached key set before an
	// unknown kid triggers a refetch.
	DefaultRefreshInterval = time.Minute
)

// Observer receives pipeline outcomes, e.g. for metrics.
type Observer interface {
	ObserveVerification(reason Reason, elapsed time.Duration)
	ObserveFetch(err error, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveVerification(Reason, time.Duration) {}
func (nopObserver) ObserveFetch(error, time.Duration)         {}

type options struct {
	jwksURL         string
	httpClient      *http.Client
	fetchTimeout    time.Duration
	retries         int
	cacheTTL        time.Duration
	refreshInterval time.Duration
	cache           *KeySetCache
	logger          *slog.Logger
	observer        Observer
}

// Option configures a Verifier or Fetcher.
type Option func(*options)

func buildOptions(opts []Option) *options {
	o := &options{
		fetchTimeout:    DefaultFetchTimeout,
		retries:         DefaultRetries,
		cacheTTL:        DefaultCacheTTL,
		refreshInterval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	if o.retries < 0 {
		o.retries = 0
	}
	return o
}

// WithJWKSURL replaces the well-known key set URL derived from the issuer.
func WithJWKSURL(u string) Option {
	return func(o *options) { o.jwksURL = u }
}

// WithHTTPClient sets the base HTTP client. Its Timeout is overridden by
// WithFetchTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) { o.fetchTimeout = d }
}

func WithRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

// WithCacheTTL sets the key set cache TTL. Zero disables caching, so every
// Verify call fetches the key set.
func WithCacheTTL(d time.Duration) Option {
	return func(o *options) { o.cacheTTL = d }
}

func WithRefreshInterval(d time.Duration) Option {
	return func(o *options) { o.refreshInterval = d }
}

// WithCache shares a KeySetCache between verifiers. It takes precedence over
// WithCacheTTL.
func WithCache(c *KeySetCache) Option {
	return func(o *options) { o.cache = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}
