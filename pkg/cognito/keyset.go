package cognito

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	issuerURLFormat = "https://cognito-idp.%s.amazonaws.com/%s"
	jwksPath        = "/.well-known/jwks.json"

	// maxKeySetSize bounds how much of a key set response is read.
	maxKeySetSize = 1 << 20
)

var regionPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Issuer identifies a Cognito user pool.
type Issuer struct {
	Region     string
	UserPoolID string
}

// Validate checks that both identifiers can be embedded in the issuer URL.
func (i Issuer) Validate() error {
	if i.Region == "" {
		return fmt.Errorf("%w: region is required", ErrInvalidIssuer)
	}
	if !regionPattern.MatchString(i.Region) {
		return fmt.Errorf("%w: region %q is not a valid host label", ErrInvalidIssuer, i.Region)
	}
	if i.UserPoolID == "" {
		return fmt.Errorf("%w: user pool ID is required", ErrInvalidIssuer)
	}
	if url.PathEscape(i.UserPoolID) != i.UserPoolID || i.UserPoolID == "." || i.UserPoolID == ".." {
		return fmt.Errorf("%w: user pool ID %q is not a valid path segment", ErrInvalidIssuer, i.UserPoolID)
	}
	return nil
}

// URL returns the issuer URL, which is also the expected "iss" claim.
func (i Issuer) URL() string {
	return fmt.Sprintf(issuerURLFormat, i.Region, i.UserPoolID)
}

// JWKSURL returns the well-known key set URL of the user pool.
func (i Issuer) JWKSURL() string {
	return i.URL() + jwksPath
}

// KeySet is a decoded JSON Web Key Set. Entries keep document order.
type KeySet struct {
	Keys []KeyEntry `json:"keys"`
}

// Lookup returns the first entry whose kid equals kid.
func (s *KeySet) Lookup(kid string) (*KeyEntry, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Keys {
		if s.Keys[i].KeyID == kid {
			return &s.Keys[i], true
		}
	}
	return nil, false
}

// KeyEntry is a single key of a KeySet. Key material stays raw until the
// entry is resolved.
type KeyEntry struct {
	KeyID     string
	Algorithm string
	KeyType   string

	raw json.RawMessage
}

// UnmarshalJSON keeps entries that are not objects, or whose kid/alg/kty are
// not strings, as entries that never match a kid.
func (e *KeyEntry) UnmarshalJSON(data []byte) error {
	e.raw = append(json.RawMessage(nil), data...)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	e.KeyID = stringField(fields, "kid")
	e.Algorithm = stringField(fields, "alg")
	e.KeyType = stringField(fields, "kty")
	return nil
}

// MarshalJSON returns the entry as it was read.
func (e KeyEntry) MarshalJSON() ([]byte, error) {
	if len(e.raw) == 0 {
		return []byte("null"), nil
	}
	return e.raw, nil
}

func stringField(fields map[string]json.RawMessage, name string) string {
	raw, ok := fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// ParseKeySet decodes a key set document. The document must be a JSON
// object; a missing "keys" member yields an empty set.
func ParseKeySet(data []byte) (*KeySet, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: key set is not a JSON object", ErrFetch)
	}
	var set KeySet
	if err := json.Unmarshal(trimmed, &set); err != nil {
		return nil, fmt.Errorf("%w: decode key set: %v", ErrFetch, err)
	}
	return &set, nil
}

// Fetcher retrieves key sets over HTTP.
type Fetcher struct {
	client   *retryablehttp.Client
	logger   *slog.Logger
	observer Observer
}

// NewFetcher creates a Fetcher. Only the transport related options
// (WithHTTPClient, WithFetchTimeout, WithRetries, WithLogger, WithObserver)
// apply.
func NewFetcher(opts ...Option) *Fetcher {
	return newFetcher(buildOptions(opts))
}

func newFetcher(o *options) *Fetcher {
	rc := retryablehttp.NewClient()
	if o.httpClient != nil {
		hc := *o.httpClient
		rc.HTTPClient = &hc
	}
	rc.HTTPClient.Timeout = o.fetchTimeout
	rc.RetryMax = o.retries
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.Logger = o.logger

	return &Fetcher{
		client:   rc,
		logger:   o.logger,
		observer: o.observer,
	}
}

// FetchIssuer fetches the key set published by the given user pool.
func (f *Fetcher) FetchIssuer(ctx context.Context, issuer Issuer) (*KeySet, error) {
	if err := issuer.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return f.Fetch(ctx, issuer.JWKSURL())
}

// Fetch issues a GET for the key set at jwksURL. Transport failures,
// non-200 responses and undecodable bodies are reported as ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, jwksURL string) (*KeySet, error) {
	start := time.Now()
	set, err := f.fetch(ctx, jwksURL)
	f.observer.ObserveFetch(err, time.Since(start))
	if err != nil {
		f.logger.Warn("JWKS fetch failed", "url", jwksURL, "error", err)
		return nil, err
	}
	f.logger.Debug("JWKS fetched", "url", jwksURL, "keys", len(set.Keys))
	return set, nil
}

func (f *Fetcher) fetch(ctx context.Context, jwksURL string) (*KeySet, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxKeySetSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	if len(body) > maxKeySetSize {
		return nil, fmt.Errorf("%w: key set exceeds %d bytes", ErrFetch, maxKeySetSize)
	}
	return ParseKeySet(body)
}
