// Package testutil mints keys, key sets and tokens for tests.
package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
)

// Key is a private signing key published under KID with algorithm Alg.
type Key struct {
	KID     string
	Alg     jwa.SignatureAlgorithm
	Private any
}

// NewRSAKey generates a 2048 bit RS256 key.
func NewRSAKey(t testing.TB, kid string) *Key {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	return &Key{KID: kid, Alg: jwa.RS256, Private: priv}
}

// NewECKey generates an EC key on the curve matching alg.
func NewECKey(t testing.TB, kid string, alg jwa.SignatureAlgorithm) *Key {
	t.Helper()
	var curve elliptic.Curve
	switch alg {
	case jwa.ES256:
		curve = elliptic.P256()
	case jwa.ES384:
		curve = elliptic.P384()
	case jwa.ES512:
		curve = elliptic.P521()
	default:
		t.Fatalf("No curve for %s", alg)
	}
	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate EC key: %v", err)
	}
	return &Key{KID: kid, Alg: alg, Private: priv}
}

// PublicJWK returns the public half of k with kid and alg set.
func (k *Key) PublicJWK(t testing.TB) jwk.Key {
	t.Helper()
	priv, err := jwk.FromRaw(k.Private)
	if err != nil {
		t.Fatalf("Failed to create JWK: %v", err)
	}
	pub, err := priv.PublicKey()
	if err != nil {
		t.Fatalf("Failed to get public key: %v", err)
	}
	_ = pub.Set(jwk.KeyIDKey, k.KID)
	_ = pub.Set(jwk.AlgorithmKey, k.Alg)
	_ = pub.Set(jwk.KeyUsageKey, "sig")
	return pub
}

// PublicJSON returns the public JWK of k as a generic JSON object so tests
// can tamper with individual members.
func (k *Key) PublicJSON(t testing.TB) map[string]any {
	t.Helper()
	data, err := json.Marshal(k.PublicJWK(t))
	if err != nil {
		t.Fatalf("Failed to marshal JWK: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Failed to unmarshal JWK: %v", err)
	}
	return m
}

// KeySetJSON returns a JWKS document publishing keys in order.
func KeySetJSON(t testing.TB, keys ...*Key) []byte {
	t.Helper()
	entries := make([]any, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, k.PublicJSON(t))
	}
	return KeySetFromEntries(t, entries...)
}

// KeySetFromEntries wraps arbitrary entries in a JWKS document.
func KeySetFromEntries(t testing.TB, entries ...any) []byte {
	t.Helper()
	if entries == nil {
		entries = []any{}
	}
	data, err := json.Marshal(map[string]any{"keys": entries})
	if err != nil {
		t.Fatalf("Failed to marshal key set: %v", err)
	}
	return data
}

// Sign issues a compact token over claims with k's kid and algorithm.
func Sign(t testing.TB, k *Key, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("Failed to marshal claims: %v", err)
	}
	header := map[string]any{"alg": k.Alg.String(), "kid": k.KID, "typ": "JWT"}
	return SignRaw(t, k.Alg, k.Private, header, payload)
}

// SignRaw signs payload with alg and key under an arbitrary header. The
// header is not required to agree with alg.
func SignRaw(t testing.TB, alg jwa.SignatureAlgorithm, key any, header map[string]any, payload []byte) string {
	t.Helper()
	headerJSON, err := json.Marshal(header)
	if err != nil {
		t.Fatalf("Failed to marshal header: %v", err)
	}
	input := Encode(headerJSON) + "." + Encode(payload)

	signer, err := jws.NewSigner(alg)
	if err != nil {
		t.Fatalf("Failed to create signer: %v", err)
	}
	sig, err := signer.Sign([]byte(input), key)
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}
	return input + "." + Encode(sig)
}

// Encode is unpadded base64url.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// JWKSServer serves a key set document and counts requests.
type JWKSServer struct {
	*httptest.Server

	hits   atomic.Int64
	mu     sync.Mutex
	body   []byte
	status int
}

// NewJWKSServer starts a server answering every request with body.
func NewJWKSServer(t testing.TB, body []byte) *JWKSServer {
	t.Helper()
	s := &JWKSServer{body: body, status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.hits.Add(1)
		s.mu.Lock()
		body, status := s.body, s.status
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}

// JWKSURL returns the well-known key set URL of the server.
func (s *JWKSServer) JWKSURL() string {
	return s.Server.URL + "/.well-known/jwks.json"
}

func (s *JWKSServer) SetBody(body []byte) {
	s.mu.Lock()
	s.body = body
	s.mu.Unlock()
}

func (s *JWKSServer) SetStatus(status int) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Hits returns the number of requests served.
func (s *JWKSServer) Hits() int64 {
	return s.hits.Load()
}

// TestServer creates a test HTTP server for a mux.
func TestServer(t *testing.T, mux *http.ServeMux) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
	})

	return server
}
