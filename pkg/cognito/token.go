package cognito

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jws"
)

// parsedToken holds the three segments of a compact token. Nothing in it is
// trusted until verifySignature succeeds.
type parsedToken struct {
	rawHeader  string
	rawPayload string

	header    jws.Headers
	keyID     string
	signature []byte
}

// signingInput is the exact byte sequence the issuer signed.
func (t *parsedToken) signingInput() []byte {
	buf := make([]byte, 0, len(t.rawHeader)+1+len(t.rawPayload))
	buf = append(buf, t.rawHeader...)
	buf = append(buf, '.')
	buf = append(buf, t.rawPayload...)
	return buf
}

// parseToken splits a compact token and decodes its header and signature.
// The payload stays encoded so signature checks run over the original bytes.
// jws.Headers type-checks registered members, so a non-string alg is
// Malformed; the header alg is otherwise never used to pick a key or algorithm.
func parseToken(token string) (*parsedToken, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformed, len(segments))
	}
	for i, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w: segment %d is empty", ErrMalformed, i+1)
		}
	}

	headerJSON, err := decodeSegment(segments[0])
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	if trimmed := bytes.TrimSpace(headerJSON); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: header is not a JSON object", ErrMalformed)
	}

	header := jws.NewHeaders()
	if err := json.Unmarshal(headerJSON, header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	kid := header.KeyID()
	if kid == "" {
		return nil, fmt.Errorf("%w: header has no kid", ErrMalformed)
	}

	signature, err := decodeSegment(segments[2])
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %v", ErrMalformed, err)
	}

	return &parsedToken{
		rawHeader:  segments[0],
		rawPayload: segments[1],
		header:     header,
		keyID:      kid,
		signature:  signature,
	}, nil
}

// decodeSegment decodes base64url, accepting the padded form some encoders emit.
func decodeSegment(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
