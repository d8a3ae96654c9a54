package cognito

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/lestrrat-go/jwx/v2/jws"
)

// verifySignature checks tok against key using only key.Algorithm and, on
// success, decodes the payload.
func verifySignature(tok *parsedToken, key *ResolvedKey) (Claims, error) {
	verifier, err := jws.NewVerifier(key.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	if err := verifier.Verify(tok.signingInput(), tok.signature, key.Key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	payload, err := decodeSegment(tok.rawPayload)
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrSignatureInvalid, err)
	}
	claims, err := decodeClaims(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrSignatureInvalid, err)
	}
	return claims, nil
}

// decodeClaims decodes exactly one JSON object. Numbers are kept as
// json.Number so values reach the caller unchanged.
func decodeClaims(payload []byte) (Claims, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var claims Claims
	if err := dec.Decode(&claims); err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, errors.New("payload is not a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after payload")
	}
	return claims, nil
}
