package cognito

import (
	"errors"
)

var (
	// ErrRejected is the only error Verify returns. The underlying reason is
	// reported to the logger and the Observer.
	ErrRejected = errors.New("token rejected")

	// ErrMalformed is returned when the token is not three base64url segments
	// with a JSON header carrying a kid
	ErrMalformed = errors.New("malformed token")
	// ErrFetch is returned when the key set could not be retrieved
	ErrFetch = errors.New("key set fetch failed")
	// ErrKeyNotFound is returned when no usable key matches the token's kid
	ErrKeyNotFound = errors.New("key not found")
	// ErrSignatureInvalid is returned when the signature or payload does not check out
	ErrSignatureInvalid = errors.New("signature invalid")

	// ErrInvalidIssuer is returned by New when the region or user pool ID
	// cannot be embedded in the key set URL
	ErrInvalidIssuer = errors.New("invalid issuer")
)

// Reason classifies why a verification failed.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMalformed
	ReasonFetchError
	ReasonKeyNotFound
	ReasonSignatureInvalid
	ReasonUnknown
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "accepted"
	case ReasonMalformed:
		return "malformed"
	case ReasonFetchError:
		return "fetch_error"
	case ReasonKeyNotFound:
		return "key_not_found"
	case ReasonSignatureInvalid:
		return "signature_invalid"
	default:
		return "unknown"
	}
}

// ReasonOf maps an error from the verification pipeline to its Reason.
// A nil error maps to ReasonNone.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrMalformed):
		return ReasonMalformed
	case errors.Is(err, ErrFetch):
		return ReasonFetchError
	case errors.Is(err, ErrKeyNotFound):
		return ReasonKeyNotFound
	case errors.Is(err, ErrSignatureInvalid):
		return ReasonSignatureInvalid
	default:
		return ReasonUnknown
	}
}
