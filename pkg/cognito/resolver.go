package cognito

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// minRSAKeyBits is the smallest RSA modulus accepted from a key set.
const minRSAKeyBits = 2048

var (
	rsaAlgorithms = map[jwa.SignatureAlgorithm]struct{}{
		jwa.RS256: {}, jwa.RS384: {}, jwa.RS512: {},
		jwa.PS256: {}, jwa.PS384: {}, jwa.PS512: {},
	}
	// ecAlgorithms maps each ECDSA algorithm to the only curve it may be used with.
	ecAlgorithms = map[jwa.SignatureAlgorithm]string{
		jwa.ES256: "P-256",
		jwa.ES384: "P-384",
		jwa.ES512: "P-521",
	}
)

// ResolvedKey is a public key paired with the algorithm its key set entry
// declares. Key is *rsa.PublicKey when Type is jwa.RSA and *ecdsa.PublicKey
// when Type is jwa.EC.
type ResolvedKey struct {
	KeyID     string
	Type      jwa.KeyType
	Algorithm jwa.SignatureAlgorithm
	Key       any
}

// resolveKey returns the first entry of set matching kid as a usable public
// key. Every failure is ErrKeyNotFound.
func resolveKey(set *KeySet, kid string) (*ResolvedKey, error) {
	if set == nil || len(set.Keys) == 0 {
		return nil, fmt.Errorf("%w: key set is empty", ErrKeyNotFound)
	}
	entry, ok := set.Lookup(kid)
	if !ok {
		return nil, fmt.Errorf("%w: no key with kid %q", ErrKeyNotFound, kid)
	}
	if entry.Algorithm == "" {
		return nil, fmt.Errorf("%w: key %q declares no alg", ErrKeyNotFound, kid)
	}

	var alg jwa.SignatureAlgorithm
	if err := alg.Accept(entry.Algorithm); err != nil {
		return nil, fmt.Errorf("%w: key %q: unsupported alg %q", ErrKeyNotFound, kid, entry.Algorithm)
	}

	resolved := &ResolvedKey{KeyID: kid, Algorithm: alg}
	switch kty := jwa.KeyType(entry.KeyType); kty {
	case jwa.RSA:
		if _, ok := rsaAlgorithms[alg]; !ok {
			return nil, fmt.Errorf("%w: key %q: alg %s cannot be used with an RSA key", ErrKeyNotFound, kid, alg)
		}
		pub, err := rsaPublicKey(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrKeyNotFound, kid, err)
		}
		resolved.Type, resolved.Key = kty, pub
	case jwa.EC:
		curve, ok := ecAlgorithms[alg]
		if !ok {
			return nil, fmt.Errorf("%w: key %q: alg %s cannot be used with an EC key", ErrKeyNotFound, kid, alg)
		}
		pub, err := ecPublicKey(entry, curve)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrKeyNotFound, kid, err)
		}
		resolved.Type, resolved.Key = kty, pub
	default:
		return nil, fmt.Errorf("%w: key %q: unsupported kty %q", ErrKeyNotFound, kid, entry.KeyType)
	}
	return resolved, nil
}

// publicMaterial parses the entry's JWK and reduces it to its public half.
func publicMaterial(entry *KeyEntry) (any, error) {
	key, err := jwk.ParseKey(entry.raw)
	if err != nil {
		return nil, fmt.Errorf("parse key: %w", err)
	}
	if key.KeyType() != jwa.KeyType(entry.KeyType) {
		return nil, fmt.Errorf("kty mismatch: %s", key.KeyType())
	}
	pub, err := key.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	var raw any
	if err := pub.Raw(&raw); err != nil {
		return nil, fmt.Errorf("raw key: %w", err)
	}
	return raw, nil
}

func rsaPublicKey(entry *KeyEntry) (*rsa.PublicKey, error) {
	raw, err := publicMaterial(entry)
	if err != nil {
		return nil, err
	}
	pub, ok := raw.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("expected RSA public key, got %T", raw)
	}
	if pub.N == nil || pub.N.BitLen() < minRSAKeyBits {
		return nil, fmt.Errorf("RSA modulus shorter than %d bits", minRSAKeyBits)
	}
	if pub.E < 3 {
		return nil, fmt.Errorf("invalid RSA exponent %d", pub.E)
	}
	return pub, nil
}

func ecPublicKey(entry *KeyEntry, curve string) (*ecdsa.PublicKey, error) {
	raw, err := publicMaterial(entry)
	if err != nil {
		return nil, err
	}
	pub, ok := raw.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("expected EC public key, got %T", raw)
	}
	if pub.Curve == nil || pub.Curve.Params().Name != curve {
		return nil, fmt.Errorf("curve does not match %s", curve)
	}
	return pub, nil
}
