// Package cognito verifies JSON Web Tokens issued by an AWS Cognito user pool.
//
// A Verifier is bound to one user pool. It fetches the pool's JSON Web Key
// Set from the well-known endpoint, selects the key named by the token's
// "kid" header, and checks the signature using the algorithm the key set
// declares for that key. The token header's "alg" is never trusted.
//
// # Quick Start
//
//	v, err := cognito.New("us-east-1", "us-east-1_AbCdEf123")
//	if err != nil {
//	    return err
//	}
//	claims, err := v.Verify(ctx, accessToken)
//	if err != nil {
//	    // cognito.ErrRejected; the reason is logged, not returned
//	    return err
//	}
//	fmt.Println(claims.Subject())
//
// # Claims Are Not Validated
//
// Verify only proves that the payload was signed by the user pool. It does
// not check "exp", "nbf", "iat", "iss", "aud" or "token_use". Callers that
// make authorization decisions must check those claims themselves.
//
// # Key Set Caching
//
// By default key sets are cached for DefaultCacheTTL and refetched early
// when a token names a kid the cached set does not contain. Use
// WithCacheTTL(0) to fetch the key set on every call.
package cognito
