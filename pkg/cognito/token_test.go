package cognito

import (
	"testing"

	"github.com/jrschumacher/cognito-jwt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken_Malformed(t *testing.T) {
	validHeader := testutil.Encode([]byte(`{"alg":"RS256","kid":"k1"}`))
	sig := testutil.Encode([]byte("sig"))

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one segment", "abc"},
		{"two segments", validHeader + ".payload"},
		{"four segments", validHeader + ".p." + sig + ".x"},
		{"empty payload", validHeader + ".." + sig},
		{"empty header", ".payload." + sig},
		{"empty signature", validHeader + ".payload."},
		{"opaque segments", "A.B.C"},
		{"header not base64", "!!!.payload." + sig},
		{"header not json", testutil.Encode([]byte("not json")) + ".payload." + sig},
		{"header is array", testutil.Encode([]byte(`["kid"]`)) + ".payload." + sig},
		{"header is null", testutil.Encode([]byte(`null`)) + ".payload." + sig},
		{"header without kid", testutil.Encode([]byte(`{"alg":"RS256"}`)) + ".payload." + sig},
		{"header with empty kid", testutil.Encode([]byte(`{"alg":"RS256","kid":""}`)) + ".payload." + sig},
		{"kid not a string", testutil.Encode([]byte(`{"alg":"RS256","kid":7}`)) + ".payload." + sig},
		{"alg not a string", testutil.Encode([]byte(`{"alg":5,"kid":"k1"}`)) + ".payload." + sig},
		{"signature not base64", validHeader + ".payload.***"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tok, err := parseToken(c.token)
			require.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, tok)
			assert.Equal(t, ReasonMalformed, ReasonOf(err))
		})
	}
}

func TestParseToken_IgnoresHeaderAlgValue(t *testing.T) {
	sig := testutil.Encode([]byte("sig"))
	for _, header := range []string{
		`{"alg":"XYZ","kid":"k1"}`,
		`{"alg":"","kid":"k1"}`,
		`{"alg":"none","kid":"k1"}`,
		`{"kid":"k1"}`,
	} {
		tok, err := parseToken(testutil.Encode([]byte(header)) + ".payload." + sig)
		require.NoError(t, err, header)
		assert.Equal(t, "k1", tok.keyID)
	}
}

func TestParseToken_KeepsRawSegments(t *testing.T) {
	header := testutil.Encode([]byte(`{"alg":"RS256","kid":"k1","typ":"JWT"}`))
	// The payload is not decoded at this stage, so anything non-empty passes.
	payload := "not-even-base64!"
	sig := testutil.Encode([]byte{1, 2, 3})

	tok, err := parseToken(header + "." + payload + "." + sig)
	require.NoError(t, err)

	assert.Equal(t, "k1", tok.keyID)
	assert.Equal(t, header, tok.rawHeader)
	assert.Equal(t, payload, tok.rawPayload)
	assert.Equal(t, []byte{1, 2, 3}, tok.signature)
	assert.Equal(t, header+"."+payload, string(tok.signingInput()))
	assert.Equal(t, "RS256", tok.header.Algorithm().String())
}

func TestParseToken_PaddedSegments(t *testing.T) {
	// 11 bytes of JSON need one byte of padding.
	header := testutil.Encode([]byte(`{"kid":"a"}`)) + "="
	tok, err := parseToken(header + ".cGF5bG9hZA.c2ln=")
	require.NoError(t, err)
	assert.Equal(t, "a", tok.keyID)
}
