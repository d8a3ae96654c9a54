package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/creasty/defaults"
	"github.com/jrschumacher/cognito-jwt/internal/config"
	"github.com/jrschumacher/cognito-jwt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	require.NoError(t, defaults.Set(c))
	c.AppEnv = config.EnvTest
	return c
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestReadToken(t *testing.T) {
	tok, err := readToken(strings.NewReader(""), []string{" a.b.c "})
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	tok, err = readToken(strings.NewReader("x.y.z\n"), []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "x.y.z", tok)

	tok, err = readToken(strings.NewReader("x.y.z"), nil)
	require.NoError(t, err)
	assert.Equal(t, "x.y.z", tok)

	_, err = readToken(strings.NewReader("\n"), nil)
	assert.Error(t, err)
}

func TestVerifyCommand(t *testing.T) {
	key := testutil.NewRSAKey(t, "k1")
	srv := testutil.NewJWKSServer(t, testutil.KeySetJSON(t, key))
	cfg = testConfig(t)
	cfg.CognitoRegion = "us-east-1"
	cfg.CognitoUserPoolID = "us-east-1_test"
	cfg.JWKSURL = srv.JWKSURL()
	cfg.JWKSFetchRetries = 0

	token := testutil.Sign(t, key, map[string]any{"sub": "user-1", "exp": 1700000000})
	out, err := run(t, token+"\n", "verify", "-")
	require.NoError(t, err)

	var claims map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &claims))
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, 1700000000.0, claims["exp"])

	forged := testutil.Sign(t, testutil.NewRSAKey(t, "k1"), map[string]any{"sub": "user-1"})
	_, err = run(t, "", "verify", forged)
	assert.Error(t, err)
}

func TestVerifyCommand_InvalidConfig(t *testing.T) {
	cfg = testConfig(t)
	_, err := run(t, "", "verify", "a.b.c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestUtilJWKSURLCommand(t *testing.T) {
	cfg = testConfig(t)
	cfg.CognitoRegion = "ap-southeast-2"
	cfg.CognitoUserPoolID = "ap-southeast-2_Pool"

	out, err := run(t, "", "util", "jwks-url")
	require.NoError(t, err)
	assert.Contains(t, out, "https://cognito-idp.ap-southeast-2.amazonaws.com/ap-southeast-2_Pool/.well-known/jwks.json")
}

func TestUtilKeysCommand(t *testing.T) {
	key := testutil.NewRSAKey(t, "k1")
	srv := testutil.NewJWKSServer(t, testutil.KeySetJSON(t, key))
	cfg = testConfig(t)
	cfg.JWKSURL = srv.JWKSURL()

	out, err := run(t, "", "util", "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "KID")
	assert.Contains(t, out, "k1")
	assert.Contains(t, out, "RS256")
}
