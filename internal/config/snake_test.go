package config

import "testing"

func TestToSnakeCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"TestCamelCase", "test_camel_case"},
		{"JWKSURL", "jwksurl"},
		{"JWKSCacheTTL", "jwks_cache_ttl"},
		{"CognitoUserPoolID", "cognito_user_pool_id"},
		{"HTTPServerURL", "http_server_url"},
		{"API", "api"},
	}

	for _, c := range cases {
		got := toSnakeCase(c.in)
		if got != c.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
