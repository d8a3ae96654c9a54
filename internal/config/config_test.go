package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("COGNITO_REGION", "eu-central-1")
	t.Setenv("COGNITO_USER_POOL_ID", "eu-central-1_Pool")
	t.Setenv("JWKS_CACHE_TTL", "90s")
	t.Setenv("JWKS_FETCH_RETRIES", "0")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()

	if cfg.CognitoRegion != "eu-central-1" {
		t.Errorf("CognitoRegion = %q", cfg.CognitoRegion)
	}
	if cfg.CognitoUserPoolID != "eu-central-1_Pool" {
		t.Errorf("CognitoUserPoolID = %q", cfg.CognitoUserPoolID)
	}
	if cfg.JWKSCacheTTL != 90*time.Second {
		t.Errorf("JWKSCacheTTL = %v, want 90s", cfg.JWKSCacheTTL)
	}
	if cfg.JWKSFetchRetries != 0 {
		t.Errorf("JWKSFetchRetries = %d, want 0", cfg.JWKSFetchRetries)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
	// Untouched fields keep their defaults.
	if cfg.JWKSFetchTimeout != 5*time.Second {
		t.Errorf("JWKSFetchTimeout = %v, want 5s", cfg.JWKSFetchTimeout)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AppEnv:            EnvTest,
			Port:              "8080",
			CognitoRegion:     "us-east-1",
			CognitoUserPoolID: "us-east-1_X",
			JWKSFetchTimeout:  time.Second,
			LogLevel:          "INFO",
			LogFormat:         "text",
		}
	}
	if err := Validate(valid()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := map[string]func(*Config){
		"missing region":    func(c *Config) { c.CognitoRegion = "" },
		"missing pool":      func(c *Config) { c.CognitoUserPoolID = "" },
		"bad jwks url":      func(c *Config) { c.JWKSURL = "not a url" },
		"zero timeout":      func(c *Config) { c.JWKSFetchTimeout = 0 },
		"negative ttl":      func(c *Config) { c.JWKSCacheTTL = -time.Second },
		"too many retries":  func(c *Config) { c.JWKSFetchRetries = 11 },
		"bad log level":     func(c *Config) { c.LogLevel = "TRACE" },
		"bad log format":    func(c *Config) { c.LogFormat = "xml" },
		"non numeric port":  func(c *Config) { c.Port = "http" },
		"unknown app env":   func(c *Config) { c.AppEnv = "staging" },
		"plain http jwks url in production": func(c *Config) {
			c.AppEnv = EnvProd
			c.JWKSURL = "http://keys.example.test/jwks.json"
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_JWKSURLScheme(t *testing.T) {
	cfg := &Config{
		AppEnv:            EnvProd,
		Port:              "8080",
		CognitoRegion:     "us-east-1",
		CognitoUserPoolID: "us-east-1_X",
		JWKSURL:           "https://keys.example.test/jwks.json",
		JWKSFetchTimeout:  time.Second,
		LogLevel:          "INFO",
		LogFormat:         "text",
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("https override in production: %v", err)
	}

	cfg.AppEnv = EnvDev
	cfg.JWKSURL = "http://127.0.0.1:9000/jwks.json"
	if err := Validate(cfg); err != nil {
		t.Fatalf("http override in development: %v", err)
	}
}

func TestConfig_Env(t *testing.T) {
	if !(&Config{AppEnv: EnvDev}).IsDev() || (&Config{AppEnv: EnvDev}).IsProd() {
		t.Error("development misreported")
	}
	if !(&Config{AppEnv: EnvProd}).IsProd() || (&Config{AppEnv: EnvTest}).IsDev() {
		t.Error("production/test misreported")
	}
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{CognitoRegion: "us-east-1", JWKSCacheTTL: time.Minute}
	s := cfg.String()
	if !strings.Contains(s, "CognitoRegion: us-east-1") {
		t.Errorf("String() = %q", s)
	}
	if !strings.Contains(s, "JWKSCacheTTL: 1m0s") {
		t.Errorf("String() = %q", s)
	}
}
