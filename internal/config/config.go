package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/jrschumacher/cognito-jwt/internal/logger"
	"github.com/spf13/viper"
)

const (
	EnvProd = "production"
	EnvDev  = "development"
	EnvTest = "test"
)

// Config holds application configuration loaded from environment variables or config file.
type Config struct {
	AppEnv string `mapstructure:"app_env" default:"development" validate:"required,oneof=production development test"`
	Port   string `mapstructure:"port" default:"3000" validate:"required,numeric"`

	// User pool
	CognitoRegion     string `mapstructure:"cognito_region" validate:"required"`
	CognitoUserPoolID string `mapstructure:"cognito_user_pool_id" validate:"required"`
	JWKSURL           string `mapstructure:"jwks_url" validate:"omitempty,url"`

	// Key set retrieval
	JWKSCacheTTL        time.Duration `mapstructure:"jwks_cache_ttl" default:"10m" validate:"gte=0"`
	JWKSRefreshInterval time.Duration `mapstructure:"jwks_refresh_interval" default:"1m" validate:"gte=0"`
	JWKSFetchTimeout    time.Duration `mapstructure:"jwks_fetch_timeout" default:"5s" validate:"gt=0"`
	JWKSFetchRetries    int           `mapstructure:"jwks_fetch_retries" default:"2" validate:"gte=0,lte=10"`

	// Claim checks done by the HTTP middleware
	ClockLeeway time.Duration `mapstructure:"clock_leeway" default:"30s" validate:"gte=0"`

	MetricsEnabled bool `mapstructure:"metrics_enabled" default:"true"`

	// Logging
	LogLevel  string `mapstructure:"log_level" default:"INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	LogFormat string `mapstructure:"log_format" default:"text" validate:"oneof=text json"`
}

// Load loads configuration from config file and environment variables using viper.
func Load() *Config {
	cfg := Config{}

	// Initialize viper
	v := viper.New()
	v.AutomaticEnv()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	// Set defaults for the config struct
	if err := defaults.Set(&cfg); err != nil {
		panic("failed to set struct defaults: " + err.Error())
	}

	// Bind env vars for each field
	typeOfCfg := reflect.TypeOf(cfg)
	for i := 0; i < typeOfCfg.NumField(); i++ {
		field := typeOfCfg.Field(i)
		key := field.Tag.Get("mapstructure")
		if key == "" {
			key = toSnakeCase(field.Name)
		}
		_ = v.BindEnv(key)
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logger.Error("Error read config file", "error", err)
		}
		logger.Debug("No config file found, using environment variables")
	}

	if err := v.Unmarshal(&cfg); err != nil {
		logger.Warn("Could not unmarshal config", "error", err)
	}

	logger.Debug("Loaded config", "config", cfg.String())

	return &cfg
}

// Validate checks the config against its validate tags. In production a
// jwks_url override must use https.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	if cfg.IsProd() && cfg.JWKSURL != "" && !strings.HasPrefix(strings.ToLower(cfg.JWKSURL), "https://") {
		return fmt.Errorf("jwks_url must use https in %s", EnvProd)
	}
	return nil
}

// IsDev reports whether the app runs in development mode.
func (c *Config) IsDev() bool {
	return c.AppEnv == EnvDev
}

// IsProd reports whether the app runs in production mode.
func (c *Config) IsProd() bool {
	return c.AppEnv == EnvProd
}

// String returns a string representation of the config with secret fields redacted.
func (c *Config) String() string {
	v := reflect.ValueOf(*c)
	t := reflect.TypeOf(*c)
	var sb strings.Builder
	sb.WriteString("Config{")
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Name
		value := v.Field(i).Interface()
		if field.Tag.Get("secret") == "true" {
			value = "***REDACTED***"
		}
		sb.WriteString(name + ": " + toString(value))
		if i < t.NumField()-1 {
			sb.WriteString(", ")
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// toString converts interface{} to string for String
func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// toSnakeCase converts CamelCase to snake_case
func toSnakeCase(str string) string {
	runes := []rune(str)
	var out []rune
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				out = append(out, '_')
			}
		}
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}
