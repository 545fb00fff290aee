package config

import (
	"fmt"
	"log/slog"
	"time"
)

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host string `env:"HOST" env-default:"localhost"`
	Port uint16 `env:"PORT" env-default:"4000"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AuthDbConfig holds the account store connection settings
type AuthDbConfig struct {
	Host     string `env:"AUTH_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"AUTH_PG_PORT" env-default:"5432"`
	Database string `env:"AUTH_PG_DATABASE" env-default:"auth_db"`
	User     string `env:"AUTH_PG_USER" env-default:"auth"`
	Password string `env:"AUTH_PG_PASSWORD" env-default:"pwd"`
}

func (d AuthDbConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		d.User, d.Password, d.Host, d.Port, d.Database)
}

// JwtConfig holds the token signing settings
type JwtConfig struct {
	Secret             string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer             string `env:"JWT_ISSUER" env-default:"wayfree-auth"`
	Audience           string `env:"JWT_AUDIENCE" env-default:"wayfree"`
	AccessTokenExpiry  string `env:"ACCESS_TOKEN_EXPIRY" env-default:"30m"`
	RefreshTokenExpiry string `env:"REFRESH_TOKEN_EXPIRY" env-default:"336h"`
}

// ParseAccessTokenExpiry parses the configured access token lifetime,
// falling back to the provided default on a malformed value
func (j JwtConfig) ParseAccessTokenExpiry(fallback time.Duration) time.Duration {
	return parseDuration("ACCESS_TOKEN_EXPIRY", j.AccessTokenExpiry, fallback)
}

// ParseRefreshTokenExpiry parses the configured refresh token lifetime,
// falling back to the provided default on a malformed value
func (j JwtConfig) ParseRefreshTokenExpiry(fallback time.Duration) time.Duration {
	return parseDuration("REFRESH_TOKEN_EXPIRY", j.RefreshTokenExpiry, fallback)
}

// CookieConfig holds the credential cookie attributes. Defaults suit a
// front end on a different origin than this service: Secure on, HttpOnly
// off so scripts can read the credentials.
type CookieConfig struct {
	Secure   bool `env:"COOKIE_SECURE" env-default:"true"`
	HTTPOnly bool `env:"COOKIE_HTTP_ONLY" env-default:"false"`
}

// CompletionConfig holds the login completion flow settings
type CompletionConfig struct {
	SessionIdleTimeout string `env:"SESSION_IDLE_TIMEOUT" env-default:"180s"`
	FlowMarkerTTL      string `env:"FLOW_MARKER_TTL" env-default:"10m"`
}

func (c CompletionConfig) ParseSessionIdleTimeout(fallback time.Duration) time.Duration {
	return parseDuration("SESSION_IDLE_TIMEOUT", c.SessionIdleTimeout, fallback)
}

func (c CompletionConfig) ParseFlowMarkerTTL(fallback time.Duration) time.Duration {
	return parseDuration("FLOW_MARKER_TTL", c.FlowMarkerTTL, fallback)
}

func parseDuration(name, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Failed to parse duration, using default", "name", name, "value", value, "default", fallback)
		return fallback
	}
	return d
}
