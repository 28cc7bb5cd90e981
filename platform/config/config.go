// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetHTTPRateLimitPerMinute() int
}

// SessionConfig provides settings for the visitor session cookie.
type SessionConfig interface {
	GetSessionSecret() string
	GetSessionCookieName() string
	GetSessionCookieDomain() string
	GetSessionCookieSecure() bool
	GetSessionCookieSameSite() http.SameSite
	GetSessionTTL() time.Duration
	GetSessionIdleTimeout() time.Duration
}

// UpstreamConfig provides settings for the listings API that resolves
// contact numbers and delivers enquiries.
type UpstreamConfig interface {
	GetUpstreamBaseURL() string
	GetUpstreamAppName() string
	GetUpstreamTimeout() time.Duration
}

// StorageConfig selects the key/value backend for visitor identity and revealed numbers.
type StorageConfig interface {
	GetStorageDriver() string
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for the asynq task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// SMTPConfig provides settings for the enquiry receipt mailer.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromAddress() string
	GetEmailFromName() string
	IsSMTPEnabled() bool
}

// DisclosureConfig provides the timing rules of the contact disclosure pipeline.
type DisclosureConfig interface {
	GetDefaultRegion() string
	GetDisclosureRateWindow() time.Duration
	GetDisclosureRetryDelay() time.Duration
	GetDisclosureMaxAttempts() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	HTTPRateLimitPerMin   int
	SessionSecret         string
	SessionCookieName     string
	SessionCookieDomain   string
	SessionCookieSecure   bool
	SessionCookieSameSite http.SameSite
	SessionTTL            time.Duration
	SessionIdleTimeout    time.Duration
	UpstreamBaseURL       string
	UpstreamAppName       string
	UpstreamTimeout       time.Duration
	StorageDriver         string
	RedisURL              string
	RedisTLSInsecure      bool
	AsynqQueueName        string
	AsynqConcurrency      int
	SMTPHost              string
	SMTPPort              int
	SMTPUsername          string
	SMTPPassword          string
	EmailFromAddress      string
	EmailFromName         string
	DefaultRegion         string
	DisclosureRateWindow  time.Duration
	DisclosureRetryDelay  time.Duration
	DisclosureMaxAttempts int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string            { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool          { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string       { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool        { return c.CORSAllowCreds }
func (c *Config) GetHTTPRateLimitPerMinute() int { return c.HTTPRateLimitPerMin }

// SessionConfig implementation
func (c *Config) GetSessionSecret() string                { return c.SessionSecret }
func (c *Config) GetSessionCookieName() string            { return c.SessionCookieName }
func (c *Config) GetSessionCookieDomain() string          { return c.SessionCookieDomain }
func (c *Config) GetSessionCookieSecure() bool            { return c.SessionCookieSecure }
func (c *Config) GetSessionCookieSameSite() http.SameSite { return c.SessionCookieSameSite }
func (c *Config) GetSessionTTL() time.Duration            { return c.SessionTTL }
func (c *Config) GetSessionIdleTimeout() time.Duration    { return c.SessionIdleTimeout }

// UpstreamConfig implementation
func (c *Config) GetUpstreamBaseURL() string        { return c.UpstreamBaseURL }
func (c *Config) GetUpstreamAppName() string        { return c.UpstreamAppName }
func (c *Config) GetUpstreamTimeout() time.Duration { return c.UpstreamTimeout }

// StorageConfig / SchedulerConfig implementation
func (c *Config) GetStorageDriver() string  { return c.StorageDriver }
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) IsSMTPEnabled() bool {
	return c.SMTPHost != "" && c.EmailFromAddress != ""
}

// DisclosureConfig implementation
func (c *Config) GetDefaultRegion() string               { return c.DefaultRegion }
func (c *Config) GetDisclosureRateWindow() time.Duration { return c.DisclosureRateWindow }
func (c *Config) GetDisclosureRetryDelay() time.Duration { return c.DisclosureRetryDelay }
func (c *Config) GetDisclosureMaxAttempts() int          { return c.DisclosureMaxAttempts }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cookieSecure := strings.EqualFold(getEnv("SESSION_COOKIE_SECURE", ""), "true")
	if getEnv("SESSION_COOKIE_SECURE", "") == "" {
		cookieSecure = strings.EqualFold(getEnv("APP_ENV", "development"), "production")
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		HTTPRateLimitPerMin:   mustInt(getEnv("HTTP_RATE_LIMIT_PER_MINUTE", "60")),
		SessionSecret:         getEnv("SESSION_SECRET", ""),
		SessionCookieName:     getEnv("SESSION_COOKIE_NAME", "listing_visitor"),
		SessionCookieDomain:   getEnv("SESSION_COOKIE_DOMAIN", ""),
		SessionCookieSecure:   cookieSecure,
		SessionCookieSameSite: parseSameSite(getEnv("SESSION_COOKIE_SAMESITE", "Lax")),
		SessionTTL:            mustDuration(getEnv("SESSION_TTL", "8760h")),
		SessionIdleTimeout:    mustDuration(getEnv("SESSION_IDLE_TIMEOUT", "30m")),
		UpstreamBaseURL:       strings.TrimRight(getEnv("UPSTREAM_BASE_URL", ""), "/"),
		UpstreamAppName:       getEnv("UPSTREAM_APP_NAME", "vercel"),
		UpstreamTimeout:       mustDuration(getEnv("UPSTREAM_TIMEOUT", "10s")),
		StorageDriver:         strings.ToLower(getEnv("STORAGE_DRIVER", "memory")),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:      mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		SMTPHost:              getEnv("SMTP_HOST", ""),
		SMTPPort:              mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		EmailFromAddress:      getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailFromName:         getEnv("EMAIL_FROM_NAME", "Listings"),
		DefaultRegion:         strings.ToUpper(getEnv("DEFAULT_REGION", "GH")),
		DisclosureRateWindow:  mustDuration(getEnv("DISCLOSURE_RATE_WINDOW", "2s")),
		DisclosureRetryDelay:  mustDuration(getEnv("DISCLOSURE_RETRY_DELAY", "2s")),
		DisclosureMaxAttempts: mustInt(getEnv("DISCLOSURE_MAX_ATTEMPTS", "3")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.UpstreamBaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	switch c.StorageDriver {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORAGE_DRIVER is redis")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.DisclosureMaxAttempts < 1 {
		return fmt.Errorf("DISCLOSURE_MAX_ATTEMPTS must be at least 1")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}
