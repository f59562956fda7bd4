// Package config loads application configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// UseMockData forces the deterministic mock path for every scheduling
	// operation; set in development so the widget works without credentials.
	UseMockData bool
	// AllowMockFallback lets live read paths (event types, availability)
	// degrade to mock data on upstream auth failures. Defaults on outside
	// production, off in production unless explicitly enabled.
	AllowMockFallback bool

	CalendlyBaseURL      string
	CalendlyAuthBaseURL  string
	CalendlyClientID     string
	CalendlyClientSecret string
	CalendlyRedirectURI  string
	CalendlyAPIKey       string
	CalendlyAccessToken  string
	CalendlyOrganization string
	WebhookSigningSecret string
	SchedulingPageURL    string
	MockBookingDelay     time.Duration
	TokenCacheRefreshGap time.Duration

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	AdminJWTSecret     string
	CORSAllowedOrigins []string

	// SendGrid Email Configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables
func Load() *Config {
	env := getEnv("ENV", "development")
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           env,
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		UseMockData:       getEnvAsBool("USE_MOCK_DATA", env != "production"),
		AllowMockFallback: getEnvAsBool("ALLOW_MOCK_FALLBACK", env != "production"),

		CalendlyBaseURL:      getEnv("CALENDLY_BASE_URL", "https://api.calendly.com"),
		CalendlyAuthBaseURL:  getEnv("CALENDLY_AUTH_BASE_URL", "https://auth.calendly.com"),
		CalendlyClientID:     getEnv("CALENDLY_CLIENT_ID", ""),
		CalendlyClientSecret: getEnv("CALENDLY_CLIENT_SECRET", ""),
		CalendlyRedirectURI:  getEnv("CALENDLY_REDIRECT_URI", ""),
		CalendlyAPIKey:       getEnv("CALENDLY_API_KEY", ""),
		CalendlyAccessToken:  getEnv("CALENDLY_ACCESS_TOKEN", ""),
		CalendlyOrganization: getEnv("CALENDLY_ORGANIZATION", ""),
		WebhookSigningSecret: getEnv("CALENDLY_WEBHOOK_SIGNING_SECRET", ""),
		SchedulingPageURL:    getEnv("CALENDLY_SCHEDULING_PAGE_URL", ""),
		MockBookingDelay:     getEnvAsDuration("MOCK_BOOKING_DELAY", time.Second),
		TokenCacheRefreshGap: getEnvAsDuration("TOKEN_CACHE_REFRESH_GAP", 5*time.Minute),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "BuildQuick"),
	}
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
