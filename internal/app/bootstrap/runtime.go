// Package bootstrap wires optional infrastructure from configuration.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/buildquick/booking-api/internal/availability"
	"github.com/buildquick/booking-api/internal/booking"
	"github.com/buildquick/booking-api/internal/calendly"
	appconfig "github.com/buildquick/booking-api/internal/config"
	"github.com/buildquick/booking-api/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildPgxPool returns a connection pool or nil when persistence is disabled.
func BuildPgxPool(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *pgxpool.Pool {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Warn("postgres not available", "error", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Warn("postgres ping failed", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// BuildTokenSource picks the credential strategy: a static token when one is
// configured, otherwise cached client-credentials tokens.
func BuildTokenSource(cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) calendly.TokenSource {
	if token := strings.TrimSpace(cfg.CalendlyAccessToken); token != "" {
		return calendly.StaticToken(token)
	}
	if key := strings.TrimSpace(cfg.CalendlyAPIKey); key != "" {
		return calendly.StaticToken(key)
	}
	return calendly.NewTokenCache(BuildOAuthService(cfg, logger), redisClient, cfg.TokenCacheRefreshGap, logger)
}

// BuildOAuthService constructs the provider OAuth service from configuration.
func BuildOAuthService(cfg *appconfig.Config, logger *logging.Logger) *calendly.OAuthService {
	return calendly.NewOAuthService(calendly.OAuthConfig{
		ClientID:     cfg.CalendlyClientID,
		ClientSecret: cfg.CalendlyClientSecret,
		RedirectURI:  cfg.CalendlyRedirectURI,
		AuthBaseURL:  cfg.CalendlyAuthBaseURL,
	}, logger)
}

// BuildCalendlyClient constructs the provider API client.
func BuildCalendlyClient(cfg *appconfig.Config, tokens calendly.TokenSource, logger *logging.Logger) *calendly.Client {
	return calendly.NewClient(tokens, logger, calendly.WithBaseURL(cfg.CalendlyBaseURL))
}

// BuildAvailabilityService selects mock or live availability per config.
func BuildAvailabilityService(cfg *appconfig.Config, client *calendly.Client, logger *logging.Logger) availability.Service {
	mock := availability.NewMockService(nil)
	if cfg.UseMockData {
		return mock
	}
	return availability.NewLiveService(client, cfg.CalendlyOrganization, mock, cfg.AllowMockFallback, logger)
}

// BuildBookingService selects mock or live booking per config.
func BuildBookingService(cfg *appconfig.Config, client *calendly.Client, logger *logging.Logger) booking.Service {
	if cfg.UseMockData {
		return booking.NewMockService(nil, cfg.MockBookingDelay)
	}
	return booking.NewLiveService(client, cfg.SchedulingPageURL, logger)
}
