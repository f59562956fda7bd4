package calendly

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/buildquick/booking-api/internal/scheduling"
	"github.com/buildquick/booking-api/pkg/logging"
)

// TokenCache is a Redis-backed TokenSource over the client-credentials flow.
// Tokens are keyed by credential identity and expire a configurable gap
// before the provider's expiry so a cached token is never served stale.
type TokenCache struct {
	oauth      *OAuthService
	redis      *redis.Client
	refreshGap time.Duration
	logger     *logging.Logger
}

// NewTokenCache creates a token cache. redisClient may be nil, in which case
// every call acquires a fresh token.
func NewTokenCache(oauth *OAuthService, redisClient *redis.Client, refreshGap time.Duration, logger *logging.Logger) *TokenCache {
	if logger == nil {
		logger = logging.Default()
	}
	if refreshGap <= 0 {
		refreshGap = 5 * time.Minute
	}
	return &TokenCache{
		oauth:      oauth,
		redis:      redisClient,
		refreshGap: refreshGap,
		logger:     logger,
	}
}

func (c *TokenCache) key() string {
	return fmt.Sprintf("calendly:token:%s", c.oauth.CredentialKey())
}

// Token returns a cached access token, acquiring and caching a new one when
// none is stored.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	if c.redis != nil {
		data, err := c.redis.Get(ctx, c.key()).Bytes()
		if err == nil {
			var tok scheduling.AccessToken
			if jsonErr := json.Unmarshal(data, &tok); jsonErr == nil && tok.AccessToken != "" {
				return tok.AccessToken, nil
			}
		} else if err != redis.Nil {
			c.logger.Warn("token cache read failed", "error", err)
		}
	}

	tok, err := c.oauth.ClientCredentialsToken(ctx)
	if err != nil {
		return "", err
	}
	c.store(ctx, tok)
	return tok.AccessToken, nil
}

func (c *TokenCache) store(ctx context.Context, tok *scheduling.AccessToken) {
	if c.redis == nil {
		return
	}
	ttl := time.Until(tok.ExpiresAt()) - c.refreshGap
	if ttl <= 0 {
		return
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.key(), data, ttl).Err(); err != nil {
		c.logger.Warn("token cache write failed", "error", err)
	}
}

// Invalidate drops the cached token, forcing re-acquisition on the next call.
func (c *TokenCache) Invalidate(ctx context.Context) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, c.key()).Err(); err != nil && err != redis.Nil {
		c.logger.Warn("token cache invalidate failed", "error", err)
	}
}
