package calendly

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/buildquick/booking-api/pkg/logging"
)

func newCacheFixture(t *testing.T) (*TokenCache, *miniredis.Miniredis, *int) {
	t.Helper()
	hits := 0
	ts := newOAuthTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"access_token":"cached-token","token_type":"Bearer","expires_in":7200}`))
	})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	oauth := NewOAuthService(OAuthConfig{ClientID: "id-1", ClientSecret: "secret-1", AuthBaseURL: ts.URL}, logging.Default())
	cache := NewTokenCache(oauth, rdb, time.Minute, logging.Default())
	return cache, mr, &hits
}

func TestTokenCache_AcquiresOnceAndCaches(t *testing.T) {
	cache, _, hits := newCacheFixture(t)

	for i := 0; i < 3; i++ {
		tok, err := cache.Token(context.Background())
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if tok != "cached-token" {
			t.Fatalf("token = %s", tok)
		}
	}
	if *hits != 1 {
		t.Fatalf("token endpoint hits = %d, want 1", *hits)
	}
}

func TestTokenCache_TTLTracksExpiry(t *testing.T) {
	cache, mr, _ := newCacheFixture(t)

	if _, err := cache.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	key := cache.key()
	if !mr.Exists(key) {
		t.Fatalf("expected cache key %s", key)
	}
	ttl := mr.TTL(key)
	// expires_in 7200s minus the 60s refresh gap, allowing a little skew.
	if ttl <= 7000*time.Second || ttl > 7140*time.Second {
		t.Fatalf("ttl = %s, want just under 7140s", ttl)
	}
}

func TestTokenCache_ReacquiresAfterExpiry(t *testing.T) {
	cache, mr, hits := newCacheFixture(t)

	if _, err := cache.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	mr.FastForward(3 * time.Hour)
	if _, err := cache.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if *hits != 2 {
		t.Fatalf("token endpoint hits = %d, want 2", *hits)
	}
}

func TestTokenCache_Invalidate(t *testing.T) {
	cache, mr, hits := newCacheFixture(t)

	if _, err := cache.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	cache.Invalidate(context.Background())
	if mr.Exists(cache.key()) {
		t.Fatal("expected cache key removed")
	}
	if _, err := cache.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if *hits != 2 {
		t.Fatalf("token endpoint hits = %d, want 2", *hits)
	}
}

func TestTokenCache_NilRedisStillAcquires(t *testing.T) {
	hits := 0
	ts := newOAuthTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","expires_in":600}`))
	})
	oauth := NewOAuthService(OAuthConfig{ClientID: "id-1", ClientSecret: "secret-1", AuthBaseURL: ts.URL}, logging.Default())
	cache := NewTokenCache(oauth, nil, 0, logging.Default())

	for i := 0; i < 2; i++ {
		tok, err := cache.Token(context.Background())
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if tok != "fresh" {
			t.Fatalf("token = %s", tok)
		}
	}
	if hits != 2 {
		t.Fatalf("expected a fresh acquisition per call without redis, got %d", hits)
	}
}
