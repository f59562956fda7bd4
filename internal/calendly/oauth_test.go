package calendly

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/buildquick/booking-api/internal/scheduling"
	"github.com/buildquick/booking-api/pkg/logging"
)

func newOAuthTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestOAuthService_ClientCredentials_Success(t *testing.T) {
	ts := newOAuthTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/token" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Fatalf("grant_type = %s", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("client_id") != "id-1" || r.PostForm.Get("client_secret") != "secret-1" {
			t.Fatalf("credentials = %s/%s", r.PostForm.Get("client_id"), r.PostForm.Get("client_secret"))
		}
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":7200,"scope":"default","created_at":1700000000,"organization":"org-1","owner":"user-1"}`))
	})

	svc := NewOAuthService(OAuthConfig{ClientID: "id-1", ClientSecret: "secret-1", AuthBaseURL: ts.URL}, logging.Default())
	tok, err := svc.ClientCredentialsToken(context.Background())
	if err != nil {
		t.Fatalf("ClientCredentialsToken() error = %v", err)
	}
	if tok.AccessToken != "at-1" {
		t.Fatalf("access_token = %s", tok.AccessToken)
	}
	if tok.ExpiresIn != 7200 {
		t.Fatalf("expires_in = %d", tok.ExpiresIn)
	}
}

func TestOAuthService_ClientCredentials_NotConfigured(t *testing.T) {
	hits := 0
	ts := newOAuthTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})

	svc := NewOAuthService(OAuthConfig{AuthBaseURL: ts.URL}, logging.Default())
	_, err := svc.ClientCredentialsToken(context.Background())
	if !errors.Is(err, scheduling.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("expected no network call, got %d", hits)
	}
}

func TestOAuthService_ExchangeCode_UpstreamRejection(t *testing.T) {
	ts := newOAuthTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	})

	svc := NewOAuthService(OAuthConfig{
		ClientID: "id-1", ClientSecret: "secret-1", RedirectURI: "https://buildquick.io/callback",
		AuthBaseURL: ts.URL,
	}, logging.Default())

	_, err := svc.ExchangeCode(context.Background(), "bad-code")
	var ae *scheduling.AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if ae.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", ae.Status)
	}
}

func TestOAuthService_ExchangeCode_SendsRedirectURI(t *testing.T) {
	ts := newOAuthTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("grant_type") != "authorization_code" {
			t.Fatalf("grant_type = %s", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("code") != "code-1" {
			t.Fatalf("code = %s", r.PostForm.Get("code"))
		}
		if r.PostForm.Get("redirect_uri") != "https://buildquick.io/callback" {
			t.Fatalf("redirect_uri = %s", r.PostForm.Get("redirect_uri"))
		}
		_, _ = w.Write([]byte(`{"access_token":"at-2","token_type":"Bearer","expires_in":3600}`))
	})

	svc := NewOAuthService(OAuthConfig{
		ClientID: "id-1", ClientSecret: "secret-1", RedirectURI: "https://buildquick.io/callback",
		AuthBaseURL: ts.URL,
	}, logging.Default())

	tok, err := svc.ExchangeCode(context.Background(), "code-1")
	if err != nil {
		t.Fatalf("ExchangeCode() error = %v", err)
	}
	if tok.AccessToken != "at-2" {
		t.Fatalf("access_token = %s", tok.AccessToken)
	}
	if tok.CreatedAt == 0 {
		t.Fatal("expected created_at backfilled when provider omits it")
	}
}
