package calendly

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/buildquick/booking-api/internal/scheduling"
	"github.com/buildquick/booking-api/pkg/logging"
)

const defaultAuthBaseURL = "https://auth.calendly.com"

// OAuthConfig holds the app's OAuth credentials.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthBaseURL  string // optional override, tests and sandboxes
}

// OAuthService exchanges credentials for access tokens. Each call is a single
// attempt; retrying is the caller's decision.
type OAuthService struct {
	config     OAuthConfig
	httpClient *http.Client
	logger     *logging.Logger
}

// NewOAuthService creates an OAuth token service.
func NewOAuthService(config OAuthConfig, logger *logging.Logger) *OAuthService {
	if logger == nil {
		logger = logging.Default()
	}
	if config.AuthBaseURL == "" {
		config.AuthBaseURL = defaultAuthBaseURL
	}
	return &OAuthService{
		config: config,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// CredentialKey identifies the credential pair; the token cache keys by it.
func (s *OAuthService) CredentialKey() string {
	return s.config.ClientID
}

// ClientCredentialsToken acquires a service-identity token.
func (s *OAuthService) ClientCredentialsToken(ctx context.Context) (*scheduling.AccessToken, error) {
	if strings.TrimSpace(s.config.ClientID) == "" || strings.TrimSpace(s.config.ClientSecret) == "" {
		return nil, scheduling.NotConfigured("oauth client credentials")
	}
	return s.requestToken(ctx, url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {s.config.ClientID},
		"client_secret": {s.config.ClientSecret},
	})
}

// ExchangeCode swaps an authorization code for a token (interactive flow).
func (s *OAuthService) ExchangeCode(ctx context.Context, code string) (*scheduling.AccessToken, error) {
	if strings.TrimSpace(s.config.ClientID) == "" || strings.TrimSpace(s.config.ClientSecret) == "" ||
		strings.TrimSpace(s.config.RedirectURI) == "" {
		return nil, scheduling.NotConfigured("oauth credentials")
	}
	return s.requestToken(ctx, url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {s.config.ClientID},
		"client_secret": {s.config.ClientSecret},
		"code":          {code},
		"redirect_uri":  {s.config.RedirectURI},
	})
}

func (s *OAuthService) requestToken(ctx context.Context, form url.Values) (*scheduling.AccessToken, error) {
	tokenURL := fmt.Sprintf("%s/oauth/token", strings.TrimRight(s.config.AuthBaseURL, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("calendly token exchange failed", "status", resp.StatusCode, "body", string(body))
		return nil, &scheduling.AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var token scheduling.AccessToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("parse token response: %w", err)
	}
	if token.CreatedAt == 0 {
		token.CreatedAt = time.Now().Unix()
	}
	return &token, nil
}
