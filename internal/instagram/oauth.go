package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAuthorizeURL     = "https://www.facebook.com/v19.0/dialog/oauth"
	defaultTokenURL         = "https://api.instagram.com/oauth/access_token"
	defaultLongLivedBaseURL = "https://graph.instagram.com"
)

// Scopes requested during authorization: profile basics, page listing and
// insight reads. Fixed; the callback exchange does not renegotiate them.
var oauthScopes = []string{
	"instagram_basic",
	"pages_show_list",
	"instagram_manage_insights",
}

// ExchangeError is a provider rejection during a token exchange. It carries
// the raw provider status and body for operator diagnosis.
type ExchangeError struct {
	Step   string
	Status int
	Body   string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("%s exchange failed: status %d: %s", e.Step, e.Status, strings.TrimSpace(e.Body))
}

// OAuthConfig configures the app registration and provider endpoints.
// Endpoint overrides exist for tests; zero values select the real provider.
type OAuthConfig struct {
	AppID            string
	AppSecret        string
	RedirectURI      string
	AuthorizeURL     string
	TokenURL         string
	LongLivedBaseURL string
}

// OAuthClient performs the authorization-code and long-lived token exchanges.
type OAuthClient struct {
	cfg        OAuthConfig
	httpClient *http.Client
}

// NewOAuthClient constructs an exchange client from immutable configuration.
func NewOAuthClient(cfg OAuthConfig) *OAuthClient {
	if cfg.AuthorizeURL == "" {
		cfg.AuthorizeURL = defaultAuthorizeURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.LongLivedBaseURL == "" {
		cfg.LongLivedBaseURL = defaultLongLivedBaseURL
	}
	return &OAuthClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizationURL composes the provider authorization endpoint with the
// fixed scope set and the caller-supplied state. Pure function, no network.
func (c *OAuthClient) AuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.cfg.AppID)
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", strings.Join(oauthScopes, ","))
	params.Set("state", state)
	return c.cfg.AuthorizeURL + "?" + params.Encode()
}

// ExchangeCode trades an authorization code for a short-lived access token.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.cfg.AppID)
	form.Set("client_secret", c.cfg.AppSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.cfg.RedirectURI)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.doTokenRequest(req, "short-lived")
}

// ExchangeLongLived upgrades a short-lived token to a long-lived one. The
// provider invalidates the short token on first use, so a failed upgrade must
// restart from ExchangeCode rather than retry this call.
func (c *OAuthClient) ExchangeLongLived(ctx context.Context, shortToken string) (string, error) {
	params := url.Values{}
	params.Set("grant_type", "ig_exchange_token")
	params.Set("client_secret", c.cfg.AppSecret)
	params.Set("access_token", shortToken)

	endpoint := c.cfg.LongLivedBaseURL + "/access_token?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	return c.doTokenRequest(req, "long-lived")
}

func (c *OAuthClient) doTokenRequest(req *http.Request, step string) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s exchange: %w", step, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%s exchange: read body: %w", step, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ExchangeError{Step: step, Status: resp.StatusCode, Body: string(body)}
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%s exchange: decode response: %w", step, err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("%s exchange: missing access_token in response", step)
	}
	return parsed.AccessToken, nil
}
