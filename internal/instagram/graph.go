package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultGraphBaseURL = "https://graph.facebook.com/v19.0"

// mediaFields is the fixed field set requested for each media item.
var mediaFields = strings.Join([]string{
	"id",
	"caption",
	"media_type",
	"media_url",
	"timestamp",
	"comments_count",
	"like_count",
	"permalink",
}, ",")

var (
	// ErrTokenExpired marks a fetch rejected because the stored long-lived
	// token is expired or invalid. The sync handler maps this to the stable
	// IG_TOKEN_EXPIRED code so the client can prompt a reconnect.
	ErrTokenExpired = errors.New("instagram token expired or invalid")
	// ErrFetchFailed marks any other provider fetch failure.
	ErrFetchFailed = errors.New("instagram fetch failed")
)

// Page is one Facebook page the token holder manages.
type Page struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Media is one media item in the provider's native shape. Counts are pointers
// so an omitted field is distinguishable from an explicit zero.
type Media struct {
	ID            string `json:"id"`
	Caption       string `json:"caption"`
	MediaType     string `json:"media_type"`
	MediaURL      string `json:"media_url"`
	Timestamp     string `json:"timestamp"`
	CommentsCount *int   `json:"comments_count"`
	LikeCount     *int   `json:"like_count"`
	Permalink     string `json:"permalink"`
}

// GraphClient talks to the Facebook Graph API.
type GraphClient struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewGraphClient constructs a Graph API client. An empty baseURL selects the
// real provider endpoint; tests inject an httptest server URL.
func NewGraphClient(baseURL string, log *slog.Logger) *GraphClient {
	if baseURL == "" {
		baseURL = defaultGraphBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &GraphClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// ListPages returns the pages the token holder manages. An account managing
// no pages yields an empty slice, not an error.
func (c *GraphClient) ListPages(ctx context.Context, accessToken string) ([]Page, error) {
	endpoint := c.baseURL + "/me/accounts?access_token=" + url.QueryEscape(accessToken)
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	var parsed struct {
		Data []Page `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("list pages: decode response: %w", err)
	}
	return parsed.Data, nil
}

// BusinessAccountID resolves the Instagram business account attached to a
// page. Empty string means the page has no linked business account.
func (c *GraphClient) BusinessAccountID(ctx context.Context, pageID, accessToken string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=instagram_business_account&access_token=%s",
		c.baseURL, url.PathEscape(pageID), url.QueryEscape(accessToken))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("resolve business account for page %s: %w", pageID, err)
	}

	var parsed struct {
		InstagramBusinessAccount *struct {
			ID string `json:"id"`
		} `json:"instagram_business_account"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("resolve business account for page %s: decode response: %w", pageID, err)
	}
	if parsed.InstagramBusinessAccount == nil {
		return "", nil
	}
	return parsed.InstagramBusinessAccount.ID, nil
}

// pageResolution is the tagged outcome of one page lookup during the scan:
// either a resolved account id, an explicit "no business account", or a
// lookup error that skips the page without aborting the scan.
type pageResolution struct {
	pageID    string
	accountID string
	err       error
}

// FirstBusinessAccount scans pages in provider order and returns the first
// one with a linked business account, without calling the remaining pages.
// Empty string means no page resolved. A ListPages failure aborts; an
// individual page failure is logged and treated as no business account.
func (c *GraphClient) FirstBusinessAccount(ctx context.Context, accessToken string) (string, error) {
	pages, err := c.ListPages(ctx, accessToken)
	if err != nil {
		return "", err
	}

	for _, page := range pages {
		res := c.resolvePage(ctx, page.ID, accessToken)
		if res.err != nil {
			c.log.Warn("Skipping page during business account resolution", "page_id", res.pageID, "error", res.err)
			continue
		}
		if res.accountID != "" {
			return res.accountID, nil
		}
	}
	return "", nil
}

func (c *GraphClient) resolvePage(ctx context.Context, pageID, accessToken string) pageResolution {
	accountID, err := c.BusinessAccountID(ctx, pageID, accessToken)
	return pageResolution{pageID: pageID, accountID: accountID, err: err}
}

// RecentMedia fetches the account's recent media items. An account with no
// media yields an empty slice. A client-error status whose body mentions an
// expired or invalid token maps to ErrTokenExpired; any other non-success
// status maps to ErrFetchFailed.
func (c *GraphClient) RecentMedia(ctx context.Context, igAccountID, accessToken string) ([]Media, error) {
	endpoint := fmt.Sprintf("%s/%s/media?fields=%s&access_token=%s",
		c.baseURL, url.PathEscape(igAccountID), mediaFields, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch media: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("fetch media: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isTokenExpiredResponse(resp.StatusCode, body) {
			return nil, fmt.Errorf("fetch media: status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(body)), ErrTokenExpired)
		}
		return nil, fmt.Errorf("fetch media: status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(body)), ErrFetchFailed)
	}

	var parsed struct {
		Data []Media `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("fetch media: decode response: %w", err)
	}
	return parsed.Data, nil
}

// isTokenExpiredResponse detects a dead credential: a 4xx status whose body
// mentions "expired" or "invalid". This substring match mirrors the provider's
// unstructured error payloads and drives the reconnect prompt.
func isTokenExpiredResponse(status int, body []byte) bool {
	if status < 400 || status >= 500 {
		return false
	}
	lower := strings.ToLower(string(body))
	return strings.Contains(lower, "expired") || strings.Contains(lower, "invalid")
}

func (c *GraphClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
