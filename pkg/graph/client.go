package graph

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"igcrawler/pkg/errors"
	"igcrawler/pkg/logger"
)

// Client is an HTTP client for the Graph API. It maps transport and
// status failures onto the crawl error taxonomy and records per-request
// metadata for the page log.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a new Graph API client
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log,
	}
}

// BaseURL returns the configured Graph API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a GET request and maps transport failures
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, Meta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, Meta{}, errors.Network(err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	meta := Meta{Duration: time.Since(start)}
	if err != nil {
		c.logger.DebugWithFields("request failed", map[string]interface{}{
			"url":   redactURL(rawURL),
			"error": err.Error(),
		})
		return nil, meta, errors.Network(err)
	}
	meta.StatusCode = resp.StatusCode

	c.logger.DebugWithFields("request completed", map[string]interface{}{
		"url":         redactURL(rawURL),
		"status":      resp.StatusCode,
		"duration_ms": meta.Duration.Milliseconds(),
	})
	return resp, meta, nil
}

// GetJSON performs a GET request and decodes the JSON response into
// target. Non-2xx statuses become typed errors: 429 is a rate-limit
// error, everything else an API error carrying status and body.
func (c *Client) GetJSON(ctx context.Context, rawURL string, target interface{}) (Meta, error) {
	resp, meta, err := c.get(ctx, rawURL)
	if err != nil {
		return meta, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return meta, errors.Network(err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return meta, errors.RateLimit()
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return meta, errors.API(resp.StatusCode, string(body))
	}

	if target == nil {
		return meta, nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          redactURL(rawURL),
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return meta, errors.Parsing(err)
	}
	return meta, nil
}

// GetPage retrieves one page of a paginated media listing
func (c *Client) GetPage(ctx context.Context, rawURL string) (*Page, Meta, error) {
	var page Page
	meta, err := c.GetJSON(ctx, rawURL, &page)
	if err != nil {
		return nil, meta, err
	}
	return &page, meta, nil
}

// ExchangeCode exchanges an authorization code for a short-lived token
func (c *Client) ExchangeCode(ctx context.Context, app OAuthApp, code string) (*TokenResponse, error) {
	var tok TokenResponse
	if _, err := c.GetJSON(ctx, CodeExchangeURL(c.baseURL, app, code), &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, errors.Data("token exchange response carried no access_token")
	}
	return &tok, nil
}

// ExchangeLongLived upgrades a short-lived token to a long-lived one
func (c *Client) ExchangeLongLived(ctx context.Context, app OAuthApp, shortToken string) (*TokenResponse, error) {
	var tok TokenResponse
	if _, err := c.GetJSON(ctx, LongLivedExchangeURL(c.baseURL, app, shortToken), &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, errors.Data("token exchange response carried no access_token")
	}
	return &tok, nil
}

// SearchHashtag resolves a hashtag name to its search matches
func (c *Client) SearchHashtag(ctx context.Context, userID, tag, token string) ([]HashtagMatch, error) {
	var envelope hashtagEnvelope
	if _, err := c.GetJSON(ctx, HashtagSearchURL(c.baseURL, userID, tag, token), &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// GetInsights retrieves insight metrics for a single media record
func (c *Client) GetInsights(ctx context.Context, mediaID, metric, token string) ([]Insight, error) {
	var envelope insightEnvelope
	if _, err := c.GetJSON(ctx, InsightsURL(c.baseURL, mediaID, metric, token), &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// GetMedia retrieves a single media record
func (c *Client) GetMedia(ctx context.Context, mediaID, fields, token string) (*Post, error) {
	var post Post
	if _, err := c.GetJSON(ctx, MediaURL(c.baseURL, mediaID, fields, token), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// redactURL strips the access token from a URL before it reaches a log
func redactURL(rawURL string) string {
	i := strings.Index(rawURL, "access_token=")
	if i < 0 {
		return rawURL
	}
	end := strings.IndexByte(rawURL[i:], '&')
	if end < 0 {
		return rawURL[:i] + "access_token=REDACTED"
	}
	return rawURL[:i] + "access_token=REDACTED" + rawURL[i+end:]
}
