package graph

import "time"

// Post represents a media record returned by the Graph API. Optional
// fields mirror the configured field list; absent fields stay empty.
type Post struct {
	ID               string      `json:"id"`
	Caption          string      `json:"caption,omitempty"`
	Username         string      `json:"username,omitempty"`
	Timestamp        string      `json:"timestamp,omitempty"`
	Permalink        string      `json:"permalink,omitempty"`
	MediaType        string      `json:"media_type,omitempty"`
	MediaProductType string      `json:"media_product_type,omitempty"`
	LikeCount        *int        `json:"like_count,omitempty"`
	CommentsCount    *int        `json:"comments_count,omitempty"`
	Insights         interface{} `json:"insights,omitempty"`
}

// Cursor is the continuation reference for a paginated endpoint. The
// platform hands back a complete next-request URL, not a token to merge
// with the original parameters.
type Cursor struct {
	URL string
}

// Valid reports whether the cursor points at another page
func (c Cursor) Valid() bool {
	return c.URL != ""
}

// Paging is the pagination envelope of a page response
type Paging struct {
	Next string `json:"next,omitempty"`
}

// Page is one page of a paginated media listing
type Page struct {
	Data   []Post `json:"data"`
	Paging Paging `json:"paging"`
}

// Next returns the continuation cursor for the page
func (p *Page) Next() Cursor {
	return Cursor{URL: p.Paging.Next}
}

// Meta carries per-request observability data alongside a response
type Meta struct {
	StatusCode int
	Duration   time.Duration
}

// InsightValue is a single value entry of an insight metric
type InsightValue struct {
	Value interface{} `json:"value"`
}

// Insight is one engagement metric of a post
type Insight struct {
	Name   string         `json:"name"`
	Values []InsightValue `json:"values"`
}

// insightEnvelope wraps the insights endpoint response
type insightEnvelope struct {
	Data []Insight `json:"data"`
}

// InsightError is attached to a post in place of insight values when the
// insights request for that post failed.
type InsightError struct {
	Error string `json:"error"`
}

// HashtagMatch is one hashtag search result
type HashtagMatch struct {
	ID string `json:"id"`
}

// hashtagEnvelope wraps the hashtag search response
type hashtagEnvelope struct {
	Data []HashtagMatch `json:"data"`
}

// OAuthApp identifies the OAuth application performing token exchanges
type OAuthApp struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// TokenResponse is the provider's token exchange response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

// accountsEnvelope wraps the me/accounts response
type accountsEnvelope struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
	} `json:"data"`
}

// pageInfo wraps the page lookup used for business account discovery
type pageInfo struct {
	InstagramBusinessAccount *struct {
		ID string `json:"id"`
	} `json:"instagram_business_account"`
}
