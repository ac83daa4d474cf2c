package graph

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// DefaultBaseURL is the versioned Graph API root
	DefaultBaseURL = "https://graph.facebook.com/v23.0"

	// DefaultDialogBaseURL hosts the OAuth consent dialog
	DefaultDialogBaseURL = "https://www.facebook.com/v23.0"

	// DefaultScope is the permission set requested at login
	DefaultScope = "instagram_basic,pages_show_list,instagram_manage_insights"
)

// CodeExchangeURL builds the authorization-code exchange request URL
func CodeExchangeURL(base string, app OAuthApp, code string) string {
	params := url.Values{}
	params.Set("client_id", app.ClientID)
	params.Set("client_secret", app.ClientSecret)
	params.Set("redirect_uri", app.RedirectURI)
	params.Set("code", code)
	return fmt.Sprintf("%s/oauth/access_token?%s", base, params.Encode())
}

// LongLivedExchangeURL builds the short-to-long token upgrade request URL
func LongLivedExchangeURL(base string, app OAuthApp, shortToken string) string {
	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("client_id", app.ClientID)
	params.Set("client_secret", app.ClientSecret)
	params.Set("fb_exchange_token", shortToken)
	return fmt.Sprintf("%s/oauth/access_token?%s", base, params.Encode())
}

// LoginDialogURL builds the provider consent screen URL
func LoginDialogURL(dialogBase string, app OAuthApp, scope string) string {
	if scope == "" {
		scope = DefaultScope
	}
	params := url.Values{}
	params.Set("client_id", app.ClientID)
	params.Set("redirect_uri", app.RedirectURI)
	params.Set("scope", scope)
	params.Set("response_type", "code")
	return fmt.Sprintf("%s/dialog/oauth?%s", dialogBase, params.Encode())
}

// HashtagSearchURL builds the hashtag name-to-ID resolution request URL
func HashtagSearchURL(base, userID, tag, token string) string {
	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("q", tag)
	params.Set("access_token", token)
	return fmt.Sprintf("%s/ig_hashtag_search?%s", base, params.Encode())
}

// RecentMediaURL builds the first-page request URL for a hashtag's
// recent media.
func RecentMediaURL(base, hashtagID, userID, fields string, limit int, token string) string {
	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("fields", fields)
	params.Set("access_token", token)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return fmt.Sprintf("%s/%s/recent_media?%s", base, hashtagID, params.Encode())
}

// UserMediaURL builds the first-page request URL for a business
// account's own media.
func UserMediaURL(base, igUserID, fields string, limit int, token string) string {
	params := url.Values{}
	params.Set("fields", fields)
	params.Set("access_token", token)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return fmt.Sprintf("%s/%s/media?%s", base, igUserID, params.Encode())
}

// MediaURL builds the request URL for a single media record
func MediaURL(base, mediaID, fields, token string) string {
	params := url.Values{}
	params.Set("fields", fields)
	params.Set("access_token", token)
	return fmt.Sprintf("%s/%s?%s", base, mediaID, params.Encode())
}

// InsightsURL builds the per-media insights request URL
func InsightsURL(base, mediaID, metric, token string) string {
	params := url.Values{}
	params.Set("metric", metric)
	params.Set("access_token", token)
	return fmt.Sprintf("%s/%s/insights?%s", base, mediaID, params.Encode())
}

// AccountsURL builds the linked-pages listing request URL
func AccountsURL(base, token string) string {
	params := url.Values{}
	params.Set("access_token", token)
	return fmt.Sprintf("%s/me/accounts?%s", base, params.Encode())
}

// PageBusinessAccountURL builds the page lookup URL used to discover the
// linked Instagram business account.
func PageBusinessAccountURL(base, pageID, token string) string {
	params := url.Values{}
	params.Set("fields", "instagram_business_account")
	params.Set("access_token", token)
	return fmt.Sprintf("%s/%s?%s", base, pageID, params.Encode())
}
