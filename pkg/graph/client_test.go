package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igcrawler/pkg/errors"
	"igcrawler/pkg/logger"
)

// mockRoundTripper allows us to intercept HTTP requests
type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.handler(req)
}

func newResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

// newTestClient creates a client whose transport serves predefined
// responses keyed by full request URL.
func newTestClient(t *testing.T, responses map[string]interface{}) *Client {
	t.Helper()

	client := NewClient(DefaultBaseURL, 10*time.Second, logger.NewTestLogger())
	client.httpClient = &http.Client{
		Transport: &mockRoundTripper{handler: func(req *http.Request) (*http.Response, error) {
			response, exists := responses[req.URL.String()]
			if !exists {
				return newResponse(http.StatusNotFound, `{"error":"unknown path"}`), nil
			}
			switch v := response.(type) {
			case error:
				return nil, v
			case int:
				return newResponse(v, ""), nil
			case string:
				return newResponse(http.StatusOK, v), nil
			default:
				body, _ := json.Marshal(v)
				return newResponse(http.StatusOK, string(body)), nil
			}
		}},
	}
	return client
}

func TestGetJSONSuccess(t *testing.T) {
	url := DefaultBaseURL + "/17841/media?access_token=tok"
	client := newTestClient(t, map[string]interface{}{
		url: `{"data":[{"id":"1"},{"id":"2"}],"paging":{"next":"http://next.page"}}`,
	})

	page, meta, err := client.GetPage(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meta.StatusCode)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, "1", page.Data[0].ID)
	assert.True(t, page.Next().Valid())
	assert.Equal(t, "http://next.page", page.Next().URL)
}

func TestGetJSONRateLimited(t *testing.T) {
	url := DefaultBaseURL + "/x"
	client := newTestClient(t, map[string]interface{}{url: http.StatusTooManyRequests})

	_, meta, err := client.GetPage(context.Background(), url)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindRateLimit))
	assert.Equal(t, http.StatusTooManyRequests, meta.StatusCode)
}

func TestGetJSONAPIError(t *testing.T) {
	url := DefaultBaseURL + "/x"
	client := newTestClient(t, map[string]interface{}{url: http.StatusInternalServerError})

	_, _, err := client.GetPage(context.Background(), url)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindAPI))
	assert.Equal(t, http.StatusInternalServerError, errors.StatusOf(err))
}

func TestGetJSONNetworkError(t *testing.T) {
	url := DefaultBaseURL + "/x"
	client := newTestClient(t, map[string]interface{}{
		url: &mockNetError{},
	})

	_, _, err := client.GetPage(context.Background(), url)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNetwork))
}

type mockNetError struct{}

func (e *mockNetError) Error() string { return "dial tcp: connection refused" }

func TestGetJSONParseError(t *testing.T) {
	url := DefaultBaseURL + "/x"
	client := newTestClient(t, map[string]interface{}{url: `{"data": not json`})

	_, _, err := client.GetPage(context.Background(), url)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindParsing))
}

func TestExchangeCode(t *testing.T) {
	app := OAuthApp{ClientID: "cid", ClientSecret: "secret", RedirectURI: "https://cb"}
	client := newTestClient(t, map[string]interface{}{
		CodeExchangeURL(DefaultBaseURL, app, "abc"): `{"access_token":"short-tok","token_type":"bearer"}`,
	})

	tok, err := client.ExchangeCode(context.Background(), app, "abc")
	require.NoError(t, err)
	assert.Equal(t, "short-tok", tok.AccessToken)
}

func TestExchangeLongLived(t *testing.T) {
	app := OAuthApp{ClientID: "cid", ClientSecret: "secret"}
	client := newTestClient(t, map[string]interface{}{
		LongLivedExchangeURL(DefaultBaseURL, app, "short-tok"): `{"access_token":"long-tok","expires_in":5184000}`,
	})

	tok, err := client.ExchangeLongLived(context.Background(), app, "short-tok")
	require.NoError(t, err)
	assert.Equal(t, "long-tok", tok.AccessToken)
	assert.Equal(t, int64(5184000), tok.ExpiresIn)
}

func TestExchangeMissingToken(t *testing.T) {
	app := OAuthApp{ClientID: "cid", ClientSecret: "secret"}
	client := newTestClient(t, map[string]interface{}{
		LongLivedExchangeURL(DefaultBaseURL, app, "short-tok"): `{}`,
	})

	_, err := client.ExchangeLongLived(context.Background(), app, "short-tok")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindData))
}

func TestSearchHashtag(t *testing.T) {
	client := newTestClient(t, map[string]interface{}{
		HashtagSearchURL(DefaultBaseURL, "17841", "sunset", "tok"): `{"data":[{"id":"17842"}]}`,
	})

	matches, err := client.SearchHashtag(context.Background(), "17841", "sunset", "tok")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "17842", matches[0].ID)
}

func TestGetInsights(t *testing.T) {
	client := newTestClient(t, map[string]interface{}{
		InsightsURL(DefaultBaseURL, "99", "reach,total_interactions", "tok"): `{"data":[{"name":"reach","values":[{"value":120}]}]}`,
	})

	data, err := client.GetInsights(context.Background(), "99", "reach,total_interactions", "tok")
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "reach", data[0].Name)
	require.Len(t, data[0].Values, 1)
	assert.Equal(t, float64(120), data[0].Values[0].Value)
}

func TestResolveBusinessAccount(t *testing.T) {
	client := newTestClient(t, map[string]interface{}{
		AccountsURL(DefaultBaseURL, "tok"):                       `{"data":[{"id":"page-1","name":"My Page"}]}`,
		PageBusinessAccountURL(DefaultBaseURL, "page-1", "tok"): `{"instagram_business_account":{"id":"17841"}}`,
	})

	id, err := client.ResolveBusinessAccount(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "17841", id)
}

func TestResolveBusinessAccountNoPages(t *testing.T) {
	client := newTestClient(t, map[string]interface{}{
		AccountsURL(DefaultBaseURL, "tok"): `{"data":[]}`,
	})

	_, err := client.ResolveBusinessAccount(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindData))
}

func TestRedactURL(t *testing.T) {
	redacted := redactURL("https://g/x?fields=id&access_token=secret123&limit=25")
	assert.Equal(t, "https://g/x?fields=id&access_token=REDACTED&limit=25", redacted)

	redacted = redactURL("https://g/x?access_token=secret123")
	assert.Equal(t, "https://g/x?access_token=REDACTED", redacted)

	assert.Equal(t, "https://g/x?fields=id", redactURL("https://g/x?fields=id"))
}
