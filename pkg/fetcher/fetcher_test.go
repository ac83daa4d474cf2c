package fetcher

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igcrawler/pkg/errors"
	"igcrawler/pkg/graph"
	"igcrawler/pkg/logger"
	"igcrawler/pkg/retry"
)

// scriptedPages serves canned page results keyed by URL. Each URL's
// script is consumed one entry per call, with the last entry repeating.
type scriptedPages struct {
	scripts map[string][]pageResult
	calls   map[string]int
}

type pageResult struct {
	page *graph.Page
	meta graph.Meta
	err  error
}

func newScriptedPages() *scriptedPages {
	return &scriptedPages{
		scripts: make(map[string][]pageResult),
		calls:   make(map[string]int),
	}
}

func (s *scriptedPages) add(url string, results ...pageResult) {
	s.scripts[url] = append(s.scripts[url], results...)
}

func (s *scriptedPages) GetPage(ctx context.Context, rawURL string) (*graph.Page, graph.Meta, error) {
	script, exists := s.scripts[rawURL]
	if !exists {
		return nil, graph.Meta{StatusCode: 404}, errors.API(404, "unknown page")
	}
	i := s.calls[rawURL]
	s.calls[rawURL]++
	if i >= len(script) {
		i = len(script) - 1
	}
	r := script[i]
	return r.page, r.meta, r.err
}

func okPage(ids []string, next string) pageResult {
	posts := make([]graph.Post, len(ids))
	for i, id := range ids {
		posts[i] = graph.Post{ID: id}
	}
	return pageResult{
		page: &graph.Page{Data: posts, Paging: graph.Paging{Next: next}},
		meta: graph.Meta{StatusCode: 200, Duration: 12 * time.Millisecond},
	}
}

func failPage(err error, status int) pageResult {
	return pageResult{meta: graph.Meta{StatusCode: status}, err: err}
}

func fastConfig() Config {
	return Config{
		MaxAttempts:   3,
		Backoff:       &retry.ConstantBackoff{Delay: time.Millisecond},
		RateLimitWait: 2 * time.Millisecond,
	}
}

func postIDs(posts []graph.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestFetchAllFollowsCursors(t *testing.T) {
	pages := newScriptedPages()
	pages.add("http://g/p1", okPage([]string{"1", "2"}, "http://g/p2"))
	pages.add("http://g/p2", okPage([]string{"3"}, "http://g/p3"))
	pages.add("http://g/p3", okPage([]string{"4", "5"}, ""))

	log := logger.NewTestLogger()
	f := New(pages, fastConfig(), log)

	posts, err := f.FetchAll(context.Background(), "http://g/p1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, postIDs(posts))
	assert.Len(t, log.MessagesByLevel("INFO"), 3)
	assert.Empty(t, log.MessagesByLevel("ERROR"))
}

func TestFetchAllRetriesTransientFailure(t *testing.T) {
	pages := newScriptedPages()
	pages.add("http://g/p1",
		failPage(errors.API(500, "upstream error"), 500),
		failPage(errors.Network(fmt.Errorf("connection reset")), 0),
		okPage([]string{"1"}, ""),
	)

	f := New(pages, fastConfig(), logger.NewTestLogger())

	posts, err := f.FetchAll(context.Background(), "http://g/p1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, postIDs(posts))
	assert.Equal(t, 3, pages.calls["http://g/p1"])
}

func TestFetchAllRetriesUpstreamRejection(t *testing.T) {
	pages := newScriptedPages()
	pages.add("http://g/p1",
		failPage(errors.API(400, "transient validation error"), 400),
		okPage([]string{"1"}, ""),
	)

	f := New(pages, fastConfig(), logger.NewTestLogger())

	// Any non-429 non-2xx response consumes the transient budget and is
	// retried, not treated as final.
	posts, err := f.FetchAll(context.Background(), "http://g/p1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, postIDs(posts))
	assert.Equal(t, 2, pages.calls["http://g/p1"])
}

func TestFetchAllExhaustionReturnsPrefix(t *testing.T) {
	pages := newScriptedPages()
	pages.add("http://g/p1", okPage([]string{"1", "2"}, "http://g/p2"))
	pages.add("http://g/p2", failPage(errors.API(500, "upstream error"), 500))

	log := logger.NewTestLogger()
	f := New(pages, fastConfig(), log)

	posts, err := f.FetchAll(context.Background(), "http://g/p1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, postIDs(posts))
	assert.Equal(t, 3, pages.calls["http://g/p2"])

	// Exactly one terminal error line for the abandoned page.
	errorLines := log.MessagesByLevel("ERROR")
	require.Len(t, errorLines, 1)
	assert.Equal(t, "http://g/p2", errorLines[0].Fields["endpoint"])
	assert.Equal(t, 0, errorLines[0].Fields["items_count"])
	assert.NotNil(t, errorLines[0].Fields["error"])
}

func TestFetchAllRateLimitOutsideBudget(t *testing.T) {
	pages := newScriptedPages()
	pages.add("http://g/p1",
		failPage(errors.RateLimit(), 429),
		failPage(errors.RateLimit(), 429),
		failPage(errors.RateLimit(), 429),
		okPage([]string{"1"}, ""),
	)

	f := New(pages, fastConfig(), logger.NewTestLogger())

	// Three consecutive 429s exceed the transient budget size but the
	// rate-limit track is independent, so the fetch still succeeds.
	posts, err := f.FetchAll(context.Background(), "http://g/p1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, postIDs(posts))
	assert.Equal(t, 4, pages.calls["http://g/p1"])
}

func TestFetchAllRateLimitInsideBudget(t *testing.T) {
	pages := newScriptedPages()
	pages.add("http://g/p1", failPage(errors.RateLimit(), 429))

	cfg := fastConfig()
	cfg.RateLimitCountsTowardBudget = true
	f := New(pages, cfg, logger.NewTestLogger())

	posts, err := f.FetchAll(context.Background(), "http://g/p1", 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, 3, pages.calls["http://g/p1"])
}

func TestFetchAllAuthFailureIsFinal(t *testing.T) {
	pages := newScriptedPages()
	pages.add("http://g/p1", failPage(errors.Auth("token expired"), 401))

	f := New(pages, fastConfig(), logger.NewTestLogger())

	posts, err := f.FetchAll(context.Background(), "http://g/p1", 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, 1, pages.calls["http://g/p1"])
}

func TestFetchAllLimitTruncates(t *testing.T) {
	pages := newScriptedPages()
	pages.add("http://g/p1", okPage([]string{"1", "2", "3"}, "http://g/p2"))
	pages.add("http://g/p2", okPage([]string{"4", "5", "6"}, "http://g/p3"))

	f := New(pages, fastConfig(), logger.NewTestLogger())

	posts, err := f.FetchAll(context.Background(), "http://g/p1", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, postIDs(posts))
	// The limit is reached on page two; page three is never requested.
	assert.Equal(t, 0, pages.calls["http://g/p3"])
}

func TestFetchAllContextCancelled(t *testing.T) {
	pages := newScriptedPages()
	pages.add("http://g/p1", okPage([]string{"1"}, "http://g/p2"))
	pages.add("http://g/p2", failPage(errors.RateLimit(), 429))

	cfg := fastConfig()
	cfg.RateLimitWait = time.Hour

	f := New(pages, cfg, logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	posts, err := f.FetchAll(ctx, "http://g/p1", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"1"}, postIDs(posts))
}

func TestEndpointPath(t *testing.T) {
	assert.Equal(t, "http://g/p1", endpointPath("http://g/p1?access_token=tok&limit=25"))
	assert.Equal(t, "http://g/p1", endpointPath("http://g/p1"))
}
