// Package fetcher implements the cursor-following retrieval loop over
// Graph-API-style paginated endpoints, with bounded retry and
// rate-limit backoff.
package fetcher

import (
	"context"
	stderrors "errors"
	"time"

	"igcrawler/pkg/errors"
	"igcrawler/pkg/graph"
	"igcrawler/pkg/logger"
	"igcrawler/pkg/retry"
)

// PageGetter retrieves one page of a paginated listing
type PageGetter interface {
	GetPage(ctx context.Context, rawURL string) (*graph.Page, graph.Meta, error)
}

// Config holds the per-page retry budget
type Config struct {
	// MaxAttempts is the transient-failure budget per page request
	MaxAttempts int
	// Backoff schedule between transient failures
	Backoff retry.BackoffStrategy
	// RateLimitWait is the fixed cooldown after a 429
	RateLimitWait time.Duration
	// RateLimitCountsTowardBudget makes 429s consume the transient
	// budget instead of being tracked independently
	RateLimitCountsTowardBudget bool
}

// DefaultConfig returns the standard page budget: 3 attempts with a
// 1s, 2s backoff and an independent 60s rate-limit cooldown.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   3,
		Backoff:       retry.DefaultExponentialBackoff(),
		RateLimitWait: 60 * time.Second,
	}
}

// Fetcher follows pagination cursors until exhaustion, retrying each
// page under the configured budget.
type Fetcher struct {
	client PageGetter
	cfg    Config
	logger logger.Logger
}

// New creates a Fetcher
func New(client PageGetter, cfg Config, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff == nil {
		cfg.Backoff = retry.DefaultExponentialBackoff()
	}
	return &Fetcher{client: client, cfg: cfg, logger: log}
}

// classify partitions page request failures. Rate limiting waits out the
// platform cooldown; retryable failures consume the transient budget;
// everything else is final.
func classify(err error) retry.Class {
	switch {
	case errors.IsKind(err, errors.KindRateLimit):
		return retry.ClassRateLimit
	case errors.IsRetryable(err):
		return retry.ClassTransient
	default:
		return retry.ClassFatal
	}
}

// FetchAll retrieves every page starting from firstURL, following the
// response cursor until it is absent, and returns the items in
// API-provided order. limit > 0 caps the number of returned items.
//
// When a page's retry budget is exhausted the loop stops and returns
// the items accumulated so far with a nil error; only context
// cancellation surfaces as an error.
func (f *Fetcher) FetchAll(ctx context.Context, firstURL string, limit int) ([]graph.Post, error) {
	policy := retry.Policy{
		MaxAttempts:     f.cfg.MaxAttempts,
		Backoff:         f.cfg.Backoff,
		RateLimitWait:   f.cfg.RateLimitWait,
		RateLimitCounts: f.cfg.RateLimitCountsTowardBudget,
		Classify:        classify,
		Logger:          f.logger,
	}

	var all []graph.Post
	pageURL := firstURL

	for pageURL != "" {
		var (
			page *graph.Page
			meta graph.Meta
		)
		err := policy.Do(ctx, "fetch page", func() error {
			p, m, err := f.client.GetPage(ctx, pageURL)
			meta = m
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				return all, err
			}
			f.logPage(pageURL, meta, 0, err)
			return all, nil
		}

		all = append(all, page.Data...)
		f.logPage(pageURL, meta, len(page.Data), nil)

		if limit > 0 && len(all) >= limit {
			return all[:limit], nil
		}

		cursor := page.Next()
		if !cursor.Valid() {
			break
		}
		pageURL = cursor.URL
	}

	return all, nil
}

// logPage emits the structured per-page-request log line
func (f *Fetcher) logPage(endpoint string, meta graph.Meta, items int, err error) {
	fields := map[string]interface{}{
		"endpoint":         endpointPath(endpoint),
		"status_code":      meta.StatusCode,
		"response_time_ms": meta.Duration.Milliseconds(),
		"items_count":      items,
	}
	if err != nil {
		fields["error"] = err.Error()
		f.logger.ErrorWithFields("page request failed", fields)
		return
	}
	fields["error"] = nil
	f.logger.InfoWithFields("page request complete", fields)
}

// endpointPath strips the query string so tokens never reach the log
func endpointPath(rawURL string) string {
	for i := 0; i < len(rawURL); i++ {
		if rawURL[i] == '?' {
			return rawURL[:i]
		}
	}
	return rawURL
}
