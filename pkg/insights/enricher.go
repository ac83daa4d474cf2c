package insights

import (
	"context"
	"strings"
	"time"

	"igcrawler/pkg/graph"
	"igcrawler/pkg/logger"
	"igcrawler/pkg/retry"
)

// InsightsGetter retrieves insight metrics for one media record
type InsightsGetter interface {
	GetInsights(ctx context.Context, mediaID, metric, token string) ([]graph.Insight, error)
}

// Enricher attaches insight values to fetched posts, one request per
// post with a non-empty metric set, paced to stay under the platform
// rate limit.
type Enricher struct {
	client   InsightsGetter
	selector Selector
	pacing   time.Duration
	logger   logger.Logger
}

// NewEnricher creates an Enricher. pacing is the blocking delay between
// successive insight requests.
func NewEnricher(client InsightsGetter, selector Selector, pacing time.Duration, log logger.Logger) *Enricher {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Enricher{client: client, selector: selector, pacing: pacing, logger: log}
}

// Enrich resolves each post's metric set and attaches fetched insight
// values. Posts with an empty metric set pass through unmodified. A
// failed insights request attaches an error marker instead of dropping
// the post. The output has the same length and order as the input.
func (e *Enricher) Enrich(ctx context.Context, posts []graph.Post, token string) ([]graph.Post, error) {
	out := make([]graph.Post, len(posts))
	requested := false

	for i, post := range posts {
		out[i] = post

		metrics := e.selector.Select(post)
		if len(metrics) == 0 {
			continue
		}

		if requested {
			if err := retry.Wait(ctx, e.pacing); err != nil {
				return out, err
			}
		}
		requested = true

		data, err := e.client.GetInsights(ctx, post.ID, strings.Join(metrics, ","), token)
		if err != nil {
			e.logger.ErrorWithFields("insights request failed", map[string]interface{}{
				"media_id": post.ID,
				"error":    err.Error(),
			})
			out[i].Insights = graph.InsightError{Error: err.Error()}
			continue
		}
		out[i].Insights = data
	}

	return out, nil
}
