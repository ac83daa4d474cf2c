// Package hashtag resolves hashtag names to platform IDs and crawls
// their recent media.
package hashtag

import (
	"context"
	"fmt"

	"igcrawler/pkg/errors"
	"igcrawler/pkg/fetcher"
	"igcrawler/pkg/graph"
	"igcrawler/pkg/logger"
)

// Searcher resolves hashtag names via the platform search endpoint
type Searcher interface {
	SearchHashtag(ctx context.Context, userID, tag, token string) ([]graph.HashtagMatch, error)
}

// Resolver resolves hashtags and delegates recent-media retrieval to
// the paginated fetcher.
type Resolver struct {
	client  Searcher
	fetcher *fetcher.Fetcher
	baseURL string
	userID  string
	fields  string
	logger  logger.Logger
}

// New creates a Resolver. userID is the business account on whose
// behalf hashtag queries run; fields is the media field list.
func New(client Searcher, f *fetcher.Fetcher, baseURL, userID, fields string, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Resolver{
		client:  client,
		fetcher: f,
		baseURL: baseURL,
		userID:  userID,
		fields:  fields,
		logger:  log,
	}
}

// Resolve returns the platform ID for a hashtag name. A response with
// no matches is a data error; with several, the first match wins.
func (r *Resolver) Resolve(ctx context.Context, tag, token string) (string, error) {
	matches, err := r.client.SearchHashtag(ctx, r.userID, tag, token)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", errors.Data(fmt.Sprintf("no hashtag ID found for %q", tag))
	}
	return matches[0].ID, nil
}

// Crawl resolves a hashtag and fetches up to limit of its recent media
func (r *Resolver) Crawl(ctx context.Context, tag string, limit int, token string) ([]graph.Post, error) {
	id, err := r.Resolve(ctx, tag, token)
	if err != nil {
		return nil, err
	}
	r.logger.InfoWithFields("hashtag resolved", map[string]interface{}{
		"tag":        tag,
		"hashtag_id": id,
	})

	first := graph.RecentMediaURL(r.baseURL, id, r.userID, r.fields, limit, token)
	return r.fetcher.FetchAll(ctx, first, limit)
}
