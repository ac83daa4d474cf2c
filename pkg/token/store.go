// Package token manages the process-wide access token slot: at most one
// cached long-lived token, populated on first demand by exchanging an
// authorization code or upgrading a configured short-lived token.
package token

import (
	"context"
	"sync"
	"time"

	"igcrawler/pkg/errors"
	"igcrawler/pkg/graph"
	"igcrawler/pkg/logger"
)

// Kind distinguishes the two tiers of OAuth access credential
type Kind string

const (
	KindShortLived Kind = "short_lived"
	KindLongLived  Kind = "long_lived"
)

// Token is an access credential with its tier and, when the provider
// reported one, its expiry deadline.
type Token struct {
	Value     string
	Kind      Kind
	ExpiresAt time.Time
}

// ExpiresWithin reports whether the token expires before now+margin.
// Tokens without a known deadline never expire here.
func (t Token) ExpiresWithin(now time.Time, margin time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return !t.ExpiresAt.After(now.Add(margin))
}

// Exchanger performs the provider's OAuth token exchanges
type Exchanger interface {
	ExchangeCode(ctx context.Context, app graph.OAuthApp, code string) (*graph.TokenResponse, error)
	ExchangeLongLived(ctx context.Context, app graph.OAuthApp, shortToken string) (*graph.TokenResponse, error)
}

// Options configures a Store
type Options struct {
	// App identifies the OAuth application for exchanges
	App graph.OAuthApp
	// ShortLivedToken is a pre-provisioned short-lived token used when
	// no authorization code is supplied
	ShortLivedToken string
	// AccessToken seeds the cache with an externally obtained long-lived
	// token, skipping all exchanges
	AccessToken string
	// RefreshMargin triggers a proactive re-upgrade when the cached
	// token is this close to its expiry deadline
	RefreshMargin time.Duration
	// Logger for exchange operations
	Logger logger.Logger
}

// Store holds the single process-wide token slot. The check-then-set
// sequence is mutex-guarded so concurrent callers never race into
// redundant exchange calls.
type Store struct {
	mu     sync.Mutex
	cached *Token

	exchanger     Exchanger
	app           graph.OAuthApp
	shortToken    string
	refreshMargin time.Duration
	now           func() time.Time
	logger        logger.Logger
}

// NewStore creates a token store backed by the given exchanger
func NewStore(exchanger Exchanger, opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	margin := opts.RefreshMargin
	if margin == 0 {
		margin = 24 * time.Hour
	}

	s := &Store{
		exchanger:     exchanger,
		app:           opts.App,
		shortToken:    opts.ShortLivedToken,
		refreshMargin: margin,
		now:           time.Now,
		logger:        log,
	}
	if opts.AccessToken != "" {
		s.cached = &Token{Value: opts.AccessToken, Kind: KindLongLived}
	}
	return s
}

// Get returns the cached token, populating the slot on first use. With a
// cached token present the call is idempotent and makes no network
// request, except for a proactive re-upgrade when the token is inside
// the refresh margin and a short-lived source is available.
//
// Population order: an authorization code, if supplied, is exchanged for
// a short-lived token; otherwise the configured short-lived token is
// used. Either way the short-lived token is then upgraded to a
// long-lived one, which is cached.
func (s *Store) Get(ctx context.Context, code string) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		if !s.cached.ExpiresWithin(s.now(), s.refreshMargin) {
			return *s.cached, nil
		}
		return s.refreshLocked(ctx)
	}

	short := s.shortToken
	if code != "" {
		resp, err := s.exchanger.ExchangeCode(ctx, s.app, code)
		if err != nil {
			return Token{}, err
		}
		short = resp.AccessToken
	}
	if short == "" {
		return Token{}, errors.Auth("no cached token, no exchange code, and no configured short-lived token")
	}

	tok, err := s.upgradeLocked(ctx, short)
	if err != nil {
		// The slot stays empty so a later call can retry.
		return Token{}, err
	}
	s.cached = &tok
	return tok, nil
}

// upgradeLocked exchanges a short-lived token for a long-lived one
func (s *Store) upgradeLocked(ctx context.Context, short string) (Token, error) {
	resp, err := s.exchanger.ExchangeLongLived(ctx, s.app, short)
	if err != nil {
		return Token{}, err
	}
	tok := Token{Value: resp.AccessToken, Kind: KindLongLived}
	if resp.ExpiresIn > 0 {
		tok.ExpiresAt = s.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	s.logger.InfoWithFields("obtained long-lived token", map[string]interface{}{
		"expires_in_s": resp.ExpiresIn,
	})
	return tok, nil
}

// refreshLocked re-upgrades when a short-lived source is configured.
// Without one the stale token is returned unchanged, favoring partial
// availability over a hard failure.
func (s *Store) refreshLocked(ctx context.Context) (Token, error) {
	if s.shortToken == "" {
		s.logger.Warn("cached token is near expiry and no short-lived token is configured to refresh it")
		return *s.cached, nil
	}
	tok, err := s.upgradeLocked(ctx, s.shortToken)
	if err != nil {
		s.logger.WithError(err).Warn("token refresh failed, keeping cached token")
		return *s.cached, nil
	}
	s.cached = &tok
	return tok, nil
}
