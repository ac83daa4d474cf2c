package main

import (
	"igcrawler/pkg/auth"
	"igcrawler/pkg/config"
	"igcrawler/pkg/fetcher"
	"igcrawler/pkg/graph"
	"igcrawler/pkg/hashtag"
	"igcrawler/pkg/insights"
	"igcrawler/pkg/logger"
	"igcrawler/pkg/retry"
	"igcrawler/pkg/token"
)

// app bundles the wired pipeline components for a command run
type app struct {
	cfg      *config.Config
	log      logger.Logger
	client   *graph.Client
	tokens   *token.Store
	fetcher  *fetcher.Fetcher
	resolver *hashtag.Resolver
	enricher *insights.Enricher
}

// newApp wires the pipeline from configuration. Stored app credentials
// fill any OAuth settings the config leaves empty.
func newApp(cfg *config.Config, log logger.Logger) *app {
	mergeStoredCredentials(cfg, log)

	client := graph.NewClient(cfg.Graph.BaseURL, cfg.Graph.RequestTimeout, log)

	tokens := token.NewStore(client, token.Options{
		App: graph.OAuthApp{
			ClientID:     cfg.App.ClientID,
			ClientSecret: cfg.App.ClientSecret,
			RedirectURI:  cfg.App.RedirectURI,
		},
		ShortLivedToken: cfg.App.ShortLivedToken,
		AccessToken:     cfg.App.AccessToken,
		Logger:          log,
	})

	backoff := retry.DefaultExponentialBackoff()
	if cfg.Fetch.BackoffBase > 0 {
		backoff.BaseDelay = cfg.Fetch.BackoffBase
	}
	f := fetcher.New(client, fetcher.Config{
		MaxAttempts:                 cfg.Fetch.MaxAttempts,
		Backoff:                     backoff,
		RateLimitWait:               cfg.Fetch.RateLimitWait,
		RateLimitCountsTowardBudget: cfg.Fetch.RateLimitCountsTowardBudget,
	}, log)

	resolver := hashtag.New(client, f, cfg.Graph.BaseURL, cfg.App.BusinessID, cfg.Graph.Fields, log)

	selector := insights.NewSelector(
		cfg.Insights.Metrics,
		cfg.Insights.StoryMetrics,
		cfg.Insights.ReelsMetrics,
		cfg.Insights.VideoMetrics,
	)
	enricher := insights.NewEnricher(client, selector, cfg.Insights.PacingDelay, log)

	return &app{
		cfg:      cfg,
		log:      log,
		client:   client,
		tokens:   tokens,
		fetcher:  f,
		resolver: resolver,
		enricher: enricher,
	}
}

// mergeStoredCredentials fills empty OAuth settings from the credential
// store, so `igcrawler auth set` works without environment variables.
func mergeStoredCredentials(cfg *config.Config, log logger.Logger) {
	if cfg.App.ClientID != "" && cfg.App.ClientSecret != "" {
		return
	}
	manager, err := auth.NewManager()
	if err != nil {
		return
	}
	creds, err := manager.Retrieve()
	if err != nil {
		return
	}
	log.Debug("using stored OAuth app credentials")
	if cfg.App.ClientID == "" {
		cfg.App.ClientID = creds.ClientID
	}
	if cfg.App.ClientSecret == "" {
		cfg.App.ClientSecret = creds.ClientSecret
	}
	if cfg.App.RedirectURI == "" {
		cfg.App.RedirectURI = creds.RedirectURI
	}
	if cfg.App.ShortLivedToken == "" {
		cfg.App.ShortLivedToken = creds.ShortLivedToken
	}
}
