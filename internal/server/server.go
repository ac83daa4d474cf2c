// Package server exposes the crawl pipeline over HTTP: the OAuth
// login/callback pair and the hashtag crawl endpoint.
package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"igcrawler/pkg/config"
	"igcrawler/pkg/errors"
	"igcrawler/pkg/graph"
	"igcrawler/pkg/logger"
	"igcrawler/pkg/token"
)

// TokenSource supplies access tokens, completing exchanges on demand
type TokenSource interface {
	Get(ctx context.Context, code string) (token.Token, error)
}

// Crawler retrieves recent media for a hashtag
type Crawler interface {
	Crawl(ctx context.Context, tag string, limit int, tok string) ([]graph.Post, error)
}

// Server wires the HTTP routes to the crawl pipeline
type Server struct {
	cfg     *config.Config
	tokens  TokenSource
	crawler Crawler
	logger  logger.Logger
}

// New creates a Server
func New(cfg *config.Config, tokens TokenSource, crawler Crawler, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Server{cfg: cfg, tokens: tokens, crawler: crawler, logger: log}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/login", s.handleLogin)
		authGroup.GET("/callback", s.handleCallback)
	}

	crawlGroup := r.Group("/crawl")
	{
		crawlGroup.GET("/:hashtag", s.handleCrawl)
	}

	return r
}

// Run starts the HTTP server on the configured address
func (s *Server) Run() error {
	addr := s.cfg.Server.ListenAddr
	s.logger.InfoWithFields("starting HTTP server", map[string]interface{}{
		"addr": addr,
	})
	return s.Router().Run(addr)
}

// handleLogin redirects the browser to the provider consent screen
func (s *Server) handleLogin(c *gin.Context) {
	app := graph.OAuthApp{
		ClientID:     s.cfg.App.ClientID,
		ClientSecret: s.cfg.App.ClientSecret,
		RedirectURI:  s.cfg.App.RedirectURI,
	}
	c.Redirect(http.StatusTemporaryRedirect, graph.LoginDialogURL(s.cfg.Graph.DialogBaseURL, app, ""))
}

// handleCallback completes the code exchange and returns the token
func (s *Server) handleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		respondError(c, http.StatusBadRequest, "missing code in callback")
		return
	}

	tok, err := s.tokens.Get(c.Request.Context(), code)
	if err != nil {
		s.respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": tok.Value})
}

// handleCrawl resolves the hashtag and returns its recent media
func (s *Server) handleCrawl(c *gin.Context) {
	tag := c.Param("hashtag")

	limit := s.cfg.Fetch.PageLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	tok, err := s.tokens.Get(c.Request.Context(), "")
	if err != nil {
		s.respondPipelineError(c, err)
		return
	}

	posts, err := s.crawler.Crawl(c.Request.Context(), tag, limit, tok.Value)
	if err != nil {
		s.respondPipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(posts), "data": posts})
}

// respondPipelineError maps crawl errors onto HTTP statuses
func (s *Server) respondPipelineError(c *gin.Context, err error) {
	s.logger.WithError(err).Error("request failed")
	switch errors.KindOf(err) {
	case errors.KindAuth:
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.KindData:
		respondError(c, http.StatusNotFound, err.Error())
	case errors.KindAPI:
		status := errors.StatusOf(err)
		if status == 0 {
			status = http.StatusBadGateway
		}
		respondError(c, status, err.Error())
	default:
		respondError(c, http.StatusBadGateway, err.Error())
	}
}

// respondError sends an error payload and aborts remaining handlers
func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
