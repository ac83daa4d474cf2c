package main

import (
	"github.com/spf13/cobra"

	"igcrawler/internal/server"
)

// serveCmd runs the HTTP service
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP crawl service",
	Long: `Serve the crawl pipeline over HTTP:

  GET /auth/login            redirect to the provider consent screen
  GET /auth/callback?code=   complete the token exchange
  GET /crawl/{hashtag}       recent media for a hashtag`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		a := newApp(cfg, log)
		if err := cfg.RequireOAuthApp(); err != nil {
			return err
		}
		if err := cfg.RequireAccount(); err != nil {
			return err
		}

		return server.New(cfg, a.tokens, a.resolver, log).Run()
	},
}
