package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"igcrawler/pkg/export"
	"igcrawler/pkg/graph"
)

var insightsOutput string

// insightsCmd fetches all media and enriches each post with insights
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Fetch all media and attach per-post insight metrics",
	Long: `Fetch every media record of the configured business account, then
request the insight metrics applicable to each post's media type, one
paced request per post. Posts whose insights request fails keep an
error marker instead of values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.RequireAccount(); err != nil {
			return err
		}
		a := newApp(cfg, log)
		ctx := context.Background()

		tok, err := a.tokens.Get(ctx, "")
		if err != nil {
			return err
		}

		first := graph.UserMediaURL(cfg.Graph.BaseURL, cfg.App.BusinessID, cfg.Graph.Fields, cfg.Fetch.PageLimit, tok.Value)
		posts, err := a.fetcher.FetchAll(ctx, first, 0)
		if err != nil {
			return err
		}
		log.InfoWithFields("media crawl finished", map[string]interface{}{
			"total": len(posts),
		})

		enriched, err := a.enricher.Enrich(ctx, posts, tok.Value)
		if err != nil {
			return err
		}

		path := filepath.Join(cfg.Output.Directory, insightsOutput)
		if err := export.WriteJSON(path, enriched); err != nil {
			return err
		}
		fmt.Printf("wrote %d enriched posts to %s\n", len(enriched), path)
		return nil
	},
}

func init() {
	insightsCmd.Flags().StringVarP(&insightsOutput, "output", "o", "all_user_media_with_insights.json", "output file name")
}
