package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"igcrawler/pkg/export"
)

var (
	hashtagLimit  int
	hashtagOutput string
)

// hashtagCmd resolves a hashtag and crawls its recent media
var hashtagCmd = &cobra.Command{
	Use:   "hashtag <tag>",
	Short: "Crawl recent media for a hashtag",
	Long: `Resolve a hashtag name (without the # prefix) to its platform ID
and fetch its recent media, bounded by --limit.`,
	Example: `  igcrawler hashtag sunset --limit 50`,
	Args:    cobra.ExactArgs(1),
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

		limit := hashtagLimit
		if limit <= 0 {
			limit = cfg.Fetch.PageLimit
		}
		posts, err := a.resolver.Crawl(ctx, args[0], limit, tok.Value)
		if err != nil {
			return err
		}

		path := filepath.Join(cfg.Output.Directory, hashtagOutput)
		if err := export.WriteJSON(path, posts); err != nil {
			return err
		}
		fmt.Printf("wrote %d posts for #%s to %s\n", len(posts), args[0], path)
		return nil
	},
}

func init() {
	hashtagCmd.Flags().IntVarP(&hashtagLimit, "limit", "n", 0, "maximum posts to fetch")
	hashtagCmd.Flags().StringVarP(&hashtagOutput, "output", "o", "hashtag_media.json", "output file name")
}
