package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"igcrawler/pkg/export"
)

var exportInput string

// exportCmd flattens a JSON post archive into CSV views
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Convert a JSON post archive to CSV views",
	Long: `Read a JSON archive produced by the media, insights or hashtag
commands and write three CSV views into the output directory:

  posts.csv     date, caption and permalink per post
  insights.csv  one column per insight metric, with engagement rate
  words.csv     caption word frequencies`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if exportInput == "" {
			exportInput = filepath.Join(cfg.Output.Directory, "all_user_media_with_insights.json")
		}

		posts, err := export.LoadJSON(exportInput)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		if err := writeCSV(filepath.Join(cfg.Output.Directory, "posts.csv"), func(f *os.File) error {
			return export.WritePostsCSV(f, posts)
		}); err != nil {
			return err
		}
		if err := writeCSV(filepath.Join(cfg.Output.Directory, "insights.csv"), func(f *os.File) error {
			return export.WriteInsightsCSV(f, posts)
		}); err != nil {
			return err
		}
		if err := writeCSV(filepath.Join(cfg.Output.Directory, "words.csv"), func(f *os.File) error {
			return export.WriteWordsCSV(f, export.CountWords(posts))
		}); err != nil {
			return err
		}

		fmt.Printf("exported %d posts to %s\n", len(posts), cfg.Output.Directory)
		return nil
	},
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "JSON archive to convert")
}
