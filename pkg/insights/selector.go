// Package insights selects the metric set applicable to each post and
// enriches fetched posts with per-media insight values.
package insights

import (
	"strings"

	"igcrawler/pkg/graph"
)

// Selector maps a post's media classification to the metric set to
// request. Product type takes precedence over the base media type.
type Selector struct {
	Default []string
	Story   []string
	Reels   []string
	Video   []string
}

// NewSelector builds a Selector from comma-separated metric lists
func NewSelector(def, story, reels, video string) Selector {
	return Selector{
		Default: splitMetrics(def),
		Story:   splitMetrics(story),
		Reels:   splitMetrics(reels),
		Video:   splitMetrics(video),
	}
}

func splitMetrics(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Select returns the metric set for a post. An empty result means no
// insights are requestable for that post's classification.
func (s Selector) Select(post graph.Post) []string {
	switch {
	case post.MediaProductType == "STORY":
		return s.Story
	case post.MediaProductType == "REELS":
		return s.Reels
	case post.MediaType == "VIDEO":
		return s.Video
	default: // IMAGE, CAROUSEL_ALBUM and anything newer
		return s.Default
	}
}
