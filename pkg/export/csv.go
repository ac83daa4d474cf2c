package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

const maxCaptionLength = 500

// WritePostsCSV writes a simple date/caption/permalink listing
func WritePostsCSV(w io.Writer, posts []map[string]interface{}) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "caption", "permalink"}); err != nil {
		return err
	}

	for _, post := range posts {
		ts := stringField(post, "timestamp")
		if len(ts) > 10 {
			ts = ts[:10] // keep YYYY-MM-DD
		}
		caption := strings.NewReplacer("\n", " ", "\r", "").Replace(stringField(post, "caption"))
		// Cap by runes, not bytes, so multi-byte captions stay valid UTF-8.
		if runes := []rune(caption); len(runes) > maxCaptionLength {
			caption = string(runes[:maxCaptionLength])
		}
		if err := cw.Write([]string{ts, caption, stringField(post, "permalink")}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteInsightsCSV flattens per-post insight metrics into columns, one
// row per post, missing metrics as 0. When both reach and
// total_interactions are present an engagement_rate(%) column is
// computed.
func WriteInsightsCSV(w io.Writer, posts []map[string]interface{}) error {
	rows := make([]map[string]float64, len(posts))
	ids := make([]string, len(posts))
	metricSet := map[string]bool{}

	for i, post := range posts {
		ids[i] = stringField(post, "id")
		rows[i] = flattenInsights(post["insights"])
		for name := range rows[i] {
			metricSet[name] = true
		}
	}

	metrics := make([]string, 0, len(metricSet))
	for name := range metricSet {
		metrics = append(metrics, name)
	}
	sort.Strings(metrics)

	withRate := metricSet["reach"] && metricSet["total_interactions"]

	header := append([]string{"id"}, metrics...)
	if withRate {
		header = append(header, "engagement_rate(%)")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, row := range rows {
		record := make([]string, 0, len(header))
		record = append(record, ids[i])
		for _, name := range metrics {
			record = append(record, formatValue(row[name]))
		}
		if withRate {
			record = append(record, formatValue(engagementRate(row)))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// engagementRate is total_interactions/reach as a percentage, rounded
// to two decimals; zero reach yields zero.
func engagementRate(row map[string]float64) float64 {
	reach := row["reach"]
	if reach == 0 {
		return 0
	}
	return math.Round(row["total_interactions"]/reach*100*100) / 100
}

// flattenInsights extracts metric name/value pairs from a post's
// insights field. Error markers and malformed entries yield no pairs.
func flattenInsights(insights interface{}) map[string]float64 {
	out := map[string]float64{}
	list, ok := insights.([]interface{})
	if !ok {
		return out
	}
	for _, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if name == "" {
			continue
		}
		var value float64
		if values, ok := m["values"].([]interface{}); ok && len(values) > 0 {
			if first, ok := values[0].(map[string]interface{}); ok {
				if v, ok := first["value"].(float64); ok {
					value = v
				}
			}
		}
		out[name] = value
	}
	return out
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func stringField(post map[string]interface{}, key string) string {
	s, _ := post[key].(string)
	return s
}
