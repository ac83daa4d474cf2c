package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igcrawler/pkg/graph"
)

func TestWriteAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "posts.json")

	posts := []graph.Post{
		{ID: "1", Caption: "first", Insights: []graph.Insight{
			{Name: "reach", Values: []graph.InsightValue{{Value: 120}}},
		}},
		{ID: "2", Insights: graph.InsightError{Error: "unsupported metric"}},
	}
	require.NoError(t, WriteJSON(path, posts))

	loaded, err := LoadJSON(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "1", loaded[0]["id"])
	assert.Equal(t, "first", loaded[0]["caption"])

	// Both insight shapes survive the round trip.
	_, isList := loaded[0]["insights"].([]interface{})
	assert.True(t, isList)
	marker, isMap := loaded[1]["insights"].(map[string]interface{})
	require.True(t, isMap)
	assert.Equal(t, "unsupported metric", marker["error"])
}

func TestLoadJSONMissingFile(t *testing.T) {
	_, err := LoadJSON(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWritePostsCSV(t *testing.T) {
	posts := []map[string]interface{}{
		{
			"timestamp": "2025-06-01T09:30:00+0000",
			"caption":   "line one\nline two",
			"permalink": "https://example.com/p/1",
		},
		{
			"timestamp": "2025-06-02T10:00:00+0000",
			"caption":   strings.Repeat("x", 600),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePostsCSV(&buf, posts))

	records := parseCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"date", "caption", "permalink"}, records[0])
	assert.Equal(t, "2025-06-01", records[1][0])
	assert.Equal(t, "line one line two", records[1][1])
	assert.Equal(t, "https://example.com/p/1", records[1][2])
	assert.Len(t, records[2][1], 500)
	assert.Empty(t, records[2][2])
}

func TestWritePostsCSVTruncatesMultiByteCaptions(t *testing.T) {
	posts := []map[string]interface{}{
		{
			"timestamp": "2025-06-03T10:00:00+0000",
			"caption":   strings.Repeat("가", 600),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePostsCSV(&buf, posts))
	require.True(t, utf8.ValidString(buf.String()))

	records := parseCSV(t, &buf)
	require.Len(t, records, 2)

	caption := records[1][1]
	assert.Equal(t, 500, utf8.RuneCountInString(caption))
	assert.True(t, utf8.ValidString(caption))
	assert.Equal(t, strings.Repeat("가", 500), caption)
}

func TestWriteInsightsCSV(t *testing.T) {
	posts := []map[string]interface{}{
		{
			"id": "1",
			"insights": []interface{}{
				map[string]interface{}{
					"name":   "reach",
					"values": []interface{}{map[string]interface{}{"value": float64(200)}},
				},
				map[string]interface{}{
					"name":   "total_interactions",
					"values": []interface{}{map[string]interface{}{"value": float64(25)}},
				},
			},
		},
		{
			"id": "2",
			"insights": []interface{}{
				map[string]interface{}{
					"name":   "reach",
					"values": []interface{}{map[string]interface{}{"value": float64(80)}},
				},
			},
		},
		{
			"id":       "3",
			"insights": map[string]interface{}{"error": "unsupported metric"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInsightsCSV(&buf, posts))

	records := parseCSV(t, &buf)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"id", "reach", "total_interactions", "engagement_rate(%)"}, records[0])
	assert.Equal(t, []string{"1", "200", "25", "12.50"}, records[1])

	// Missing metrics render as 0; zero reach keeps the rate at 0.
	assert.Equal(t, []string{"2", "80", "0", "0"}, records[2])
	assert.Equal(t, []string{"3", "0", "0", "0"}, records[3])
}

func TestWriteInsightsCSVNoRateColumn(t *testing.T) {
	posts := []map[string]interface{}{
		{
			"id": "1",
			"insights": []interface{}{
				map[string]interface{}{
					"name":   "reach",
					"values": []interface{}{map[string]interface{}{"value": float64(10)}},
				},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInsightsCSV(&buf, posts))

	records := parseCSV(t, &buf)
	assert.Equal(t, []string{"id", "reach"}, records[0])
}

func TestCountWords(t *testing.T) {
	posts := []map[string]interface{}{
		{"caption": "Sunset at the beach #sunset"},
		{"caption": "sunset again"},
		{"caption": ""},
		{},
	}

	words := CountWords(posts)
	require.NotEmpty(t, words)
	assert.Equal(t, WordCount{Word: "sunset", Count: 3}, words[0])

	for _, wc := range words {
		assert.GreaterOrEqual(t, len(wc.Word), 2)
	}
}

func TestCountWordsTieBreak(t *testing.T) {
	posts := []map[string]interface{}{
		{"caption": "zebra apple"},
	}

	words := CountWords(posts)
	require.Len(t, words, 2)
	assert.Equal(t, "apple", words[0].Word)
	assert.Equal(t, "zebra", words[1].Word)
}

func TestWriteWordsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWordsCSV(&buf, []WordCount{{Word: "sunset", Count: 3}}))

	records := parseCSV(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"word", "count"}, records[0])
	assert.Equal(t, []string{"sunset", "3"}, records[1])
}
