package export

import (
	"encoding/csv"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// wordPattern matches letter runs of two or more characters in any
// script, so hashtags and non-Latin captions both count.
var wordPattern = regexp.MustCompile(`[\p{L}]{2,}`)

// WordCount is one caption word with its occurrence count
type WordCount struct {
	Word  string
	Count int
}

// CountWords tallies word frequencies across all post captions,
// descending by count, ties broken alphabetically.
func CountWords(posts []map[string]interface{}) []WordCount {
	counts := map[string]int{}
	for _, post := range posts {
		caption := stringField(post, "caption")
		if caption == "" {
			continue
		}
		for _, word := range wordPattern.FindAllString(strings.ToLower(caption), -1) {
			counts[word]++
		}
	}

	out := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		out = append(out, WordCount{Word: word, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// WriteWordsCSV writes the caption word frequency table
func WriteWordsCSV(w io.Writer, words []WordCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"word", "count"}); err != nil {
		return err
	}
	for _, wc := range words {
		if err := cw.Write([]string{wc.Word, strconv.Itoa(wc.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
