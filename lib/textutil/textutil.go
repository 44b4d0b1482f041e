package textutil

import (
	"regexp"
	"strings"
)

var breakRegex = regexp.MustCompile(`(?i)<br\s*/?>`)

// ConvertBreaks turns literal <br>, <br/> and <br /> markers into newlines.
func ConvertBreaks(text string) string {
	return breakRegex.ReplaceAllString(text, "\n")
}

// StripPromotional deletes every occurrence of each phrase (exact, case-sensitive).
//
// deletion is repeated until nothing changes so the result is a fixed point,
// a phrase reassembled by removing another one is removed as well.
func StripPromotional(text string, phrases []string) string {
	for {
		before := text
		for _, p := range phrases {
			if p == "" {
				continue
			}
			text = strings.ReplaceAll(text, p, "")
		}
		if text == before {
			return text
		}
	}
}

// NormalizeSynopsis applies break conversion, promotional phrase removal and trimming.
func NormalizeSynopsis(text string, phrases []string) string {
	text = ConvertBreaks(text)
	text = StripPromotional(text, phrases)
	return strings.TrimSpace(text)
}

// CleanGenreLabel drops a trailing rank annotation like "(1位)" or "（1位）"
// (everything from the first opening parenthesis) and trims the rest.
func CleanGenreLabel(label string) string {
	if i := strings.IndexAny(label, "(（"); i >= 0 {
		label = label[:i]
	}
	return strings.TrimSpace(label)
}

// DedupOrdered removes duplicates while keeping the first occurrence of each value
// in its original position.
func DedupOrdered(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
