package helpers

import "strings"

// HighlightSegment represents a split section of text with optional emphasis.
type HighlightSegment struct {
	Text  string
	Match bool
}

// HighlightSegments splits text into segments, marking case-insensitive matches of term.
// Only ASCII case folding is applied so byte offsets stay aligned with the original text.
func HighlightSegments(text, term string) []HighlightSegment {
	if text == "" {
		return nil
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return []HighlightSegment{{Text: text}}
	}

	haystack := asciiLower(text)
	needle := asciiLower(term)

	var segments []HighlightSegment
	cursor := 0
	for cursor < len(text) {
		idx := strings.Index(haystack[cursor:], needle)
		if idx < 0 {
			break
		}
		start := cursor + idx
		if start > cursor {
			segments = append(segments, HighlightSegment{Text: text[cursor:start]})
		}
		end := start + len(needle)
		segments = append(segments, HighlightSegment{Text: text[start:end], Match: true})
		cursor = end
	}
	if cursor < len(text) {
		segments = append(segments, HighlightSegment{Text: text[cursor:]})
	}
	return segments
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
