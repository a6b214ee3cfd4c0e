package transcript

import (
	"strings"
	"unicode/utf8"
)

// DefaultBoundaries is the Japanese full stop.
const DefaultBoundaries = "。"

// Splitter cuts recognized text into utterances after sentence-final
// punctuation. The punctuation stays with the preceding utterance.
type Splitter struct {
	Boundaries string
}

// NewSplitter returns a Splitter for the given boundary runes.
func NewSplitter(boundaries string) Splitter {
	if boundaries == "" {
		boundaries = DefaultBoundaries
	}
	return Splitter{Boundaries: boundaries}
}

// Split returns the trimmed, non-empty fragments of text in order.
func (s Splitter) Split(text string) []string {
	boundaries := s.Boundaries
	if boundaries == "" {
		boundaries = DefaultBoundaries
	}

	utterances := []string{}
	start := 0
	for i, r := range text {
		if !strings.ContainsRune(boundaries, r) {
			continue
		}
		end := i + utf8.RuneLen(r)
		if u := strings.TrimSpace(text[start:end]); u != "" {
			utterances = append(utterances, u)
		}
		start = end
	}
	if u := strings.TrimSpace(text[start:]); u != "" {
		utterances = append(utterances, u)
	}
	return utterances
}
