// Package wake holds the two pure classifiers that gate a session:
// the wake phrase gate and the termination classifier.
package wake

import "strings"

// DefaultSpellings covers the accepted spellings of the wake phrase,
// including the misrecognitions upstream transcription produces often
// enough to matter.
var DefaultSpellings = []string{
	"hey zed",
	"hey zedd",
	"hey zad",
	"hey zet",
	"hey said",
	"hey set",
	"heyzed",
	"hey z",
	"a zed",
	"hey fed",
}

// Gate tests whether a transcribed utterance contains the wake phrase.
// It owns no state beyond its phrase table.
type Gate struct {
	spellings []string
}

// NewGate builds a gate from accepted spellings; with none given the
// default table is used.
func NewGate(spellings ...string) *Gate {
	if len(spellings) == 0 {
		spellings = DefaultSpellings
	}
	normalized := make([]string, 0, len(spellings))
	for _, s := range spellings {
		if n := normalize(s); n != "" {
			normalized = append(normalized, n)
		}
	}
	return &Gate{spellings: normalized}
}

// Detect reports whether the text contains any accepted spelling as a
// substring. Matching is case and punctuation insensitive; substring
// containment is intentional given transcription noise upstream.
func (g *Gate) Detect(text string) bool {
	if text == "" {
		return false
	}
	t := normalize(text)
	for _, spelling := range g.spellings {
		if strings.Contains(t, spelling) {
			return true
		}
	}
	return false
}

// normalize lowercases and strips everything except letters, digits and
// single spaces.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\n':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
		// Punctuation drops out entirely.
	}
	return strings.TrimSpace(b.String())
}
