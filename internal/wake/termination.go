package wake

import "strings"

// DefaultTerminationPhrases are the only phrases that end a session.
// Validation signals ("correct", "I got it", "that makes sense"),
// generic thanks without the agent name, and bare yes/no answers are
// deliberately absent: they occur constantly in normal operation and a
// false positive silently ends a session the user wants to continue.
var DefaultTerminationPhrases = []string{
	"thank you zed",
	"thanks zed",
	"goodbye zed",
	"bye zed",
	"goodbye",
	"i'm done",
	"im done",
	"stop session",
	"end session",
	"quit",
	"exit",
}

// Classifier tests whether an utterance is an explicit request to end
// the session. Matching is strict, not fuzzy.
type Classifier struct {
	phrases   []string
	agentName string
}

// NewClassifier builds a classifier. The agent name marks phrases that
// pair a generic word with a name qualifier ("thank you zed"); those
// match on containment while the generic word alone never does.
func NewClassifier(agentName string, phrases ...string) *Classifier {
	if len(phrases) == 0 {
		phrases = DefaultTerminationPhrases
	}
	normalized := make([]string, 0, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		n := normalize(p)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		normalized = append(normalized, n)
	}
	return &Classifier{
		phrases:   normalized,
		agentName: normalize(agentName),
	}
}

// IsTermination reports whether the text explicitly asks to end the
// session. Accepted forms, on normalized text:
//   - exact match of a phrase
//   - a phrase followed by a word boundary ("goodbye, see you later")
//   - containment, only for phrases carrying the agent-name qualifier
func (c *Classifier) IsTermination(text string) bool {
	t := normalize(text)
	if t == "" {
		return false
	}

	for _, phrase := range c.phrases {
		if t == phrase {
			return true
		}
		if strings.HasPrefix(t, phrase+" ") {
			return true
		}
		if c.agentName != "" && strings.Contains(phrase, c.agentName) && strings.Contains(t, phrase) {
			return true
		}
	}
	return false
}
