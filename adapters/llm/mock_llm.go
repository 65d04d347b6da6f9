package llm

import (
	"context"
	"strings"

	"github.com/alextgu/groq-voicebot/domain/entities"
	"github.com/alextgu/groq-voicebot/domain/repositories"
)

// MockReasoner is a canned-response reasoner for local development
// without API credentials. It streams replies word by word to exercise
// the same relay path as the real adapters.
type MockReasoner struct{}

// NewMockReasoner creates a new mock reasoner.
func NewMockReasoner() repositories.Reasoner {
	return &MockReasoner{}
}

// Stream implements repositories.Reasoner.
func (m *MockReasoner) Stream(ctx context.Context, utterance string, history []entities.Message) (<-chan string, error) {
	reply := m.reply(utterance)

	fragments := make(chan string, 8)
	go func() {
		defer close(fragments)
		for _, word := range strings.SplitAfter(reply, " ") {
			select {
			case fragments <- word:
			case <-ctx.Done():
				return
			}
		}
	}()

	return fragments, nil
}

func (m *MockReasoner) reply(utterance string) string {
	lower := strings.ToLower(utterance)
	switch {
	case strings.Contains(lower, "variance"):
		return "Before I define it, tell me: if two datasets have the same mean, what could still differ between them?"
	case strings.Contains(lower, "goodbye"), strings.Contains(lower, "done"):
		return "Good session. You put in the work. Keep that momentum. " + repositories.HangupToken
	default:
		return "Interesting. What makes you say that? Walk me through your reasoning."
	}
}
