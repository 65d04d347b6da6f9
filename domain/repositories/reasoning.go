package repositories

import (
	"context"
	"strings"

	"github.com/alextgu/groq-voicebot/domain/entities"
)

// HangupToken is the reserved in-process sentinel a reasoner emits when
// the session should end. It is never serialized to the transport; the
// relay strips it and flushes any text preceding it in the same
// fragment.
const HangupToken = "[HANGUP]"

// IsHangup reports whether a fragment carries the hangup sentinel.
func IsHangup(fragment string) bool {
	return strings.Contains(fragment, HangupToken)
}

// Reasoner abstracts the language-model reasoning engine. Stream
// returns a channel of response fragments in generation order; the
// channel is closed when the response is complete. A fragment may embed
// HangupToken as its final content. Producers must tolerate the
// consumer abandoning the channel: every send selects on ctx.Done so
// cancelling the turn context releases the producer goroutine.
type Reasoner interface {
	Stream(ctx context.Context, utterance string, history []entities.Message) (<-chan string, error)
}
