package usecase

import (
	"context"
	"strings"

	"github.com/alextgu/groq-voicebot/domain/entities"
	"github.com/alextgu/groq-voicebot/domain/repositories"
)

// Transport is the outbound side of a client connection. Implementations
// serialize to the wire protocol; the usecase layer only decides what to
// send and in which order.
type Transport interface {
	SendStatus(mode entities.SessionMode, detail string) error
	SendTranscription(text string) error
	SendAudioCue(cue string) error
	SendFragment(text string) error
	SendTurnComplete(fullText string, hasAudio bool) error
	SendAudio(data []byte) error
	SendError(code, message string) error
}

// RelayResult summarizes one relayed response stream.
type RelayResult struct {
	// FullText is the concatenation of every forwarded fragment, i.e.
	// the response without the hangup sentinel.
	FullText string
	// Hangup reports whether the stream ended with the hangup sentinel.
	Hangup bool
}

// Relay forwards response fragments to the transport in arrival order.
// The hangup sentinel never reaches the wire: a fragment carrying it has
// its preceding text flushed, then the relay stops consuming. Forwarding
// stops on the first transport error so a dead connection does not burn
// the rest of the stream.
func Relay(ctx context.Context, fragments <-chan string, transport Transport) (RelayResult, error) {
	var full strings.Builder

	for {
		select {
		case fragment, ok := <-fragments:
			if !ok {
				return RelayResult{FullText: full.String()}, nil
			}
			if repositories.IsHangup(fragment) {
				head := fragment[:strings.Index(fragment, repositories.HangupToken)]
				if head != "" {
					full.WriteString(head)
					if err := transport.SendFragment(head); err != nil {
						return RelayResult{FullText: full.String(), Hangup: true}, err
					}
				}
				return RelayResult{FullText: full.String(), Hangup: true}, nil
			}
			if fragment == "" {
				continue
			}
			full.WriteString(fragment)
			if err := transport.SendFragment(fragment); err != nil {
				return RelayResult{FullText: full.String()}, err
			}
		case <-ctx.Done():
			return RelayResult{FullText: full.String()}, ctx.Err()
		}
	}
}
