package repositories

import "context"

// TextToSpeech abstracts speech synthesis services. The returned
// channel delivers synthesized audio chunks in playback order and is
// closed when synthesis finishes or fails; a failure mid-stream closes
// the channel early rather than returning an error, so a partial result
// is still playable.
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string) (<-chan []byte, error)
}
