package repositories

import "context"

// Transcriber abstracts speech recognition services.
type Transcriber interface {
	// Transcribe converts an audio payload to text. The format hint is
	// the container detected from the payload's magic bytes ("wav",
	// "webm" or "pcm").
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}
