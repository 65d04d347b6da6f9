package tts

import (
	"context"

	"github.com/alextgu/groq-voicebot/domain/repositories"
	"github.com/alextgu/groq-voicebot/internal/audio"
)

// MockTTS is a silence generator for local development without API
// credentials. It emits valid WAV audio so downstream playback and the
// wire protocol behave exactly as with a real synthesizer.
type MockTTS struct{}

// NewMockTTS creates a new mock synthesizer.
func NewMockTTS() repositories.TextToSpeech {
	return &MockTTS{}
}

// Synthesize emits a short burst of silent WAV audio, scaled to the
// input length.
func (m *MockTTS) Synthesize(ctx context.Context, text string) (<-chan []byte, error) {
	// Quarter second of silence at the capture rate.
	pcm := make([]byte, audio.SampleRate*audio.BytesPerSample/4)
	wav := audio.EncodeWAV(pcm, audio.SampleRate, audio.Channels)

	chunks := make(chan []byte, 4)
	go func() {
		defer close(chunks)
		n := 1 + len(text)/100
		if n > 4 {
			n = 4
		}
		for i := 0; i < n; i++ {
			var chunk []byte
			if i == 0 {
				chunk = wav
			} else {
				chunk = pcm
			}
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()

	return chunks, nil
}
