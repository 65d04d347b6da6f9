package stt

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/alextgu/groq-voicebot/domain/repositories"
)

// GoogleTranscriber implements Transcriber using the Google Cloud
// Speech-to-Text API. Credentials come from the standard
// GOOGLE_APPLICATION_CREDENTIALS environment.
type GoogleTranscriber struct {
	sampleRate int
	language   string
	logger     *zap.Logger
}

var _ repositories.Transcriber = (*GoogleTranscriber)(nil)

// NewGoogleTranscriber creates a Google Cloud transcriber.
func NewGoogleTranscriber(sampleRate int, language string, logger *zap.Logger) *GoogleTranscriber {
	if sampleRate == 0 {
		sampleRate = 16000
	}
	if language == "" {
		language = "en-US"
	}
	return &GoogleTranscriber{
		sampleRate: sampleRate,
		language:   language,
		logger:     logger,
	}
}

// Transcribe runs a one-shot recognition over the payload.
func (g *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create speech client: %w", err)
	}
	defer client.Close()

	encoding, err := audioEncoding(format)
	if err != nil {
		return "", err
	}

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        encoding,
			SampleRateHertz: int32(g.sampleRate),
			LanguageCode:    g.language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognition request failed: %w", err)
	}

	var text string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			text += result.Alternatives[0].Transcript
		}
	}

	g.logger.Info("Google transcription completed",
		zap.Int("results", len(resp.Results)),
		zap.Int("chars", len(text)))
	return text, nil
}

func audioEncoding(format string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch format {
	case "wav", "pcm", "":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "webm":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported audio format: %s", format)
	}
}
