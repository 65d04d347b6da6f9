package stt

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/alextgu/groq-voicebot/domain/repositories"
)

const (
	defaultWhisperModel = "whisper-large-v3-turbo"
	defaultLanguage     = "en"
)

// GroqConfig holds configuration for the GroqTranscriber adapter.
// Required fields:
// - APIKey: your Groq API key
// Optional fields with defaults:
// - BaseURL: OpenAI-compatible endpoint (default Groq's)
// - Model: Whisper model (default "whisper-large-v3-turbo")
// - Language: recognition language (default "en")
type GroqConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
}

// GroqTranscriber implements Transcriber using Groq's Whisper endpoint
// through the OpenAI-compatible API surface.
type GroqTranscriber struct {
	client   *openai.Client
	model    string
	language string
	logger   *zap.Logger
}

var _ repositories.Transcriber = (*GroqTranscriber)(nil)

// NewGroqTranscriber creates a Groq Whisper transcriber.
func NewGroqTranscriber(config GroqConfig, logger *zap.Logger) (*GroqTranscriber, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	} else {
		clientConfig.BaseURL = "https://api.groq.com/openai/v1"
	}

	model := config.Model
	if model == "" {
		model = defaultWhisperModel
	}
	language := config.Language
	if language == "" {
		language = defaultLanguage
	}

	return &GroqTranscriber{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		language: language,
		logger:   logger,
	}, nil
}

// Transcribe uploads the audio payload and returns the recognized text.
func (g *GroqTranscriber) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}
	if format == "" {
		format = "wav"
	}

	g.logger.Info("Transcribing audio",
		zap.Int("bytes", len(audio)),
		zap.String("format", format))

	resp, err := g.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:       g.model,
		FilePath:    "utterance." + format,
		Reader:      bytes.NewReader(audio),
		Language:    g.language,
		Temperature: 0,
		Format:      openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	g.logger.Info("Transcription completed",
		zap.Int("chars", len(text)))
	return text, nil
}
