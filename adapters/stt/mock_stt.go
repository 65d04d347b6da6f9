package stt

import (
	"context"

	"go.uber.org/zap"

	"github.com/alextgu/groq-voicebot/domain/repositories"
)

// MockTranscriber is a placeholder transcriber for development without
// a speech provider. It returns canned text keyed to payload size so a
// client can drive the full wake/turn flow.
type MockTranscriber struct {
	logger *zap.Logger
}

var _ repositories.Transcriber = (*MockTranscriber)(nil)

// NewMockTranscriber creates a mock transcriber.
func NewMockTranscriber(logger *zap.Logger) *MockTranscriber {
	return &MockTranscriber{logger: logger}
}

// Transcribe implements repositories.Transcriber.
func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	m.logger.Info("Mock transcription",
		zap.Int("bytes", len(audio)),
		zap.String("format", format))

	switch {
	case len(audio) > 60000:
		return "goodbye", nil
	case len(audio) > 30000:
		return "What is variance?", nil
	default:
		return "Hey Zed", nil
	}
}
