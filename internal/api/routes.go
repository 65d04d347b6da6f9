package api

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alextgu/groq-voicebot/domain/repositories"
	"github.com/alextgu/groq-voicebot/internal/audio"
	"github.com/alextgu/groq-voicebot/internal/websocket"
)

// Providers names the configured adapter behind each concern, for the
// health surface.
type Providers struct {
	STT string
	LLM string
	TTS string
}

// InitRoutes initializes all API routes.
func InitRoutes(e *echo.Echo, hub *websocket.Hub, transcriber repositories.Transcriber, providers Providers, logger *zap.Logger) {
	e.GET("/", func(c echo.Context) error {
		total, awake := hub.Counts()
		return c.JSON(http.StatusOK, ServiceInfoResponse{
			Service:        "voice-gateway",
			Status:         "ok",
			Sessions:       total,
			AwakeSessions:  awake,
			AsleepSessions: total - awake,
		})
	})

	e.GET("/health", func(c echo.Context) error {
		total, awake := hub.Counts()
		return c.JSON(http.StatusOK, HealthResponse{
			Status: "ok",
			STT:    providers.STT,
			LLM:    providers.LLM,
			TTS:    providers.TTS,
			Sessions: SessionCounts{
				Total:  total,
				Awake:  awake,
				Asleep: total - awake,
			},
		})
	})

	// One-shot transcription, mostly for client debugging.
	e.POST("/transcribe", func(c echo.Context) error {
		return transcribe(c, transcriber, logger)
	})

	e.GET("/ws", func(c echo.Context) error {
		return websocket.HandleWebSocket(hub, c, logger)
	})
}

func transcribe(c echo.Context, transcriber repositories.Transcriber, logger *zap.Logger) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 10*1024*1024))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Could not read request body",
		})
	}
	if len(body) < audio.MinPayloadBytes {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "payload_too_small",
			Message: "Audio payload is too short to transcribe",
		})
	}

	format := audio.DetectFormat(body)
	if format == audio.FormatPCM {
		body = audio.EncodeWAV(body, audio.SampleRate, audio.Channels)
		format = audio.FormatWAV
	}

	text, err := transcriber.Transcribe(c.Request().Context(), body, format)
	if err != nil {
		logger.Error("Transcription failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "transcription_failed",
			Message: "Speech recognition did not succeed",
		})
	}

	return c.JSON(http.StatusOK, TranscribeResponse{Text: text, Format: format})
}
