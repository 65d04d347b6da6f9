package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/alextgu/groq-voicebot/adapters/llm"
	"github.com/alextgu/groq-voicebot/adapters/stt"
	"github.com/alextgu/groq-voicebot/adapters/tts"
	"github.com/alextgu/groq-voicebot/domain/repositories"
	"github.com/alextgu/groq-voicebot/internal/api"
	"github.com/alextgu/groq-voicebot/internal/audio"
	"github.com/alextgu/groq-voicebot/internal/config"
	"github.com/alextgu/groq-voicebot/internal/wake"
	"github.com/alextgu/groq-voicebot/internal/websocket"
	"github.com/alextgu/groq-voicebot/usecase"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	transcriber, err := buildTranscriber(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize speech recognition", zap.Error(err))
	}
	reasoner, err := buildReasoner(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize reasoning engine", zap.Error(err))
	}
	synthesizer, err := buildSynthesizer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize speech synthesis", zap.Error(err))
	}

	engine := usecase.NewEngine(reasoner, wake.NewClassifier(cfg.AgentName), "", logger)
	turns := usecase.NewTurnService(
		engine,
		synthesizer,
		wake.NewGate(),
		audio.NewCoordinator(logger),
		cfg.WakeGreeting,
		logger,
	)

	hub := websocket.NewHub(transcriber, turns, audio.DetectorConfig{
		SilenceThreshold: cfg.SilenceThreshold,
		SilenceDuration:  cfg.SilenceDuration,
	}, cfg.CaptureDir, logger)
	go hub.Run()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.InitRoutes(e, hub, transcriber, api.Providers{
		STT: cfg.STTProvider,
		LLM: cfg.LLMProvider,
		TTS: cfg.TTSProvider,
	}, logger)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Voice gateway started",
		zap.String("port", cfg.Port),
		zap.String("stt", cfg.STTProvider),
		zap.String("llm", cfg.LLMProvider),
		zap.String("tts", cfg.TTSProvider))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func buildTranscriber(cfg *config.Config, logger *zap.Logger) (repositories.Transcriber, error) {
	switch cfg.STTProvider {
	case config.ProviderGoogle:
		return stt.NewGoogleTranscriber(audio.SampleRate, "en-US", logger), nil
	case config.ProviderMock:
		return stt.NewMockTranscriber(logger), nil
	default:
		return stt.NewGroqTranscriber(stt.GroqConfig{
			APIKey:  cfg.GroqAPIKey,
			BaseURL: cfg.GroqBaseURL,
			Model:   cfg.GroqWhisper,
		}, logger)
	}
}

func buildReasoner(cfg *config.Config, logger *zap.Logger) (repositories.Reasoner, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return llm.NewGeminiReasoner(context.Background(), llm.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, logger)
	case config.ProviderMock:
		return llm.NewMockReasoner(), nil
	default:
		return llm.NewGroqReasoner(llm.GroqConfig{
			APIKey:      cfg.GroqAPIKey,
			BaseURL:     cfg.GroqBaseURL,
			Model:       cfg.GroqModel,
			Temperature: cfg.GroqTemperature,
			MaxTokens:   cfg.GroqMaxTokens,
		}, logger)
	}
}

func buildSynthesizer(cfg *config.Config, logger *zap.Logger) (repositories.TextToSpeech, error) {
	switch cfg.TTSProvider {
	case config.ProviderMock:
		return tts.NewMockTTS(), nil
	default:
		return tts.NewElevenLabsTTS(tts.ElevenLabsConfig{
			APIKey:  cfg.ElevenAPIKey,
			VoiceID: cfg.ElevenVoiceID,
			ModelID: cfg.ElevenModelID,
		}, logger)
	}
}
