package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted by the STT/LLM/TTS selectors.
const (
	ProviderGroq       = "groq"
	ProviderGoogle     = "google"
	ProviderGemini     = "gemini"
	ProviderElevenLabs = "elevenlabs"
	ProviderMock       = "mock"
)

// Config holds all runtime configuration for the voice gateway.
type Config struct {
	Port string

	STTProvider string
	LLMProvider string
	TTSProvider string

	GroqAPIKey      string
	GroqBaseURL     string
	GroqModel       string
	GroqWhisper     string
	GroqTemperature float32
	GroqMaxTokens   int

	GeminiAPIKey string
	GeminiModel  string

	ElevenAPIKey  string
	ElevenVoiceID string
	ElevenModelID string

	WakeGreeting string
	AgentName    string

	SilenceThreshold float64
	SilenceDuration  time.Duration

	// CaptureDir, when set, archives every detector-closed utterance
	// as a WAV file for debugging transcription quality.
	CaptureDir string
}

// Load reads configuration from the environment. A .env file is applied
// first when present, matching how the adapters have always been
// configured in development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8000"),

		STTProvider: getEnv("STT_PROVIDER", ProviderGroq),
		LLMProvider: getEnv("LLM_PROVIDER", ProviderGroq),
		TTSProvider: getEnv("TTS_PROVIDER", ProviderElevenLabs),

		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:     getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:       getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqWhisper:     getEnv("GROQ_WHISPER_MODEL", "whisper-large-v3-turbo"),
		GroqTemperature: getFloat32Env("GROQ_TEMPERATURE", 0.4),
		GroqMaxTokens:   getIntEnv("GROQ_MAX_TOKENS", 350),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		ElevenAPIKey:  os.Getenv("ELEVEN_API_KEY"),
		ElevenVoiceID: getEnv("ELEVEN_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		ElevenModelID: getEnv("ELEVEN_MODEL_ID", "eleven_turbo_v2_5"),

		WakeGreeting: getEnv("WAKE_GREETING", "I am ready."),
		AgentName:    getEnv("AGENT_NAME", "zed"),

		SilenceThreshold: getFloat64Env("SILENCE_THRESHOLD", 500),
		SilenceDuration:  getDurationEnv("SILENCE_DURATION", 2*time.Second),

		CaptureDir: os.Getenv("CAPTURE_DIR"),
	}
}

// Validate checks that the selected providers have the credentials they
// need. Mock providers never require credentials.
func (c *Config) Validate() error {
	if (c.STTProvider == ProviderGroq || c.LLMProvider == ProviderGroq) && c.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required for provider %q", ProviderGroq)
	}
	if c.LLMProvider == ProviderGemini && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for provider %q", ProviderGemini)
	}
	if c.TTSProvider == ProviderElevenLabs && c.ElevenAPIKey == "" {
		return fmt.Errorf("ELEVEN_API_KEY is required for provider %q", ProviderElevenLabs)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat32Env(key string, def float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return def
}

func getFloat64Env(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
