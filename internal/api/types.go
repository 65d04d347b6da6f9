package api

// ServiceInfoResponse is the root endpoint body.
type ServiceInfoResponse struct {
	Service        string `json:"service"`
	Status         string `json:"status"`
	Sessions       int    `json:"sessions"`
	AwakeSessions  int    `json:"awake_sessions"`
	AsleepSessions int    `json:"asleep_sessions"`
}

// SessionCounts summarizes hub membership for the health endpoint.
type SessionCounts struct {
	Total  int `json:"total"`
	Awake  int `json:"awake"`
	Asleep int `json:"asleep"`
}

// HealthResponse reports configured providers and session counts.
type HealthResponse struct {
	Status   string        `json:"status"`
	STT      string        `json:"stt_provider"`
	LLM      string        `json:"llm_provider"`
	TTS      string        `json:"tts_provider"`
	Sessions SessionCounts `json:"sessions"`
}

// TranscribeResponse is the one-shot transcription endpoint body.
type TranscribeResponse struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
