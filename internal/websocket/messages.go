package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alextgu/groq-voicebot/domain/entities"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Outbound message types
const (
	MessageTypeStatus        MessageType = "status"
	MessageTypeTranscription MessageType = "transcription"
	MessageTypeAudioCue      MessageType = "audio_cue"
	MessageTypeResponse      MessageType = "response"
	MessageTypeError         MessageType = "error"
	MessageTypePong          MessageType = "pong"
	MessageTypeConfigAck     MessageType = "config_ack"
)

// Inbound message types
const (
	MessageTypePing   MessageType = "ping"
	MessageTypeConfig MessageType = "config"
	MessageTypeText   MessageType = "text"
	MessageTypeStop   MessageType = "stop"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// StatusMessage announces the session's wake state.
type StatusMessage struct {
	BaseMessage
	SessionID string               `json:"session_id"`
	Mode      entities.SessionMode `json:"mode"`
	Detail    string               `json:"text,omitempty"`
}

// TranscriptionMessage echoes what the server heard before it responds.
type TranscriptionMessage struct {
	BaseMessage
	Text string `json:"text"`
}

// AudioCueMessage asks the client to play a locally stored cue sound.
type AudioCueMessage struct {
	BaseMessage
	Cue string `json:"name"`
}

// ResponseMessage streams the assistant's reply. Fragments carry
// Text with Done false; the final message has Done true, the full
// assembled text, and whether a binary audio frame follows.
type ResponseMessage struct {
	BaseMessage
	Text     string `json:"text,omitempty"`
	Done     bool   `json:"done"`
	FullText string `json:"full_text,omitempty"`
	HasAudio bool   `json:"has_audio,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// PongMessage answers a client ping.
type PongMessage struct {
	BaseMessage
}

// ConfigAckMessage confirms applied client configuration.
type ConfigAckMessage struct {
	BaseMessage
	SilenceThreshold float64 `json:"silence_threshold"`
	SilenceDuration  float64 `json:"silence_duration_seconds"`
}

// InboundMessage is the union of fields a client may send as JSON.
// Binary frames carry audio and never pass through here.
type InboundMessage struct {
	Type MessageType `json:"type"`

	// Text carries a typed utterance when Type is "text".
	Text string `json:"text,omitempty"`

	// Config fields, applied when Type is "config". Zero values leave
	// the current setting untouched.
	SilenceThreshold float64 `json:"silence_threshold,omitempty"`
	SilenceDuration  float64 `json:"silence_duration_seconds,omitempty"`
}

// ParseInbound validates an incoming JSON text frame.
func ParseInbound(messageBytes []byte) (*InboundMessage, error) {
	var msg InboundMessage
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch msg.Type {
	case MessageTypePing, MessageTypeStop:
		return &msg, nil
	case MessageTypeText:
		if msg.Text == "" {
			return nil, fmt.Errorf("text message requires a text field")
		}
		return &msg, nil
	case MessageTypeConfig:
		if msg.SilenceThreshold < 0 {
			return nil, fmt.Errorf("silence_threshold must not be negative")
		}
		if msg.SilenceDuration < 0 {
			return nil, fmt.Errorf("silence_duration_seconds must not be negative")
		}
		return &msg, nil
	case "":
		return nil, fmt.Errorf("message missing type field")
	default:
		return nil, fmt.Errorf("unsupported message type: %s", msg.Type)
	}
}

func stamp() string {
	return time.Now().Format(time.RFC3339)
}

// NewStatusMessage creates a status message for a session.
func NewStatusMessage(sessionID string, mode entities.SessionMode, detail string) *StatusMessage {
	return &StatusMessage{
		BaseMessage: BaseMessage{Type: MessageTypeStatus, Timestamp: stamp()},
		SessionID:   sessionID,
		Mode:        mode,
		Detail:      detail,
	}
}

// NewErrorMessage creates a standardized error message.
func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: BaseMessage{Type: MessageTypeError, Timestamp: stamp()},
		Code:        code,
		Message:     message,
	}
}

// NewPongMessage creates a pong response message.
func NewPongMessage() *PongMessage {
	return &PongMessage{
		BaseMessage: BaseMessage{Type: MessageTypePong, Timestamp: stamp()},
	}
}
