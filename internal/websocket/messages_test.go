package websocket

import (
	"encoding/json"
	"testing"

	"github.com/alextgu/groq-voicebot/domain/entities"
)

func TestParseInbound(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{
			name:    "valid ping",
			message: `{"type": "ping"}`,
			wantErr: false,
		},
		{
			name:    "valid stop",
			message: `{"type": "stop"}`,
			wantErr: false,
		},
		{
			name:    "valid text",
			message: `{"type": "text", "text": "hey zed"}`,
			wantErr: false,
		},
		{
			name:    "text without body",
			message: `{"type": "text"}`,
			wantErr: true,
		},
		{
			name:    "valid config",
			message: `{"type": "config", "silence_threshold": 350, "silence_duration_seconds": 1.5}`,
			wantErr: false,
		},
		{
			name:    "config with negative threshold",
			message: `{"type": "config", "silence_threshold": -1}`,
			wantErr: true,
		},
		{
			name:    "missing type",
			message: `{"text": "hello"}`,
			wantErr: true,
		},
		{
			name:    "unknown type",
			message: `{"type": "eject"}`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			message: `{"type": "ping"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInbound([]byte(tt.message))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseInbound() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseInboundKeepsConfigValues(t *testing.T) {
	msg, err := ParseInbound([]byte(`{"type": "config", "silence_threshold": 350, "silence_duration_seconds": 1.5}`))
	if err != nil {
		t.Fatalf("ParseInbound() error = %v", err)
	}
	if msg.SilenceThreshold != 350 {
		t.Errorf("SilenceThreshold = %v, want 350", msg.SilenceThreshold)
	}
	if msg.SilenceDuration != 1.5 {
		t.Errorf("SilenceDuration = %v, want 1.5", msg.SilenceDuration)
	}
}

func TestStatusMessageSerialization(t *testing.T) {
	msg := NewStatusMessage("session-123", entities.ModeAwake, "session active")

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["type"] != "status" {
		t.Errorf("type = %v, want status", decoded["type"])
	}
	if decoded["mode"] != "awake" {
		t.Errorf("mode = %v, want awake", decoded["mode"])
	}
	if decoded["session_id"] != "session-123" {
		t.Errorf("session_id = %v, want session-123", decoded["session_id"])
	}
}

func TestResponseFragmentOmitsCompletionFields(t *testing.T) {
	fragment := &ResponseMessage{
		BaseMessage: BaseMessage{Type: MessageTypeResponse},
		Text:        "partial ",
	}

	data, err := json.Marshal(fragment)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["done"] != false {
		t.Errorf("done = %v, want false", decoded["done"])
	}
	if _, ok := decoded["full_text"]; ok {
		t.Error("fragment should omit full_text")
	}
	if _, ok := decoded["has_audio"]; ok {
		t.Error("fragment should omit has_audio")
	}
}
