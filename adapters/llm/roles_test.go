package llm

import (
	"testing"

	"google.golang.org/genai"

	"github.com/alextgu/groq-voicebot/domain/entities"
)

func TestGeminiRoleMapping(t *testing.T) {
	tests := []struct {
		name string
		role entities.MessageRole
		want genai.Role
	}{
		{"user maps to user", entities.RoleUser, genai.RoleUser},
		{"assistant maps to model", entities.RoleAssistant, genai.RoleModel},
		{"unknown defaults to user", entities.MessageRole("system"), genai.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := geminiRole(tt.role); got != tt.want {
				t.Errorf("geminiRole(%q) = %q, want %q", tt.role, got, tt.want)
			}
		})
	}
}

func TestChatRoleMapping(t *testing.T) {
	if got := chatRole(entities.RoleAssistant); got != "assistant" {
		t.Errorf("chatRole(assistant) = %q, want assistant", got)
	}
	if got := chatRole(entities.RoleUser); got != "user" {
		t.Errorf("chatRole(user) = %q, want user", got)
	}
}
