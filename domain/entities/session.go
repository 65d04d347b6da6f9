package entities

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// SessionMode is the wake state of a session.
type SessionMode string

const (
	ModeAsleep SessionMode = "asleep"
	ModeAwake  SessionMode = "awake"
)

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one entry in a session's conversation history.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// Session is the per-connection conversation state. A session starts
// asleep and transitions to awake only through wake-phrase detection;
// it transitions back only when the reasoning engine emits the hangup
// sentinel. The history is owned by the connection's turn task; the
// wake state is atomic because the registry's health surface reads it
// from other goroutines.
type Session struct {
	ID        string
	CreatedAt time.Time

	awake   atomic.Bool
	history []Message
}

// NewSession creates a session in the asleep state.
func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

// Mode returns the current wake state.
func (s *Session) Mode() SessionMode {
	if s.awake.Load() {
		return ModeAwake
	}
	return ModeAsleep
}

// Awake reports whether the session is processing utterances.
func (s *Session) Awake() bool {
	return s.awake.Load()
}

// Wake transitions the session to awake. It is a no-op when already
// awake and reports whether a transition happened.
func (s *Session) Wake() bool {
	return s.awake.CompareAndSwap(false, true)
}

// Sleep transitions the session back to asleep after a hangup. The
// conversation history is preserved so a re-woken session keeps its
// context.
func (s *Session) Sleep() bool {
	return s.awake.CompareAndSwap(true, false)
}

// AddUserMessage appends a user utterance to the history.
func (s *Session) AddUserMessage(content string) {
	s.history = append(s.history, Message{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// AddAssistantMessage appends an assistant reply to the history.
func (s *Session) AddAssistantMessage(content string) {
	s.history = append(s.history, Message{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// History returns the conversation history in arrival order.
func (s *Session) History() []Message {
	return s.history
}

// TurnCount counts user turns taken so far.
func (s *Session) TurnCount() int {
	n := 0
	for _, m := range s.history {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// Reset clears the conversation history. History is never cleared
// implicitly; waking after a hangup keeps prior context.
func (s *Session) Reset() {
	s.history = nil
}
