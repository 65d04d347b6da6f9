package usecase

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/alextgu/groq-voicebot/domain/entities"
	"github.com/alextgu/groq-voicebot/domain/repositories"
	"github.com/alextgu/groq-voicebot/internal/audio"
	"github.com/alextgu/groq-voicebot/internal/wake"
)

// fakeTransport records everything sent, in order.
type fakeTransport struct {
	statuses  []entities.SessionMode
	cues      []string
	fragments []string
	completes []string
	audio     [][]byte
	errors    []string
}

func (f *fakeTransport) SendStatus(mode entities.SessionMode, detail string) error {
	f.statuses = append(f.statuses, mode)
	return nil
}
func (f *fakeTransport) SendTranscription(text string) error { return nil }
func (f *fakeTransport) SendAudioCue(cue string) error {
	f.cues = append(f.cues, cue)
	return nil
}
func (f *fakeTransport) SendFragment(text string) error {
	f.fragments = append(f.fragments, text)
	return nil
}
func (f *fakeTransport) SendTurnComplete(fullText string, hasAudio bool) error {
	f.completes = append(f.completes, fullText)
	return nil
}
func (f *fakeTransport) SendAudio(data []byte) error {
	f.audio = append(f.audio, data)
	return nil
}
func (f *fakeTransport) SendError(code, message string) error {
	f.errors = append(f.errors, code)
	return nil
}

// fakeReasoner streams canned fragments and counts invocations.
type fakeReasoner struct {
	fragments []string
	calls     int
}

func (f *fakeReasoner) Stream(ctx context.Context, utterance string, history []entities.Message) (<-chan string, error) {
	f.calls++
	ch := make(chan string, len(f.fragments))
	for _, fr := range f.fragments {
		ch <- fr
	}
	close(ch)
	return ch, nil
}

// fakeTTS emits a single fixed chunk.
type fakeTTS struct{}

func (fakeTTS) Synthesize(ctx context.Context, text string) (<-chan []byte, error) {
	ch := make(chan []byte, 1)
	ch <- []byte("audio")
	close(ch)
	return ch, nil
}

func newTestService(reasoner repositories.Reasoner) (*TurnService, *fakeTransport) {
	logger := zap.NewNop()
	engine := NewEngine(reasoner, wake.NewClassifier("zed"), "", logger)
	service := NewTurnService(engine, fakeTTS{}, wake.NewGate(), audio.NewCoordinator(logger), "", logger)
	return service, &fakeTransport{}
}

func TestAsleepIgnoresNonWakeUtterance(t *testing.T) {
	reasoner := &fakeReasoner{fragments: []string{"should not run"}}
	service, transport := newTestService(reasoner)
	sess := entities.NewSession()

	err := service.HandleUtterance(context.Background(), sess, transport, "what is variance", nil)
	if err != nil {
		t.Fatalf("HandleUtterance returned error: %v", err)
	}

	if sess.Awake() {
		t.Error("session should stay asleep without the wake phrase")
	}
	if reasoner.calls != 0 {
		t.Errorf("reasoner invoked %d times while asleep, want 0", reasoner.calls)
	}
	if len(transport.statuses) != 1 || transport.statuses[0] != entities.ModeAsleep {
		t.Errorf("expected one asleep status, got %v", transport.statuses)
	}
}

func TestWakePhraseWakesSessionOnce(t *testing.T) {
	reasoner := &fakeReasoner{}
	service, transport := newTestService(reasoner)
	sess := entities.NewSession()

	err := service.HandleUtterance(context.Background(), sess, transport, "Hey Zed!", nil)
	if err != nil {
		t.Fatalf("HandleUtterance returned error: %v", err)
	}

	if !sess.Awake() {
		t.Fatal("session should be awake after the wake phrase")
	}
	if reasoner.calls != 0 {
		t.Error("waking must not invoke the reasoner")
	}
	if len(transport.statuses) != 1 || transport.statuses[0] != entities.ModeAwake {
		t.Errorf("expected one awake status, got %v", transport.statuses)
	}
	if len(transport.cues) != 1 || transport.cues[0] != "wake_beep" {
		t.Errorf("expected wake_beep cue, got %v", transport.cues)
	}
	if len(transport.completes) != 1 || transport.completes[0] != DefaultGreeting {
		t.Errorf("expected greeting turn completion, got %v", transport.completes)
	}
	if len(transport.audio) != 1 {
		t.Errorf("expected one greeting audio frame, got %d", len(transport.audio))
	}
}

func TestAwakeTurnStreamsFragmentsInOrder(t *testing.T) {
	reasoner := &fakeReasoner{fragments: []string{"What ", "defines ", "variance?"}}
	service, transport := newTestService(reasoner)
	sess := entities.NewSession()
	sess.Wake()

	err := service.HandleUtterance(context.Background(), sess, transport, "tell me about variance", nil)
	if err != nil {
		t.Fatalf("HandleUtterance returned error: %v", err)
	}

	want := []string{"What ", "defines ", "variance?"}
	if len(transport.fragments) != len(want) {
		t.Fatalf("got %d fragments, want %d", len(transport.fragments), len(want))
	}
	for i, fr := range want {
		if transport.fragments[i] != fr {
			t.Errorf("fragment %d = %q, want %q", i, transport.fragments[i], fr)
		}
	}
	full := strings.Join(want, "")
	if len(transport.completes) != 1 || transport.completes[0] != full {
		t.Errorf("turn completion full text = %v, want %q", transport.completes, full)
	}

	history := sess.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != entities.RoleUser || history[1].Role != entities.RoleAssistant {
		t.Error("history should be user message then assistant reply")
	}
	if history[1].Content != full {
		t.Errorf("assistant history entry = %q, want %q", history[1].Content, full)
	}
}

func TestTerminationPhraseEndsSession(t *testing.T) {
	reasoner := &fakeReasoner{fragments: []string{"should not run"}}
	service, transport := newTestService(reasoner)
	sess := entities.NewSession()
	sess.Wake()

	err := service.HandleUtterance(context.Background(), sess, transport, "goodbye zed", nil)
	if err != nil {
		t.Fatalf("HandleUtterance returned error: %v", err)
	}

	if sess.Awake() {
		t.Error("session should be asleep after termination phrase")
	}
	if reasoner.calls != 0 {
		t.Error("termination must not invoke the reasoner")
	}
	for _, fr := range transport.fragments {
		if strings.Contains(fr, repositories.HangupToken) {
			t.Errorf("hangup sentinel leaked to transport: %q", fr)
		}
	}
	if len(transport.fragments) == 0 || !strings.Contains(transport.fragments[0], "Good session") {
		t.Errorf("expected farewell fragment, got %v", transport.fragments)
	}
	if len(transport.statuses) != 1 || transport.statuses[0] != entities.ModeAsleep {
		t.Errorf("expected asleep status after hangup, got %v", transport.statuses)
	}
}

func TestModelEmittedHangupSplitsFragment(t *testing.T) {
	reasoner := &fakeReasoner{fragments: []string{"Take a break. ", "See you. " + repositories.HangupToken}}
	service, transport := newTestService(reasoner)
	sess := entities.NewSession()
	sess.Wake()

	err := service.HandleUtterance(context.Background(), sess, transport, "I think we are finished here", nil)
	if err != nil {
		t.Fatalf("HandleUtterance returned error: %v", err)
	}

	if sess.Awake() {
		t.Error("session should sleep when the stream ends with the sentinel")
	}
	want := []string{"Take a break. ", "See you. "}
	if len(transport.fragments) != len(want) {
		t.Fatalf("got fragments %v, want %v", transport.fragments, want)
	}
	for i, fr := range want {
		if transport.fragments[i] != fr {
			t.Errorf("fragment %d = %q, want %q", i, transport.fragments[i], fr)
		}
	}
}

func TestInterruptedPlaybackSkipsAudioFrame(t *testing.T) {
	reasoner := &fakeReasoner{fragments: []string{"A long answer."}}
	service, transport := newTestService(reasoner)
	sess := entities.NewSession()
	sess.Wake()

	tok := audio.NewToken()
	tok.Cancel()

	err := service.HandleUtterance(context.Background(), sess, transport, "keep talking", tok)
	if err != nil {
		t.Fatalf("HandleUtterance returned error: %v", err)
	}

	if len(transport.audio) != 0 {
		t.Errorf("interrupted playback must not ship audio, got %d frames", len(transport.audio))
	}
	if len(transport.completes) != 1 {
		t.Errorf("turn completion should still be sent, got %d", len(transport.completes))
	}
}

func TestErrorReplyIsNotSynthesized(t *testing.T) {
	reasoner := &fakeReasoner{fragments: []string{"[Error: unable to continue. Try again.]"}}
	service, transport := newTestService(reasoner)
	sess := entities.NewSession()
	sess.Wake()

	err := service.HandleUtterance(context.Background(), sess, transport, "hello", nil)
	if err != nil {
		t.Fatalf("HandleUtterance returned error: %v", err)
	}

	if len(transport.audio) != 0 {
		t.Errorf("error fragments must not be synthesized, got %d audio frames", len(transport.audio))
	}
}

func TestRelayAbandonsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fragments := make(chan string)
	transport := &fakeTransport{}

	_, err := Relay(ctx, fragments, transport)
	if err == nil {
		t.Fatal("expected context error from abandoned relay")
	}
	if len(transport.fragments) != 0 {
		t.Errorf("no fragments should be forwarded, got %v", transport.fragments)
	}
}
