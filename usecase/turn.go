package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/alextgu/groq-voicebot/domain/entities"
	"github.com/alextgu/groq-voicebot/domain/repositories"
	"github.com/alextgu/groq-voicebot/internal/audio"
	"github.com/alextgu/groq-voicebot/internal/wake"
)

// DefaultGreeting is spoken when the wake phrase is detected.
const DefaultGreeting = "I am ready."

// TurnService runs one conversation turn end to end: wake gating,
// reasoning, relay and speech synthesis. Turns on one session are
// strictly sequential; concurrency exists only across sessions.
type TurnService struct {
	engine      *Engine
	synthesizer repositories.TextToSpeech
	gate        *wake.Gate
	coordinator *audio.Coordinator
	greeting    string
	logger      *zap.Logger
}

// NewTurnService creates a turn service.
func NewTurnService(
	engine *Engine,
	synthesizer repositories.TextToSpeech,
	gate *wake.Gate,
	coordinator *audio.Coordinator,
	greeting string,
	logger *zap.Logger,
) *TurnService {
	if greeting == "" {
		greeting = DefaultGreeting
	}
	return &TurnService{
		engine:      engine,
		synthesizer: synthesizer,
		gate:        gate,
		coordinator: coordinator,
		greeting:    greeting,
		logger:      logger,
	}
}

// HandleUtterance processes one transcribed utterance against the
// session state machine. The cancellation token interrupts speech
// synthesis mid-turn; passing nil disables interruption.
func (t *TurnService) HandleUtterance(
	ctx context.Context,
	sess *entities.Session,
	transport Transport,
	text string,
	tok *audio.Token,
) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if !sess.Awake() {
		return t.handleAsleep(ctx, sess, transport, text, tok)
	}
	return t.handleAwake(ctx, sess, transport, text, tok)
}

// handleAsleep ignores everything except the wake phrase. The reasoner
// is never invoked while asleep; an utterance without the wake phrase
// costs nothing but the transcription that already happened.
func (t *TurnService) handleAsleep(
	ctx context.Context,
	sess *entities.Session,
	transport Transport,
	text string,
	tok *audio.Token,
) error {
	if !t.gate.Detect(text) {
		t.logger.Debug("Ignoring utterance while asleep",
			zap.String("sessionID", sess.ID),
			zap.String("text", text))
		return transport.SendStatus(entities.ModeAsleep, "waiting for wake phrase")
	}

	sess.Wake()
	t.logger.Info("Session woke up", zap.String("sessionID", sess.ID))

	if err := transport.SendStatus(entities.ModeAwake, "session active"); err != nil {
		return err
	}
	if err := transport.SendAudioCue("wake_beep"); err != nil {
		return err
	}

	speech, interrupted, err := t.speak(ctx, t.greeting, tok)
	if err != nil {
		t.logger.Warn("Greeting synthesis failed", zap.Error(err))
	}
	hasAudio := len(speech) > 0 && !interrupted
	if err := transport.SendTurnComplete(t.greeting, hasAudio); err != nil {
		return err
	}
	if hasAudio {
		return transport.SendAudio(speech)
	}
	return nil
}

func (t *TurnService) handleAwake(
	ctx context.Context,
	sess *entities.Session,
	transport Transport,
	text string,
	tok *audio.Token,
) error {
	sess.AddUserMessage(text)

	fragments, err := t.engine.Respond(ctx, text, sess.History())
	if err != nil {
		t.logger.Error("Reasoning failed",
			zap.String("sessionID", sess.ID),
			zap.Error(err))
		return transport.SendError("reasoning_failed", "Unable to process. Try again.")
	}

	result, err := Relay(ctx, fragments, transport)
	if err != nil {
		return fmt.Errorf("relay failed: %w", err)
	}

	reply := strings.TrimSpace(result.FullText)
	if reply != "" {
		sess.AddAssistantMessage(reply)
	}

	var speech []byte
	interrupted := false
	if speakable(reply) {
		speech, interrupted, err = t.speak(ctx, reply, tok)
		if err != nil {
			t.logger.Warn("Speech synthesis failed",
				zap.String("sessionID", sess.ID),
				zap.Error(err))
		}
	}
	hasAudio := len(speech) > 0 && !interrupted

	if err := transport.SendTurnComplete(result.FullText, hasAudio); err != nil {
		return err
	}
	if hasAudio {
		if err := transport.SendAudio(speech); err != nil {
			return err
		}
	}

	if result.Hangup {
		sess.Sleep()
		t.logger.Info("Session went to sleep",
			zap.String("sessionID", sess.ID),
			zap.Int("turns", sess.TurnCount()))
		return transport.SendStatus(entities.ModeAsleep, "session ended")
	}
	return nil
}

// speak synthesizes text and plays it into an in-memory buffer, which
// ships to the client as one binary frame. Interruption through the
// token discards whatever was buffered.
func (t *TurnService) speak(ctx context.Context, text string, tok *audio.Token) ([]byte, bool, error) {
	chunks, err := t.synthesizer.Synthesize(ctx, text)
	if err != nil {
		return nil, false, err
	}

	buf := audio.NewBuffer()
	open := func() (io.WriteCloser, error) { return buf, nil }
	result, err := t.coordinator.Play(ctx, chunks, open, tok)
	if err != nil {
		return nil, false, err
	}
	if result == audio.ResultInterrupted {
		return nil, true, nil
	}
	return buf.Bytes(), false, nil
}

// speakable filters out replies that should never reach the
// synthesizer: empty text and inline error fragments.
func speakable(reply string) bool {
	return reply != "" && !strings.HasPrefix(reply, "[Error")
}
