package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/alextgu/groq-voicebot/domain/entities"
	"github.com/alextgu/groq-voicebot/domain/repositories"
	"github.com/alextgu/groq-voicebot/internal/wake"
)

// DefaultFarewell is spoken when the user ends a session.
const DefaultFarewell = "Good session. You put in the work. Keep that momentum."

// Engine sits between the transport and the language model. It decides
// session termination itself, before the model is ever called: explicit
// termination phrases produce a canned farewell ending in the hangup
// sentinel, everything else streams from the underlying reasoner. The
// model is never trusted to end a session.
type Engine struct {
	reasoner   repositories.Reasoner
	classifier *wake.Classifier
	farewell   string
	logger     *zap.Logger
}

// NewEngine creates a reasoning engine.
func NewEngine(reasoner repositories.Reasoner, classifier *wake.Classifier, farewell string, logger *zap.Logger) *Engine {
	if farewell == "" {
		farewell = DefaultFarewell
	}
	return &Engine{
		reasoner:   reasoner,
		classifier: classifier,
		farewell:   farewell,
		logger:     logger,
	}
}

// Respond produces the fragment stream for one user utterance. A
// termination utterance short-circuits to the farewell without a model
// round trip.
func (e *Engine) Respond(ctx context.Context, utterance string, history []entities.Message) (<-chan string, error) {
	if e.classifier.IsTermination(utterance) {
		e.logger.Info("Termination phrase detected", zap.String("utterance", utterance))
		fragments := make(chan string, 2)
		fragments <- e.farewell + " "
		fragments <- repositories.HangupToken
		close(fragments)
		return fragments, nil
	}
	return e.reasoner.Stream(ctx, utterance, history)
}
