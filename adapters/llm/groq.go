package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/alextgu/groq-voicebot/domain/entities"
	"github.com/alextgu/groq-voicebot/domain/repositories"
)

const (
	defaultChatModel   = "llama-3.3-70b-versatile"
	defaultTemperature = 0.4
	defaultMaxTokens   = 350
)

// systemPrompt drives the Socratic tutoring behavior. The reasoning
// engine never says goodbye on its own; session termination is decided
// before the model is called.
const systemPrompt = `You are ZED, a high-performance Socratic tutor.

Your core mission: build critical thinking and deep understanding. Never create dependency.

When the user is wrong, guessing, or learning: ask scaffolding questions that guide them to the answer. Never give the full answer directly.

When the user got it right: validate briefly ("Exactly.", "Right."), then immediately ask a follow-up challenge question in the same response. Do not say goodbye. Do not ask whether they want to continue. The conversation only ends when the user explicitly says goodbye or that they are done.

When the user shows solid grasp: pose edge cases and tricky variations. Make them prove mastery, not memorization.

When the user is confused: give a brief clear explanation, two or three sentences at most, then check understanding with a simple question.

Tone: concise, sharp, academic. No fluff. Never say "great question" or "let me explain". Keep responses to one to three sentences.`

// GroqConfig holds configuration for the GroqReasoner adapter.
type GroqConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// GroqReasoner implements Reasoner using Groq's OpenAI-compatible chat
// completion streaming endpoint.
type GroqReasoner struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

var _ repositories.Reasoner = (*GroqReasoner)(nil)

// NewGroqReasoner creates a Groq streaming reasoner.
func NewGroqReasoner(config GroqConfig, logger *zap.Logger) (*GroqReasoner, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}
	if config.Temperature < 0 || config.Temperature > 1 {
		return nil, fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	} else {
		clientConfig.BaseURL = "https://api.groq.com/openai/v1"
	}

	model := config.Model
	if model == "" {
		model = defaultChatModel
	}
	temperature := config.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &GroqReasoner{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}, nil
}

// Stream sends the conversation to the model and forwards completion
// deltas over the returned channel. An upstream failure mid-stream is
// surfaced as an inline error fragment so the partial response is not
// lost silently.
func (g *GroqReasoner) Stream(ctx context.Context, utterance string, history []entities.Message) (<-chan string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    chatRole(m.Role),
			Content: m.Content,
		})
	}
	if len(history) == 0 || history[len(history)-1].Content != utterance {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: utterance,
		})
	}

	stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open completion stream: %w", err)
	}

	fragments := make(chan string, 16)
	go func() {
		defer close(fragments)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				g.logger.Error("Completion stream failed", zap.Error(err))
				select {
				case fragments <- "[Error: unable to continue. Try again.]":
				case <-ctx.Done():
				}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case fragments <- delta:
			case <-ctx.Done():
				return
			}
		}
	}()

	return fragments, nil
}

func chatRole(role entities.MessageRole) string {
	if role == entities.RoleAssistant {
		return openai.ChatMessageRoleAssistant
	}
	return openai.ChatMessageRoleUser
}
