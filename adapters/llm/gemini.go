package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/alextgu/groq-voicebot/domain/entities"
	"github.com/alextgu/groq-voicebot/domain/repositories"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig holds configuration for the GeminiReasoner adapter.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// GeminiReasoner implements Reasoner using Google's Gemini API with
// streamed generation.
type GeminiReasoner struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

var _ repositories.Reasoner = (*GeminiReasoner)(nil)

// NewGeminiReasoner creates a new Gemini streaming reasoner.
func NewGeminiReasoner(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiReasoner, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if config.Temperature < 0 || config.Temperature > 1 {
		return nil, fmt.Errorf("temperature must be between 0 and 1, got %f", config.Temperature)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = defaultGeminiModel
	}
	temperature := config.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &GeminiReasoner{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}, nil
}

// Stream generates a response to the utterance and forwards text parts
// over the returned channel as they arrive.
func (g *GeminiReasoner) Stream(ctx context.Context, utterance string, history []entities.Message) (<-chan string, error) {
	contents := make([]*genai.Content, 0, len(history)+2)
	contents = append(contents, genai.NewContentFromText(systemPrompt, genai.RoleUser))
	for _, m := range history {
		contents = append(contents, genai.NewContentFromText(m.Content, geminiRole(m.Role)))
	}
	if len(history) == 0 || history[len(history)-1].Content != utterance {
		contents = append(contents, genai.NewContentFromText(utterance, genai.RoleUser))
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: int32(g.maxTokens),
	}

	fragments := make(chan string, 16)
	go func() {
		defer close(fragments)

		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, config) {
			if err != nil {
				g.logger.Error("Gemini stream failed", zap.Error(err))
				select {
				case fragments <- "[Error: unable to continue. Try again.]":
				case <-ctx.Done():
				}
				return
			}
			if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
				continue
			}
			for _, part := range resp.Candidates[0].Content.Parts {
				if part.Text == "" {
					continue
				}
				select {
				case fragments <- part.Text:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return fragments, nil
}

func geminiRole(role entities.MessageRole) genai.Role {
	if role == entities.RoleAssistant {
		return genai.RoleModel
	}
	return genai.RoleUser
}
