package rag

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// GenerationError means every candidate model failed; Err carries the last
// failure.
type GenerationError struct {
	Attempted []string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("all %d generation candidates failed: %v", len(e.Attempted), e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator produces an answer from a grounding prompt. Implementations are
// tried in order; the first success wins.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
	Name() string
}

// chatModelGenerator adapts an eino chat model to the Generator interface.
type chatModelGenerator struct {
	name  string
	model model.ToolCallingChatModel
}

func (g *chatModelGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	msg, err := g.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	})
	if err != nil {
		return "", fmt.Errorf("model %s: %w", g.name, err)
	}
	if msg == nil || msg.Content == "" {
		return "", fmt.Errorf("model %s: empty completion", g.name)
	}
	return msg.Content, nil
}

func (g *chatModelGenerator) Name() string { return g.name }

// NewGenerators builds one generator per candidate model name against an
// OpenAI-compatible endpoint. Generation requires a credential and fails
// closed without one.
func NewGenerators(ctx context.Context, apiKey, baseURL string, models []string) ([]Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("generation API key is required")
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("at least one candidate model is required")
	}

	generators := make([]Generator, 0, len(models))
	for _, name := range models {
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  apiKey,
			Model:   name,
			BaseURL: baseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create chat model %s: %w", name, err)
		}
		generators = append(generators, &chatModelGenerator{name: name, model: cm})
	}
	return generators, nil
}
