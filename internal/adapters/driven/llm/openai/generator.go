// Package openai provides a generation adapter backed by the OpenAI
// chat completions API.
package openai

import (
	"context"
	"fmt"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/archivist-labs/docqa/internal/core/domain"
	"github.com/archivist-labs/docqa/internal/core/ports/driven"
)

var _ driven.Generator = (*Generator)(nil)

// Default configuration values.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTimeout     = 120 * time.Second
	DefaultTemperature = 0.1
)

// Config holds configuration for the generation adapter.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API base URL, for Azure OpenAI or
	// compatible servers.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Temperature is the sampling temperature. Low by default: the
	// pipeline wants quotable, schema-shaped output, not creativity.
	Temperature float32

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration
}

// Generator produces answers via the OpenAI chat completions API.
type Generator struct {
	client      *goopenai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// New creates an OpenAI generation adapter.
func New(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:      goopenai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// Complete generates a completion for the given prompts.
func (g *Generator) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneratorUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response choices returned", domain.ErrGeneratorUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the model identifier for logging.
func (g *Generator) ModelName() string {
	return g.model
}
