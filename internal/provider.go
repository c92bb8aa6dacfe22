package internal

import (
	"context"
	"fmt"
	"strings"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"charm.land/fantasy/providers/openai"
	"charm.land/fantasy/providers/openrouter"
)

// Provider is the completion collaborator: it generates an answer from a
// system instruction and a user prompt.
type Provider interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type FantasyConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

var _ Provider = (*FantasyProvider)(nil)

type FantasyProvider struct {
	model   fantasy.LanguageModel
	modelID string
}

func NewFantasyProvider(ctx context.Context, cfg FantasyConfig) (*FantasyProvider, error) {
	var provider fantasy.Provider
	var err error

	switch cfg.Provider {
	case "openai":
		opts := []openai.Option{openai.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		provider, err = openai.New(opts...)

	case "anthropic":
		opts := []anthropic.Option{anthropic.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		provider, err = anthropic.New(opts...)

	case "openrouter":
		opts := []openrouter.Option{openrouter.WithAPIKey(cfg.APIKey)}
		provider, err = openrouter.New(opts...)

	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	model, err := provider.LanguageModel(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("get language model: %w", err)
	}

	return &FantasyProvider{
		model:   model,
		modelID: cfg.Model,
	}, nil
}

func (p *FantasyProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	agent := fantasy.NewAgent(p.model)

	full := prompt
	if system != "" {
		full = system + "\n\n" + prompt
	}

	result, err := agent.Generate(ctx, fantasy.AgentCall{
		Prompt: full,
	})
	if err != nil {
		return "", &CompletionError{Model: p.modelID, Err: err}
	}

	text := result.Response.Content.Text()
	if strings.TrimSpace(text) == "" {
		return "", &CompletionError{Model: p.modelID, Err: fmt.Errorf("response contains no text content")}
	}

	return text, nil
}
