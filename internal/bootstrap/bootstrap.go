package bootstrap

import (
	"chat-server/internal/clients/googleai"
	"chat-server/internal/clients/openai"
	"chat-server/internal/config"
	conversationHandler "chat-server/internal/conversations/handler"
	conversationProcessor "chat-server/internal/conversations/processor"
	"chat-server/internal/llm"
	"chat-server/internal/observability"
	"chat-server/internal/store"
	"context"
	"fmt"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store     *store.Store
	Logger    *observability.Logger
	Generator llm.Generator

	// Handlers
	ConversationHandler conversationHandler.Handler
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
		Store:  store.New(logger),
	}

	generator, err := NewGenerator(ctx, cfg.AI, logger)
	if err != nil {
		return nil, err
	}
	deps.Generator = generator

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "ai_provider", Value: generator.Name()},
	)
	logger.Info(ctx, "Response generator initialized")

	processor := conversationProcessor.New(deps.Store, deps.Generator, logger)
	deps.ConversationHandler = conversationHandler.New(processor, logger)

	return deps, nil
}

// NewGenerator builds the response generator selected by cfg.Provider
func NewGenerator(ctx context.Context, cfg config.AIConfig, logger *observability.Logger) (llm.Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := googleai.NewGoogleAIClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini generator: %w", err)
		}
		return client, nil
	case config.ProviderOpenAI:
		client, err := openai.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI generator: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownAIProvider, cfg.Provider)
	}
}

// Cleanup flushes resources that need cleanup
func (d *Dependencies) Cleanup() {
	_ = d.Logger.Sync()
}
