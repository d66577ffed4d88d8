package ai

import (
	"context"
	"fmt"

	"creator-stack/shared/config"

	"go.uber.org/zap"
)

// CompletionRequest is one system + user exchange with the model.
type CompletionRequest struct {
	SystemPrompt string
	Prompt       string
	Temperature  float32
	MaxTokens    int
}

// Completer sends a prompt to a chat-completion model and returns the raw
// text of the first choice. Implementations must be safe for concurrent use.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// NewCompleter builds the configured provider client wrapped with retry,
// per-attempt timeout and a circuit breaker.
func NewCompleter(ctx context.Context, cfg *config.AIConfig, logger *zap.Logger) (Completer, error) {
	if cfg == nil {
		return nil, &ConfigurationError{Field: "ai", Reason: "configuration is required"}
	}

	var (
		base Completer
		err  error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		base, err = NewOpenAIClient(cfg)
	case config.ProviderGemini:
		base, err = NewGeminiClient(ctx, cfg)
	default:
		return nil, &ConfigurationError{Field: "ai.provider", Reason: fmt.Sprintf("unsupported provider %q", cfg.Provider)}
	}
	if err != nil {
		return nil, err
	}

	return WithRetry(base, cfg, logger), nil
}
