package llm

import (
	"context"
	"fmt"

	"apisagro-backend/internal/common"
)

// TextModel is a single-shot prompt to text call against one provider.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// NewTextModel builds the provider named in cfg.Provider.
func NewTextModel(ctx context.Context, cfg common.LLMConfig) (TextModel, error) {
	switch cfg.Provider {
	case common.ProviderGemini:
		return NewGeminiModel(ctx, cfg)
	case common.ProviderOpenAI:
		return NewOpenAIModel(cfg)
	case common.ProviderHunyuan:
		return NewHunyuanModel(cfg)
	case common.ProviderMock:
		return NewMockModel(), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// NewReplyClientFromConfig wires provider and retry settings together.
func NewReplyClientFromConfig(ctx context.Context, cfg common.LLMConfig) (*ReplyClient, error) {
	model, err := NewTextModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	common.WithFields("provider", cfg.Provider, "max_attempts", cfg.MaxAttempts).Info("llm client ready")
	return NewReplyClient(model, cfg.MaxAttempts, cfg.BackoffUnit), nil
}
