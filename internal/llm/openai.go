package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	langopenai "github.com/tmc/langchaingo/llms/openai"

	"apisagro-backend/internal/common"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIModel covers OpenAI and any OpenAI-compatible endpoint (LLM_BASE_URL).
type OpenAIModel struct {
	llm         llms.Model
	temperature float64
}

func NewOpenAIModel(cfg common.LLMConfig) (*OpenAIModel, error) {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	opts := []langopenai.Option{
		langopenai.WithToken(cfg.OpenAIAPIKey),
		langopenai.WithModel(model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, langopenai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := langopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}
	return &OpenAIModel{llm: llm, temperature: cfg.Temperature}, nil
}

func (o *OpenAIModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, o.llm, prompt, llms.WithTemperature(o.temperature))
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	return out, nil
}
