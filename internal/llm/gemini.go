package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"apisagro-backend/internal/common"
)

const defaultGeminiModel = "gemini-2.0-flash"

type GeminiModel struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

// NewGeminiModel talks to the Gemini API with an API key.
func NewGeminiModel(ctx context.Context, cfg common.LLMConfig) (*GeminiModel, error) {
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiModel{
		client:      client,
		modelName:   modelName,
		temperature: float32(cfg.Temperature),
	}, nil
}

func (g *GeminiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	temp := g.temperature
	res, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: &temp,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return res.Text(), nil
}
