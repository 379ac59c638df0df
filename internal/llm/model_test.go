package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apisagro-backend/internal/common"
)

func TestNewTextModelSelectsProvider(t *testing.T) {
	ctx := context.Background()

	mock, err := NewTextModel(ctx, common.LLMConfig{Provider: common.ProviderMock})
	require.NoError(t, err)
	assert.IsType(t, &MockModel{}, mock)

	openai, err := NewTextModel(ctx, common.LLMConfig{
		Provider:     common.ProviderOpenAI,
		OpenAIAPIKey: "sk-test",
		BaseURL:      "http://127.0.0.1:1/v1",
	})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIModel{}, openai)

	hunyuan, err := NewTextModel(ctx, common.LLMConfig{
		Provider:         common.ProviderHunyuan,
		TencentSecretID:  "id",
		TencentSecretKey: "key",
	})
	require.NoError(t, err)
	assert.Equal(t, defaultHunyuanModel, hunyuan.(*HunyuanModel).model)

	_, err = NewTextModel(ctx, common.LLMConfig{Provider: "bard"})
	assert.Error(t, err)
}

func TestNewReplyClientFromConfig(t *testing.T) {
	client, err := NewReplyClientFromConfig(context.Background(), common.LLMConfig{
		Provider:    common.ProviderMock,
		MaxAttempts: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, client.maxAttempts)

	out, err := client.Generate(context.Background(), "bees")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
