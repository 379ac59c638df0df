package llm

import (
	"context"
	"errors"
	"fmt"

	tccommon "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	v20230901 "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/hunyuan/v20230901"

	"apisagro-backend/internal/common"
)

const (
	defaultHunyuanModel    = "hunyuan-turbos-latest"
	defaultHunyuanEndpoint = "hunyuan.ap-guangzhou.tencentcloudapi.com"
)

// HunyuanModel 使用腾讯云官方Go SDK (non-streaming)
type HunyuanModel struct {
	client      *v20230901.Client
	model       string
	temperature float64
}

func NewHunyuanModel(cfg common.LLMConfig) (*HunyuanModel, error) {
	credential := tccommon.NewCredential(cfg.TencentSecretID, cfg.TencentSecretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = defaultHunyuanEndpoint
	if cfg.BaseURL != "" {
		cpf.HttpProfile.Endpoint = cfg.BaseURL
	}
	client, err := v20230901.NewClient(credential, "", cpf)
	if err != nil {
		return nil, fmt.Errorf("creating hunyuan client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultHunyuanModel
	}
	return &HunyuanModel{client: client, model: model, temperature: cfg.Temperature}, nil
}

func (h *HunyuanModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	req := v20230901.NewChatCompletionsRequest()
	req.Model = tccommon.StringPtr(h.model)
	req.Messages = []*v20230901.Message{{
		Role:    tccommon.StringPtr("user"),
		Content: tccommon.StringPtr(prompt),
	}}
	req.Stream = tccommon.BoolPtr(false)
	req.Temperature = tccommon.Float64Ptr(h.temperature)

	resp, err := h.client.ChatCompletionsWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("hunyuan chat completions: %w", err)
	}
	if resp == nil || resp.Response == nil || len(resp.Response.Choices) == 0 {
		return "", errors.New("hunyuan returned no choices")
	}
	choice := resp.Response.Choices[0]
	if choice.Message == nil || choice.Message.Content == nil {
		return "", errors.New("hunyuan returned an empty message")
	}
	return *choice.Message.Content, nil
}
