package llm

import (
	"context"
	"fmt"
)

// MockModel answers without any network call; used with LLM_PROVIDER=mock.
type MockModel struct{}

func NewMockModel() *MockModel {
	return &MockModel{}
}

func (m *MockModel) GenerateText(_ context.Context, prompt string) (string, error) {
	return fmt.Sprintf("Mock reply. You asked: %q", prompt), nil
}
