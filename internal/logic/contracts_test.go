package logic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAutoPlan(t *testing.T) {
	auto := []string{"", "   ", "auto", "AUTO", "Auto", "  aUtO\n"}
	for _, p := range auto {
		assert.True(t, IsAutoPlan(p), "plan %q should trigger generation", p)
	}

	manual := []string{"rotate with legumes", "automatic", "auto plan", "no"}
	for _, p := range manual {
		assert.False(t, IsAutoPlan(p), "plan %q should be kept", p)
	}
}

func TestChatCreateValidate(t *testing.T) {
	isUser, err := ChatCreate{Message: "hi", IsUser: true}.Validate()
	assert.NoError(t, err)
	assert.True(t, isUser)

	_, err = ChatCreate{Message: "", IsUser: true}.Validate()
	assert.Error(t, err)

	_, err = ChatCreate{Message: "hi", IsUser: "false"}.Validate()
	assert.Error(t, err)

	_, err = ChatCreate{Message: "hi"}.Validate()
	assert.Error(t, err)
}

func TestBeeTrafficCreateValidate(t *testing.T) {
	assert.NoError(t, BeeTrafficCreate{Level: "high"}.Validate())
	// multi-byte characters count once each
	assert.NoError(t, BeeTrafficCreate{Level: strings.Repeat("é", 50)}.Validate())
	assert.Error(t, BeeTrafficCreate{Level: strings.Repeat("é", 51)}.Validate())
}
