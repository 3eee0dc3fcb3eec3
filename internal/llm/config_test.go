package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{Models: map[ModelTier]string{TierLite: "fallback-model"}}
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))

	empty := &Config{Models: map[ModelTier]string{}}
	assert.Equal(t, "", empty.GetModel(TierStandard))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	updated := config.WithModel(TierLite, "custom-model")

	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "custom-model", updated.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", updated.GetModel(TierStandard))
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), nil, "")
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt(SalarySchema(), "Pay: $150k-$180k per year")

	assert.Contains(t, prompt, `"salary_min": number|null`)
	assert.Contains(t, prompt, `"period"`)
	assert.Contains(t, prompt, "Pay: $150k-$180k per year")
	assert.Contains(t, prompt, "never guess")
	assert.Contains(t, prompt, "report the first one")
}
