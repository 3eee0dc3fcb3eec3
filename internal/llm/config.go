// Package llm wraps the Gemini API behind a small client interface used for
// salary extraction from free-form posting text.
package llm

// ModelTier represents the capability level of a model.
type ModelTier string

const (
	// TierLite is for extraction and classification.
	TierLite ModelTier = "lite"
	// TierStandard is for structured output over long inputs.
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider.
type Provider string

// ProviderGemini is the Google Gemini provider.
const ProviderGemini Provider = "gemini"

// Config holds the model configuration.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature: 0,
	}
}

// GetModel returns the model name for a given tier, falling back to
// standard and then lite.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of c with model set for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
