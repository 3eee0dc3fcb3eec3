package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/sixfigure-jobs/internal/llm"
)

// DefaultLLMInputChars bounds how much posting text is sent to the model.
const DefaultLLMInputChars = 12_000

// LLMExtractor asks a language model for the stated salary. It is the
// fallback for postings that phrase pay in ways the text parser misses.
type LLMExtractor struct {
	client   llm.Client
	tier     llm.ModelTier
	maxChars int
}

// NewLLMExtractor creates an extractor backed by client.
func NewLLMExtractor(client llm.Client) *LLMExtractor {
	return &LLMExtractor{client: client, tier: llm.TierLite, maxChars: DefaultLLMInputChars}
}

// Provider returns "llm".
func (x *LLMExtractor) Provider() string {
	return ProviderLLM
}

type llmSalary struct {
	Min      *float64 `json:"salary_min"`
	Max      *float64 `json:"salary_max"`
	Currency *string  `json:"currency"`
	Period   *string  `json:"period"`
	Raw      *string  `json:"raw"`
}

// Extract implements Extractor.
func (x *LLMExtractor) Extract(ctx context.Context, page Page) (*Extracted, error) {
	text := strings.TrimSpace(page.Text)
	if text == "" {
		return nil, nil
	}
	if runes := []rune(text); len(runes) > x.maxChars {
		text = string(runes[:x.maxChars])
	}

	prompt := llm.BuildExtractionPrompt(llm.SalarySchema(), text)
	resp, err := x.client.GenerateJSON(ctx, prompt, x.tier)
	if err != nil {
		return nil, &Error{Provider: ProviderLLM, Message: "generation failed", Cause: err}
	}

	var out llmSalary
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp)), &out); err != nil {
		return nil, &Error{Provider: ProviderLLM, Message: "invalid JSON response", Cause: err}
	}
	if out.Min == nil && out.Max == nil {
		return nil, nil
	}

	return &Extracted{
		Min:      out.Min,
		Max:      out.Max,
		Currency: strings.ToUpper(deref(out.Currency)),
		Period:   deref(out.Period),
		Raw:      deref(out.Raw),
		Source:   ProviderLLM,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
