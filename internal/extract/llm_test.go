package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jonathan/sixfigure-jobs/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	response string
	err      error
	prompt   string
}

func (c *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	c.prompt = prompt
	return c.response, c.err
}

func (c *fakeLLM) Close() error { return nil }

func TestLLMExtractor(t *testing.T) {
	client := &fakeLLM{response: "```json\n{\"salary_min\": 6000, \"salary_max\": 8000, \"currency\": \"eur\", \"period\": \"month\", \"raw\": \"6.000 - 8.000 EUR brutto im Monat\"}\n```"}
	x := NewLLMExtractor(client)

	got, err := x.Extract(context.Background(), Page{Text: "Gehalt: 6.000 - 8.000 EUR brutto im Monat"})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 6_000.0, *got.Min)
	assert.Equal(t, 8_000.0, *got.Max)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, "month", got.Period)
	assert.Equal(t, ProviderLLM, got.Source)
	assert.Contains(t, client.prompt, "Gehalt")
}

func TestLLMExtractor_NoSalary(t *testing.T) {
	x := NewLLMExtractor(&fakeLLM{response: `{"salary_min": null, "salary_max": null, "currency": null}`})
	got, err := x.Extract(context.Background(), Page{Text: "Competitive pay"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLLMExtractor_EmptyTextSkipsCall(t *testing.T) {
	client := &fakeLLM{}
	got, err := NewLLMExtractor(client).Extract(context.Background(), Page{})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, client.prompt)
}

func TestLLMExtractor_TruncatesInput(t *testing.T) {
	client := &fakeLLM{response: `{}`}
	_, err := NewLLMExtractor(client).Extract(context.Background(), Page{Text: strings.Repeat("x", DefaultLLMInputChars+500)})
	require.NoError(t, err)
	assert.NotContains(t, client.prompt, strings.Repeat("x", DefaultLLMInputChars+1))
}

func TestLLMExtractor_Errors(t *testing.T) {
	quota := errors.New("quota exceeded")
	_, err := NewLLMExtractor(&fakeLLM{err: quota}).Extract(context.Background(), Page{Text: "posting"})
	var exErr *Error
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, ProviderLLM, exErr.Provider)
	assert.ErrorIs(t, err, quota)

	_, err = NewLLMExtractor(&fakeLLM{response: "not json"}).Extract(context.Background(), Page{Text: "posting"})
	require.ErrorAs(t, err, &exErr)
	assert.Contains(t, err.Error(), "invalid JSON")
}
