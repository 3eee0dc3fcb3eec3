package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	provider string
	result   *Extracted
	err      error
	calls    int
}

func (s *stubExtractor) Provider() string { return s.provider }

func (s *stubExtractor) Extract(_ context.Context, _ Page) (*Extracted, error) {
	s.calls++
	return s.result, s.err
}

func TestDefaultRegistry_Providers(t *testing.T) {
	assert.Equal(t,
		[]string{"ashby", "greenhouse", "lever", "text", "workday", "ycombinator"},
		DefaultRegistry().Providers())
}

func TestRegistry_UnknownProviderUsesText(t *testing.T) {
	r := DefaultRegistry()
	got, err := r.Extract(context.Background(), "smartrecruiters", Page{Text: "Salary: €70,000 - €85,000"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "EUR", got.Currency)
}

func TestRegistry_FallbackOrder(t *testing.T) {
	primary := &stubExtractor{provider: "greenhouse"}
	text := &stubExtractor{provider: ProviderText}
	model := &stubExtractor{provider: ProviderLLM, result: &Extracted{Min: f(1)}}

	r := NewRegistry(primary, text).WithLLM(model)
	got, err := r.Extract(context.Background(), "greenhouse", Page{})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, text.calls)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, ProviderLLM, got.Source)
}

func TestRegistry_StopsAtFirstHit(t *testing.T) {
	primary := &stubExtractor{provider: "lever", result: &Extracted{Min: f(100_000), Source: "markup"}}
	model := &stubExtractor{provider: ProviderLLM}

	r := NewRegistry(primary).WithLLM(model)
	got, err := r.Extract(context.Background(), "lever", Page{})
	require.NoError(t, err)
	assert.Equal(t, "markup", got.Source)
	assert.Zero(t, model.calls)
}

func TestRegistry_ErrorsOnlyWhenNothingFound(t *testing.T) {
	boom := errors.New("boom")

	failing := &stubExtractor{provider: "ashby", err: boom}
	text := &stubExtractor{provider: ProviderText, result: &Extracted{Min: f(5)}}
	got, err := NewRegistry(failing, text).Extract(context.Background(), "ashby", Page{})
	require.NoError(t, err)
	assert.NotNil(t, got)

	empty := &stubExtractor{provider: ProviderText}
	got, err = NewRegistry(failing, empty).Extract(context.Background(), "ashby", Page{})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_TextProviderRunsOnce(t *testing.T) {
	text := &stubExtractor{provider: ProviderText}
	_, err := NewRegistry(text).Extract(context.Background(), ProviderText, Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, text.calls)
}
