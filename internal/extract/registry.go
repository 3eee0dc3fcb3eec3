package extract

import (
	"context"
	"log"
	"sort"
)

// Registry maps provider keys to extractors. Unknown providers use the text
// extractor, and an optional LLM extractor runs last when nothing else finds
// a salary.
type Registry struct {
	extractors map[string]Extractor
	fallback   Extractor
	llm        Extractor
}

// NewRegistry creates a registry over extractors. A "text" extractor is
// always present.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{extractors: make(map[string]Extractor, len(extractors)+1)}
	for _, x := range extractors {
		r.extractors[x.Provider()] = x
	}
	if _, ok := r.extractors[ProviderText]; !ok {
		r.extractors[ProviderText] = Text()
	}
	r.fallback = r.extractors[ProviderText]
	return r
}

// DefaultRegistry returns a registry with every built-in extractor.
func DefaultRegistry() *Registry {
	return NewRegistry(Greenhouse(), Lever(), Ashby(), Workday(), YCombinator(), Text())
}

// WithLLM sets the last-resort extractor.
func (r *Registry) WithLLM(x Extractor) *Registry {
	r.llm = x
	return r
}

// Get returns the extractor registered for provider.
func (r *Registry) Get(provider string) (Extractor, bool) {
	x, ok := r.extractors[provider]
	return x, ok
}

// Providers lists registered provider keys, sorted.
func (r *Registry) Providers() []string {
	out := make([]string, 0, len(r.extractors))
	for p := range r.extractors {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Extract runs the chain for provider: its own extractor, the text
// extractor, then the LLM extractor. A failing step is logged and the chain
// continues; the first error is returned only when no step found a salary.
func (r *Registry) Extract(ctx context.Context, provider string, page Page) (*Extracted, error) {
	chain := make([]Extractor, 0, 3)
	if x, ok := r.extractors[provider]; ok {
		chain = append(chain, x)
	}
	if len(chain) == 0 || chain[0] != r.fallback {
		chain = append(chain, r.fallback)
	}
	if r.llm != nil {
		chain = append(chain, r.llm)
	}

	var firstErr error
	for _, x := range chain {
		e, err := x.Extract(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[extract] %s failed for %s: %v", x.Provider(), page.URL, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if e != nil {
			if e.Source == "" {
				e.Source = x.Provider()
			}
			return e, nil
		}
	}
	return nil, firstErr
}
