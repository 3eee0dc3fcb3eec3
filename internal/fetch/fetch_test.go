package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	// Create test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_ServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.Retryable)
}

func TestURL_SendsHeaders(t *testing.T) {
	var gotUA, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Headers = map[string]string{"Accept-Language": "en-GB"}
	_, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "en-GB", gotLang)
}

func TestExtractMainText(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		selectors   []string
		noise       []string
		contains    []string
		notContains []string
	}{
		{
			name: "main element wins over chrome",
			html: `<html><body><nav>Navigation</nav><main><h1>Staff Engineer</h1>
				<p>Compensation: $180,000 - $220,000</p></main><footer>Footer</footer></body></html>`,
			selectors:   JobPostingSelectors(),
			contains:    []string{"Staff Engineer", "$180,000 - $220,000"},
			notContains: []string{"Navigation", "Footer"},
		},
		{
			name:      "falls back to body",
			html:      `<html><body><div>Some content here.</div></body></html>`,
			selectors: JobPostingSelectors(),
			contains:  []string{"Some content here"},
		},
		{
			name: "noise selectors removed",
			html: `<html><body><div class="job-description"><p>Base pay £90,000</p>
				<div class="eeo-statement">We pay equally</div></div></body></html>`,
			selectors:   JobPostingSelectors(),
			noise:       PlatformNoiseSelectors(PlatformUnknown),
			contains:    []string{"Base pay £90,000"},
			notContains: []string{"We pay equally"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractMainText(tt.html, tt.selectors, tt.noise...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, text, s)
			}
		})
	}
}

func TestCleanWhitespace(t *testing.T) {
	assert.Equal(t, "a\nb", cleanWhitespace("  a  \n\n\t\n b "))
}
