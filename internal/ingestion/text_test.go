package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"line endings", "a\r\nb\rc", "a\nb\nc"},
		{"inner whitespace", "Salary:   $150,000\t- $180,000", "Salary: $150,000 - $180,000"},
		{"bullets", "• Go\n· Postgres\n* Kubernetes", "- Go\n- Postgres\n- Kubernetes"},
		{"blank runs", "one\n\n\n\n\ntwo", "one\n\ntwo"},
		{"outer whitespace", "\n\n  hello  \n\n", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}
