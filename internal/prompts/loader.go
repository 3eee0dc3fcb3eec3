// Package prompts holds the LLM prompt templates, embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Get returns the prompt stored under key in filename, e.g.
// Get("extraction.json", "salary-description").
func Get(filename, key string) (string, error) {
	prompts, err := load(filename)
	if err != nil {
		return "", err
	}
	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts the binary cannot work without.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format fills {{.Key}} placeholders from data. Unknown placeholders are
// left as they are.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, 2*len(data))
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func load(filename string) (map[string]string, error) {
	cacheMu.RLock()
	prompts, ok := cache[filename]
	cacheMu.RUnlock()
	if ok {
		return prompts, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()
	return prompts, nil
}
