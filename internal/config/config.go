// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonathan/sixfigure-jobs/internal/salary"
)

// DefaultPort is the API listen port when neither the file nor PORT sets one.
const DefaultPort = 8080

// Config represents settings that can be loaded from a JSON file. All fields
// are optional; CLI flags and environment variables fill the gaps.
type Config struct {
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key for LLM salary extraction
	Port        int    `json:"port,omitempty"`
	BandsFile   string `json:"bands_file,omitempty"` // Salary band-table override file

	// Ingestion
	DefaultCountry string `json:"default_country,omitempty"` // Country assumed when a page names none
	Concurrency    int    `json:"concurrency,omitempty"`
	UseBrowser     bool   `json:"use_browser,omitempty"` // Render SPA boards with a headless browser

	// Repair
	MinThreshold float64  `json:"min_threshold,omitempty"`
	MaxThreshold float64  `json:"max_threshold,omitempty"`
	Sources      []string `json:"sources,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.MinThreshold < 0 || c.MaxThreshold < 0 {
		return fmt.Errorf("config error: thresholds must be non-negative")
	}
	if (c.MinThreshold > 0 && c.MinThreshold < salary.DefaultFloor) || c.MaxThreshold > salary.DefaultCeiling {
		return fmt.Errorf("config error: thresholds must lie within [%d, %d]", salary.DefaultFloor, salary.DefaultCeiling)
	}
	if c.MinThreshold > 0 && c.MaxThreshold > 0 && c.MinThreshold >= c.MaxThreshold {
		return fmt.Errorf("config error: 'min_threshold' must be below 'max_threshold'")
	}
	if c.DefaultCountry != "" && len(c.DefaultCountry) != 2 {
		return fmt.Errorf("config error: 'default_country' must be an ISO 3166-1 alpha-2 code")
	}

	if c.BandsFile != "" {
		if _, err := os.Stat(c.BandsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: bands file not found: %s", c.BandsFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from
// defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.BandsFile == "" {
		result.BandsFile = defaults.BandsFile
	}
	if result.DefaultCountry == "" {
		result.DefaultCountry = defaults.DefaultCountry
	}
	if len(result.Sources) == 0 {
		result.Sources = defaults.Sources
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.MinThreshold == 0 {
		result.MinThreshold = defaults.MinThreshold
	}
	if result.MaxThreshold == 0 {
		result.MaxThreshold = defaults.MaxThreshold
	}

	// Bools cannot distinguish unset from false; flags always win.

	return result
}

// FromEnv reads DATABASE_URL, GEMINI_API_KEY, PORT and SALARY_BANDS_FILE.
// Unset or malformed variables leave the field zero.
func FromEnv() Config {
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		BandsFile:   os.Getenv("SALARY_BANDS_FILE"),
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}
	return cfg
}

// Resolve merges an optional config file over the environment and built-in
// defaults, then validates the result.
func Resolve(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(FromEnv())
	merged = merged.MergeWithDefaults(Config{Port: DefaultPort})
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
