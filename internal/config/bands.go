package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/sixfigure-jobs/internal/salary"
	"github.com/jonathan/sixfigure-jobs/internal/schemas"
	bandschema "github.com/jonathan/sixfigure-jobs/schemas"
)

// BandsFile is the on-disk form of a band-table override. Countries and rates
// listed here replace the built-in entries of the same code; everything else
// keeps its default.
type BandsFile struct {
	Floor     float64                     `json:"floor,omitempty"`
	Ceiling   float64                     `json:"ceiling,omitempty"`
	Countries map[string]salary.BandTable `json:"countries,omitempty"`
	Rates     map[string]float64          `json:"rates,omitempty"`
}

// LoadBands reads and validates a band-table file and returns the resulting
// registry. An empty path yields the built-in registry.
func LoadBands(path string) (*salary.Registry, error) {
	if path == "" {
		return salary.DefaultRegistry(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bands file %s: %w", path, err)
	}
	return ParseBands(data)
}

// ParseBands validates data against the band-table schema and builds a
// registry from it.
func ParseBands(data []byte) (*salary.Registry, error) {
	if err := schemas.Validate("salary_bands", bandschema.SalaryBands, data); err != nil {
		return nil, fmt.Errorf("invalid bands file: %w", err)
	}

	var file BandsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse bands JSON: %w", err)
	}

	for code, table := range file.Countries {
		for _, b := range table.Bands {
			if b.Max != nil && *b.Max < b.Min {
				return nil, fmt.Errorf("invalid bands file: %s band %s has max below min", code, b.ID)
			}
		}
	}

	tables := salary.DefaultBandTables()
	for code, table := range file.Countries {
		tables[strings.ToUpper(code)] = table
	}
	rates := salary.DefaultRates()
	for code, rate := range file.Rates {
		rates[strings.ToUpper(code)] = rate
	}

	registry := salary.NewRegistry(tables, rates)

	floor, ceiling := registry.Floor, registry.Ceiling
	if file.Floor > 0 {
		floor = file.Floor
	}
	if file.Ceiling > 0 {
		ceiling = file.Ceiling
	}
	if floor >= ceiling {
		return nil, fmt.Errorf("invalid bands file: floor %.0f must be below ceiling %.0f", floor, ceiling)
	}
	return registry.WithGate(floor, ceiling), nil
}
