// Package schemas holds the JSON Schemas for configuration files.
package schemas

import _ "embed"

// SalaryBands is the schema for band-table override files.
//
//go:embed salary_bands.schema.json
var SalaryBands []byte
