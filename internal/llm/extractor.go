package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/sixfigure-jobs/internal/prompts"
)

// ExtractionSchema describes the JSON object a model should return.
type ExtractionSchema struct {
	Name        string
	Description string
	Fields      []SchemaField
}

// SchemaField is one key of the expected output.
type SchemaField struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// BuildExtractionPrompt renders schema and the input text into a prompt.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		fmt.Fprintf(&sb, "  %q: %s", field.Name, typeHint)
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString(prompts.MustGet("extraction.json", "extraction-rules"))
	sb.WriteString("\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// SalarySchema asks for the compensation stated in a job posting.
func SalarySchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "Salary",
		Description: prompts.Format(prompts.MustGet("extraction.json", "salary-description"), map[string]string{
			"RangeChoice": "first",
		}),
		Fields: []SchemaField{
			{Name: "salary_min", Type: "number|null", Description: "Lower bound exactly as stated, in units of currency (not thousands)"},
			{Name: "salary_max", Type: "number|null", Description: "Upper bound exactly as stated"},
			{Name: "currency", Type: `"string"|null`, Description: "ISO 4217 code, e.g. USD, GBP, EUR, INR"},
			{Name: "period", Type: `"year"|"month"|"week"|"day"|"hour"|null`, Description: "Pay period of the figures"},
			{Name: "raw", Type: `"string"|null`, Description: "The salary text copied verbatim"},
		},
	}
}
