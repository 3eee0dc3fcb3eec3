package salary

// Result bundles everything downstream consumers need for one posting.
type Result struct {
	Range          Range `json:"range"`
	Classification `json:"classification"`
	Text           string `json:"salary_text,omitempty"`
	HasText        bool   `json:"has_salary_text"`
}

// Normalize resolves, classifies and formats in one pass.
func (r *Registry) Normalize(in Input) Result {
	rng := r.Resolve(in)
	text, ok := r.BuildSalaryText(in)
	return Result{
		Range:          rng,
		Classification: r.Classify(rng, in.CountryCode),
		Text:           text,
		HasText:        ok,
	}
}

var defaultRegistry = DefaultRegistry()

// Resolve runs Registry.Resolve against the built-in tables.
func Resolve(in Input) Range { return defaultRegistry.Resolve(in) }

// Classify runs Registry.Classify against the built-in tables.
func Classify(rng Range, country string) Classification {
	return defaultRegistry.Classify(rng, country)
}

// BuildSalaryText runs Registry.BuildSalaryText against the built-in tables.
func BuildSalaryText(in Input) (string, bool) { return defaultRegistry.BuildSalaryText(in) }

// Normalize runs Registry.Normalize against the built-in tables.
func Normalize(in Input) Result { return defaultRegistry.Normalize(in) }
