package extract

import "fmt"

// Error represents a failure inside one extractor.
type Error struct {
	Provider string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extractor: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extractor: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
