package repair

import "fmt"

// Error represents a repair run failure
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("repair error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("repair error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// PolicyError reports an invalid repair policy
type PolicyError struct {
	Message string
	Cause   error
}

func (e *PolicyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid repair policy: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid repair policy: %s", e.Message)
}

func (e *PolicyError) Unwrap() error {
	return e.Cause
}
