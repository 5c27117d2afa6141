// pkg/core/errors.go
package core

import "fmt"

// ValidationError reports input that was rejected before any state mutation.
// It is surfaced to the operator as a message and never escapes a component
// boundary as an unhandled fault.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
