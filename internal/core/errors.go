package core

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no RFP exists for the requested id.
var ErrNotFound = errors.New("rfp not found")

// ValidationError reports one or more rejected fields. It is terminal and
// never retried.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
