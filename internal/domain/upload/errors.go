package upload

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSigningFailed wraps every failure of the storage provider's signing call.
var ErrSigningFailed = errors.New("signing upload url failed")

type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation error: " + strings.Join(parts, ", ")
}
