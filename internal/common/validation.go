package common

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports schema violations in a submitted payload. Fields
// maps a field path (e.g. "properties.lexicalCategoryId") to a message. A
// payload that produced a ValidationError is never partially applied.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready to collect
// field problems via Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a problem for the given field path.
func (e *ValidationError) Add(path, msg string) {
	e.Fields[path] = msg
}

// Empty reports whether no field problems were collected.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	paths := make([]string, 0, len(e.Fields))
	for p := range e.Fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		parts = append(parts, fmt.Sprintf("%s: %s", p, e.Fields[p]))
	}
	return "validation error: " + strings.Join(parts, "; ")
}
