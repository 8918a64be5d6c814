package cli

import (
	"fmt"
	"strings"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type invalidValueError struct {
	field   string
	value   string
	allowed []string
}

func (e invalidValueError) Error() string {
	if len(e.allowed) == 0 {
		return fmt.Sprintf("invalid %s: %q", e.field, e.value)
	}
	return fmt.Sprintf("invalid %s: %q (expected one of: %s)", e.field, e.value, strings.Join(e.allowed, ", "))
}

func errInvalidValue(field, value string, allowed []string) error {
	return invalidValueError{field: field, value: value, allowed: allowed}
}
