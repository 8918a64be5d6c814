// Package view projects cached records into filtered, sorted and grouped views.
//
// Every function here is pure: inputs are never mutated and the same inputs
// always produce the same output.
package view

// Record is anything the engine can filter, group and sort.
type Record interface {
	// Field returns the named field as a string; "" when unset or unknown.
	Field(name string) string
	// SearchText returns the fields searched by free-text search.
	SearchText() []string
}

// Closer is implemented by records with end states hidden by default.
type Closer interface {
	IsClosed() bool
}
