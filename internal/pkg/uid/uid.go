// Package uid provides small ID generator abstractions.
//
// Business code depends on NumberID/StringID so generators can be swapped for
// deterministic fakes in tests.
package uid

// NumberID generates numeric identifiers.
type NumberID interface {
	// Generate returns a new unique int64 identifier.
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	// Generate returns a new unique string identifier.
	Generate() string
}
