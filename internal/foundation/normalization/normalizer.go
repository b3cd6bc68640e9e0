// Package normalization holds string canonicalization helpers shared by the
// config loader, the homepage renderer and docs discovery.
package normalization

import (
	"fmt"
	"slices"
	"strings"
)

// Normalizer maps free-form user input onto a closed set of enum values.
// Keys are matched case-insensitively after trimming whitespace.
type Normalizer[T comparable] struct {
	values    map[string]T
	validKeys []string
}

// NewNormalizer creates a normalizer from raw key -> value pairs. Several keys
// may map to the same value to express aliases.
func NewNormalizer[T comparable](values map[string]T) *Normalizer[T] {
	n := &Normalizer[T]{values: make(map[string]T, len(values))}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.validKeys = append(n.validKeys, key)
	}
	slices.Sort(n.validKeys)
	return n
}

// Lookup returns the value for raw and whether it was recognized.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.values[clean(raw)]
	return v, ok
}

// Normalize returns the value for raw, or the zero value when unknown.
func (n *Normalizer[T]) Normalize(raw string) T {
	v, _ := n.Lookup(raw)
	return v
}

// NormalizeWithError is Normalize with a descriptive error for unknown input.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if v, ok := n.Lookup(raw); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.validKeys)
}

// ValidKeys returns all accepted keys, sorted.
func (n *Normalizer[T]) ValidKeys() []string {
	return slices.Clone(n.validKeys)
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
